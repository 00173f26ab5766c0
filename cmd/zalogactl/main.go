package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/client"
	"github.com/erazemk/zaloga/internal/model"
)

const usage = `Usage: zalogactl [flags]

Flags:
  -u, -url <url>       server address (default: http://localhost:8080)
  -t, -token <token>   bearer token for writes (default: $ZALOGA_TOKEN)
  -h, -help            show this help and exit

Commands:
  list                 reload and show all items
  show <id>            show one item
  add                  open the add-item form and fill it in
  cancel               discard the open form
  qty <id> <n>         set an item's quantity
  rm <id>              delete an item
  help                 show commands
  quit                 exit
`

// session reads commands and answers from one input stream.
type session struct {
	in   *bufio.Scanner
	out  io.Writer
	api  *client.Client
	ctrl *client.Controller
}

func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *session) confirm(question string) bool {
	answer, _ := s.prompt(question + " [y/N] ")
	return strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
}

func (s *session) render() {
	if err := client.Render(s.out, s.ctrl.State()); err != nil {
		slog.Error("rendering", "error", err)
	}
}

func main() {
	fs := flag.NewFlagSet("zalogactl", flag.ContinueOnError)

	var url string
	fs.StringVar(&url, "url", "http://localhost:8080", "")
	fs.StringVar(&url, "u", "http://localhost:8080", "")

	var token string
	fs.StringVar(&token, "token", os.Getenv("ZALOGA_TOKEN"), "")
	fs.StringVar(&token, "t", os.Getenv("ZALOGA_TOKEN"), "")

	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Only errors reach the terminal; the screen itself is rendered from state.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	api := client.New(url, client.WithToken(token))
	s := &session{
		in:  bufio.NewScanner(os.Stdin),
		out: os.Stdout,
		api: api,
	}
	s.ctrl = client.NewController(api, s.confirm)

	s.run(context.Background())
}

func (s *session) run(ctx context.Context) {
	s.reload(ctx)
	s.render()

	for {
		line, ok := s.prompt("> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list", "ls":
			s.reload(ctx)
		case "show":
			s.show(ctx, fields[1:])
			continue
		case "add":
			s.add(ctx)
		case "cancel":
			s.ctrl.CancelForm()
		case "qty":
			id, q, err := parseQty(fields[1:])
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			s.withTimeout(ctx, func(ctx context.Context) error { return s.ctrl.UpdateQuantity(ctx, id, q) })
		case "rm", "delete":
			id, err := parseID(fields[1:])
			if err != nil {
				fmt.Fprintln(s.out, err)
				continue
			}
			s.withTimeout(ctx, func(ctx context.Context) error {
				_, err := s.ctrl.Delete(ctx, id)
				return err
			})
		case "help", "?":
			fmt.Fprint(s.out, usage)
			continue
		case "quit", "exit", "q":
			return
		default:
			fmt.Fprintf(s.out, "unknown command %q, try help\n", fields[0])
			continue
		}
		s.render()
	}
}

// withTimeout runs one request. Failures are already in the controller state.
func (s *session) withTimeout(ctx context.Context, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_ = fn(ctx)
}

func (s *session) reload(ctx context.Context) {
	s.withTimeout(ctx, s.ctrl.Reload)
}

func (s *session) show(ctx context.Context, args []string) {
	id, err := parseID(args)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	item, err := s.api.GetItem(ctx, id)
	if err != nil {
		fmt.Fprintf(s.out, "! %v\n", err)
		return
	}
	if err := client.Render(s.out, client.State{Items: []model.Item{*item}}); err != nil {
		slog.Error("rendering", "error", err)
	}
	if item.Description != "" {
		fmt.Fprintf(s.out, "\n%s\n", item.Description)
	}
}

// add opens the form and asks for each field, offering the current draft as
// the default, so a failed submit can be retried without retyping.
func (s *session) add(ctx context.Context) {
	s.withTimeout(ctx, func(ctx context.Context) error {
		s.ctrl.OpenForm(ctx)
		return nil
	})
	s.render()

	state := s.ctrl.State()
	d := state.Form.Draft
	var ok bool

	if d.Name, ok = s.ask("name", d.Name); !ok {
		return
	}
	if d.Description, ok = s.ask("description", d.Description); !ok {
		return
	}
	for _, kind := range model.ReferenceKinds {
		ref := refField(&d, kind)
		if *ref, ok = askParsed(s, string(kind)+" id", *ref, formatRef, parseRef); !ok {
			return
		}
	}
	if d.Quantity, ok = askParsed(s, "quantity", d.Quantity, strconv.Itoa, parseQuantity); !ok {
		return
	}
	if d.UnitPrice, ok = askParsed(s, "unit price", d.UnitPrice, decimal.Decimal.String, parsePrice); !ok {
		return
	}

	if err := s.ctrl.SetDraft(d); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	s.withTimeout(ctx, func(ctx context.Context) error {
		_, err := s.ctrl.SubmitForm(ctx)
		return err
	})
	if s.ctrl.State().Form.Open {
		fmt.Fprintln(s.out, "Item not added. Run add to edit the form again or cancel to discard it.")
	}
}

func (s *session) ask(field, current string) (string, bool) {
	label := field + ": "
	if current != "" {
		label = fmt.Sprintf("%s [%s]: ", field, current)
	}
	answer, ok := s.prompt(label)
	if !ok {
		return "", false
	}
	if answer == "" {
		return current, true
	}
	return answer, true
}

func refField(d *client.Draft, kind model.ReferenceKind) **int64 {
	switch kind {
	case model.KindCategory:
		return &d.CategoryID
	case model.KindSupplier:
		return &d.SupplierID
	default:
		return &d.LocationID
	}
}

func formatRef(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// askParsed asks for field until the answer parses, keeping current on an
// empty answer. It reports false when input ends.
func askParsed[T any](s *session, field string, current T, format func(T) string, parse func(string) (T, error)) (T, bool) {
	for {
		answer, ok := s.ask(field, format(current))
		if !ok {
			return current, false
		}
		v, err := parse(answer)
		if err == nil {
			return v, true
		}
		fmt.Fprintf(s.out, "! %s: %v\n", field, err)
	}
}

// parseRef accepts an id, or "" or "-" for no reference.
func parseRef(s string) (*int64, error) {
	if s == "" || s == "-" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return nil, fmt.Errorf("%q is not an id, use - for none", s)
	}
	return &id, nil
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	if q < 0 {
		return 0, errors.New("must not be negative")
	}
	return q, nil
}

func parsePrice(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}
	return d, nil
}

func parseID(args []string) (int64, error) {
	if len(args) < 1 {
		return 0, errors.New("missing item id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", args[0])
	}
	return id, nil
}

func parseQty(args []string) (int64, int, error) {
	id, err := parseID(args)
	if err != nil {
		return 0, 0, err
	}
	if len(args) < 2 {
		return 0, 0, errors.New("usage: qty <id> <n>")
	}
	q, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid quantity %q", args[1])
	}
	return id, q, nil
}
