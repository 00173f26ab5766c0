package client

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/erazemk/zaloga/internal/model"
)

// Render writes the screen for s to w. It depends on nothing but s.
func Render(w io.Writer, s State) error {
	var b strings.Builder

	if s.Error != "" {
		fmt.Fprintf(&b, "! %s\n\n", s.Error)
	}

	if len(s.Items) == 0 {
		b.WriteString("No items.\n")
	} else {
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tSUPPLIER\tLOCATION\tQTY\tPRICE\tADDED")
		for _, item := range s.Items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
				item.ID,
				item.Name,
				orDash(item.CategoryName),
				orDash(item.SupplierName),
				orDash(item.LocationName),
				item.Quantity,
				item.UnitPrice.StringFixed(2),
				item.CreatedAt.Local().Format("2006-01-02 15:04"),
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if s.Form.Open {
		renderForm(&b, s)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderForm(b *strings.Builder, s State) {
	d := s.Form.Draft
	b.WriteString("\nAdd item\n")
	fmt.Fprintf(b, "  name:        %s\n", d.Name)
	fmt.Fprintf(b, "  description: %s\n", d.Description)
	for _, kind := range model.ReferenceKinds {
		entries := s.References(kind)
		fmt.Fprintf(b, "  %-12s %s\n", string(kind)+":", selected(entries, draftRef(d, kind)))
		if len(entries) == 0 {
			b.WriteString("    (no options)\n")
			continue
		}
		for _, e := range entries {
			fmt.Fprintf(b, "    [%d] %s\n", e.ID, e.Name)
		}
	}
	fmt.Fprintf(b, "  quantity:    %d\n", d.Quantity)
	fmt.Fprintf(b, "  unit price:  %s\n", d.UnitPrice.StringFixed(2))
}

func draftRef(d Draft, kind model.ReferenceKind) *int64 {
	return d.newItem().Ref(kind)
}

func selected(entries []model.ReferenceEntry, id *int64) string {
	if id == nil {
		return "-"
	}
	for _, e := range entries {
		if e.ID == *id {
			return e.Name
		}
	}
	return fmt.Sprintf("#%d", *id)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
