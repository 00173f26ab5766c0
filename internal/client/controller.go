package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/model"
)

// ErrFormClosed is returned when the form is submitted or edited while closed.
var ErrFormClosed = errors.New("form is not open")

// ErrNegativeQuantity is returned by UpdateQuantity before any request is made.
var ErrNegativeQuantity = errors.New("quantity must not be negative")

// API is the part of Client the Controller uses.
type API interface {
	ListReferences(ctx context.Context, kind model.ReferenceKind) ([]model.ReferenceEntry, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	CreateItem(ctx context.Context, in model.NewItem) (int64, error)
	UpdateItemQuantity(ctx context.Context, id int64, q int) error
	DeleteItem(ctx context.Context, id int64) error
}

// ConfirmFunc asks the user a yes/no question.
type ConfirmFunc func(prompt string) bool

// Draft holds the values typed into the add-item form.
type Draft struct {
	Name        string
	Description string
	CategoryID  *int64
	SupplierID  *int64
	LocationID  *int64
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (d Draft) newItem() model.NewItem {
	return model.NewItem{
		Name:        strings.TrimSpace(d.Name),
		Description: d.Description,
		CategoryID:  d.CategoryID,
		SupplierID:  d.SupplierID,
		LocationID:  d.LocationID,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
	}
}

// Form is the add-item form. It is either closed or open with a draft.
type Form struct {
	Open  bool
	Draft Draft
}

// State is everything the inventory screen shows.
type State struct {
	Items      []model.Item
	Form       Form
	Categories []model.ReferenceEntry
	Suppliers  []model.ReferenceEntry
	Locations  []model.ReferenceEntry
	// Error is the last failure shown to the user, empty when none.
	Error string
}

// References returns the selector options for kind.
func (s State) References(kind model.ReferenceKind) []model.ReferenceEntry {
	switch kind {
	case model.KindCategory:
		return s.Categories
	case model.KindSupplier:
		return s.Suppliers
	case model.KindLocation:
		return s.Locations
	}
	return nil
}

func (s *State) setReferences(kind model.ReferenceKind, entries []model.ReferenceEntry) {
	switch kind {
	case model.KindCategory:
		s.Categories = entries
	case model.KindSupplier:
		s.Suppliers = entries
	case model.KindLocation:
		s.Locations = entries
	}
}

// Controller drives the inventory screen. All methods are safe for
// concurrent use; State returns a snapshot.
type Controller struct {
	api     API
	confirm ConfirmFunc
	logger  *slog.Logger

	mu    sync.Mutex
	state State
	// reloadSeq is the number of the most recently started reload.
	reloadSeq uint64
}

// NewController creates a controller. A nil confirm accepts every prompt.
func NewController(api API, confirm ConfirmFunc) *Controller {
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Controller{
		api:     api,
		confirm: confirm,
		logger:  slog.Default().With("component", "client"),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(s.Items)
	s.Categories = slices.Clone(s.Categories)
	s.Suppliers = slices.Clone(s.Suppliers)
	s.Locations = slices.Clone(s.Locations)
	return s
}

// Reload fetches the item list and replaces Items with it. A response that
// arrives after a newer reload was started is dropped.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.reloadSeq++
	seq := c.reloadSeq
	c.mu.Unlock()

	items, err := c.api.ListItems(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.reloadSeq {
		c.logger.Debug("dropping stale item list", "seq", seq, "latest", c.reloadSeq)
		return nil
	}
	if err != nil {
		c.logger.Error("loading items", "error", err)
		c.state.Error = "Could not load items: " + userMessage(err)
		return err
	}
	c.state.Items = items
	return nil
}

// OpenForm fetches the three reference lists in parallel and opens the form.
// A failed fetch leaves its selector empty and sets Error; the form opens
// regardless.
func (c *Controller) OpenForm(ctx context.Context) {
	kinds := model.ReferenceKinds
	entries := make([][]model.ReferenceEntry, len(kinds))
	errs := make([]error, len(kinds))

	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Go(func() {
			entries[i], errs[i] = c.api.ListReferences(ctx, kind)
		})
	}
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	var failed []string
	for i, kind := range kinds {
		if errs[i] != nil {
			c.logger.Error("loading reference data", "kind", kind, "error", errs[i])
			failed = append(failed, kind.Table())
			c.state.setReferences(kind, nil)
			continue
		}
		c.state.setReferences(kind, entries[i])
	}

	c.state.Error = ""
	if len(failed) > 0 {
		c.state.Error = "Could not load " + strings.Join(failed, ", ")
	}
	if !c.state.Form.Open {
		c.state.Form = Form{Open: true}
	}
}

// SetDraft replaces the draft of the open form.
func (c *Controller) SetDraft(d Draft) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Form.Open {
		return ErrFormClosed
	}
	c.state.Form.Draft = d
	return nil
}

// CancelForm closes the form and discards the draft.
func (c *Controller) CancelForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = Form{}
}

// SubmitForm creates an item from the draft. On success the form closes and
// the list reloads; on failure the form stays open with the draft intact.
func (c *Controller) SubmitForm(ctx context.Context) (int64, error) {
	c.mu.Lock()
	if !c.state.Form.Open {
		c.mu.Unlock()
		return 0, ErrFormClosed
	}
	draft := c.state.Form.Draft
	c.state.Error = ""
	c.mu.Unlock()

	id, err := c.api.CreateItem(ctx, draft.newItem())
	if err != nil {
		c.logger.Error("adding item", "error", err)
		c.setError("Could not add item: " + userMessage(err))
		return 0, err
	}

	c.mu.Lock()
	c.state.Form = Form{}
	c.mu.Unlock()

	return id, c.Reload(ctx)
}

// UpdateQuantity sets an item's quantity and reloads the list.
func (c *Controller) UpdateQuantity(ctx context.Context, id int64, q int) error {
	if q < 0 {
		c.setError("Quantity must not be negative")
		return ErrNegativeQuantity
	}
	c.setError("")

	if err := c.api.UpdateItemQuantity(ctx, id, q); err != nil {
		c.logger.Error("updating quantity", "id", id, "error", err)
		c.setError("Could not update quantity: " + userMessage(err))
		return err
	}
	return c.Reload(ctx)
}

// Delete asks for confirmation, deletes the item and reloads the list. It
// reports whether the deletion went ahead.
func (c *Controller) Delete(ctx context.Context, id int64) (bool, error) {
	if !c.confirm(c.deletePrompt(id)) {
		return false, nil
	}
	c.setError("")

	if err := c.api.DeleteItem(ctx, id); err != nil {
		c.logger.Error("deleting item", "id", id, "error", err)
		c.setError("Could not delete item: " + userMessage(err))
		return false, err
	}
	return true, c.Reload(ctx)
}

func (c *Controller) deletePrompt(id int64) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if item.ID == id {
			return fmt.Sprintf("Delete %q?", item.Name)
		}
	}
	return fmt.Sprintf("Delete item %d?", id)
}

func (c *Controller) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = msg
}

func userMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
