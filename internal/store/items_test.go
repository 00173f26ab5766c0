package store

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erazemk/zaloga/internal/db"
	"github.com/erazemk/zaloga/internal/model"
)

func ptr[T any](v T) *T { return &v }

func widget() model.NewItem {
	return model.NewItem{
		Name:        "Widget",
		Description: "A widget",
		CategoryID:  ptr(int64(1)),
		SupplierID:  ptr(int64(2)),
		LocationID:  ptr(int64(3)),
		Quantity:    10,
		UnitPrice:   decimal.RequireFromString("2.50"),
	}
}

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewSeededTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, widget())
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if item.Name != "Widget" || item.Description != "A widget" {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", item.Quantity)
	}
	if !item.UnitPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("expected unit price 2.50, got %s", item.UnitPrice)
	}
	if item.CategoryName == nil || *item.CategoryName != "Electronics" {
		t.Errorf("expected category Electronics, got %v", item.CategoryName)
	}
	if item.SupplierName == nil || *item.SupplierName != "Globex" {
		t.Errorf("expected supplier Globex, got %v", item.SupplierName)
	}
	if item.LocationName == nil || *item.LocationName != "Store Front" {
		t.Errorf("expected location Store Front, got %v", item.LocationName)
	}
	if item.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestCreateItemWithoutReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, err := CreateItem(ctx, database, model.NewItem{Name: "Loose"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.CategoryID != nil || item.CategoryName != nil {
		t.Errorf("expected no category, got %v / %v", item.CategoryID, item.CategoryName)
	}
	if item.Description != "" {
		t.Errorf("expected empty description, got %q", item.Description)
	}
	if !item.UnitPrice.IsZero() {
		t.Errorf("expected zero price, got %s", item.UnitPrice)
	}
}

func TestCreateItemValidation(t *testing.T) {
	database := db.NewSeededTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*model.NewItem)
		field  string
	}{
		{"empty name", func(n *model.NewItem) { n.Name = "  " }, "name"},
		{"negative quantity", func(n *model.NewItem) { n.Quantity = -1 }, "quantity"},
		{"negative price", func(n *model.NewItem) { n.UnitPrice = decimal.RequireFromString("-0.01") }, "unit_price"},
		{"unknown category", func(n *model.NewItem) { n.CategoryID = ptr(int64(99)) }, "category_id"},
		{"unknown supplier", func(n *model.NewItem) { n.SupplierID = ptr(int64(99)) }, "supplier_id"},
		{"unknown location", func(n *model.NewItem) { n.LocationID = ptr(int64(99)) }, "location_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := widget()
			tt.mutate(&in)

			_, err := CreateItem(ctx, database, in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}

	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected no items after failed creates, got %d", len(items))
	}
}

func TestListItemsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateItem(ctx, database, model.NewItem{Name: "First"})
	second, _ := CreateItem(ctx, database, model.NewItem{Name: "Second"})
	third, _ := CreateItem(ctx, database, model.NewItem{Name: "Third"})

	items, err := ListItems(ctx, database)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	want := []int64{third.ID, second.ID, first.ID}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected id %d, got %d", i, id, items[i].ID)
		}
	}
}

func TestUpdateItemQuantity(t *testing.T) {
	database := db.NewSeededTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, widget())

	if err := UpdateItemQuantity(ctx, database, item.ID, 0); err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 0 {
		t.Errorf("expected quantity 0, got %d", got.Quantity)
	}

	// Same value again still finds the row.
	if err := UpdateItemQuantity(ctx, database, item.ID, 0); err != nil {
		t.Errorf("repeat update: %v", err)
	}
}

func TestUpdateItemQuantityNegative(t *testing.T) {
	database := db.NewSeededTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, widget())

	err := UpdateItemQuantity(ctx, database, item.ID, -5)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got.Quantity != 10 {
		t.Errorf("expected quantity unchanged at 10, got %d", got.Quantity)
	}
}

func TestMissingItemIsNotFound(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := UpdateItemQuantity(ctx, database, 999999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got %v", err)
	}
	if err := DeleteItem(ctx, database, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete: expected ErrNotFound, got %v", err)
	}
	if _, err := GetItem(ctx, database, 999999); !errors.Is(err, ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, model.NewItem{Name: "Delete Me"})
	if err := DeleteItem(ctx, database, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}

	items, _ := ListItems(ctx, database)
	if len(items) != 0 {
		t.Errorf("expected 0 items after delete, got %d", len(items))
	}

	if err := DeleteItem(ctx, database, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeletedIDsAreNotReused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateItem(ctx, database, model.NewItem{Name: "A"})
	DeleteItem(ctx, database, first.ID)

	second, err := CreateItem(ctx, database, model.NewItem{Name: "B"})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if second.ID == first.ID {
		t.Errorf("id %d reused after delete", first.ID)
	}
}

func TestDanglingReferenceNameIsNull(t *testing.T) {
	database := db.NewSeededTestDB(t)
	ctx := context.Background()

	item, _ := CreateItem(ctx, database, widget())
	if _, err := database.ExecContext(ctx, `DELETE FROM suppliers WHERE id = 2`); err != nil {
		t.Fatal(err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.SupplierName != nil || got.SupplierID != nil {
		t.Errorf("expected supplier cleared, got %v / %v", got.SupplierID, got.SupplierName)
	}
	if got.CategoryName == nil {
		t.Error("expected category name still present")
	}
}
