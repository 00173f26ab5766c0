package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/zaloga/internal/model"
)

// selectItems selects items joined with their reference names.
const selectItems = `SELECT i.id, i.name, i.description, i.category_id, i.supplier_id, i.location_id,
        i.quantity, i.unit_price, i.created_at,
        c.name AS category_name, s.name AS supplier_name, l.name AS location_name
 FROM items i
 LEFT JOIN categories c ON c.id = i.category_id
 LEFT JOIN suppliers s ON s.id = i.supplier_id
 LEFT JOIN locations l ON l.id = i.location_id`

// CreateItem validates and inserts a new item and returns it as stored.
// Unknown reference ids are reported as *ValidationError before the insert.
func CreateItem(ctx context.Context, db *sql.DB, in model.NewItem) (*model.Item, error) {
	if err := validateNewItem(in); err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, kind := range model.ReferenceKinds {
		id := in.Ref(kind)
		if id == nil {
			continue
		}
		ok, err := referenceExists(ctx, tx, kind, *id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ValidationError{
				Field:   kind.Field(),
				Message: fmt.Sprintf("%s %d does not exist", kind, *id),
			}
		}
	}

	var description sql.NullString
	if in.Description != "" {
		description = sql.NullString{String: in.Description, Valid: true}
	}

	result, err := tx.ExecContext(ctx,
		`INSERT INTO items (name, description, category_id, supplier_id, location_id, quantity, unit_price)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Name, description, in.CategoryID, in.SupplierID, in.LocationID, in.Quantity, in.UnitPrice,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return GetItem(ctx, db, id)
}

func validateNewItem(in model.NewItem) error {
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Message: "name required"}
	}
	if in.Quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}
	if in.UnitPrice.IsNegative() {
		return &ValidationError{Field: "unit_price", Message: "unit_price must not be negative"}
	}
	return nil
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, selectItems+` WHERE i.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items, newest first.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx, selectItems+` ORDER BY i.created_at DESC, i.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItemQuantity sets an item's quantity to an absolute value.
func UpdateItemQuantity(ctx context.Context, db *sql.DB, id int64, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}

	result, err := db.ExecContext(ctx, `UPDATE items SET quantity = ? WHERE id = ?`, quantity, id)
	if err != nil {
		return fmt.Errorf("updating quantity: %w", err)
	}
	return expectAffected(result)
}

// DeleteItem permanently removes an item.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return expectAffected(result)
}

// expectAffected maps a zero affected-row count to ErrNotFound.
func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*model.Item, error) {
	var item model.Item
	var description sql.NullString
	err := row.Scan(
		&item.ID, &item.Name, &description,
		&item.CategoryID, &item.SupplierID, &item.LocationID,
		&item.Quantity, &item.UnitPrice, &item.CreatedAt,
		&item.CategoryName, &item.SupplierName, &item.LocationName,
	)
	if err != nil {
		return nil, err
	}
	item.Description = description.String
	return &item, nil
}
