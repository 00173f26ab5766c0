package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erazemk/zaloga/internal/model"
)

// ListReferences returns all entries of a lookup table in insertion order.
func ListReferences(ctx context.Context, db *sql.DB, kind model.ReferenceKind) ([]model.ReferenceEntry, error) {
	table := kind.Table()
	if table == "" {
		return nil, fmt.Errorf("unknown reference kind %q", kind)
	}

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM `+table+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var entries []model.ReferenceEntry
	for rows.Next() {
		var e model.ReferenceEntry
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// rowQuerier is satisfied by both *sql.DB and *sql.Tx.
type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// referenceExists reports whether a lookup row of the given kind exists.
func referenceExists(ctx context.Context, q rowQuerier, kind model.ReferenceKind, id int64) (bool, error) {
	var found int64
	err := q.QueryRowContext(ctx, `SELECT id FROM `+kind.Table()+` WHERE id = ?`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", kind.Table(), err)
	}
	return true, nil
}
