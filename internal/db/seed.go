package db

import (
	"context"
	"database/sql"
	"fmt"
)

// seedData lists the sample reference rows per table, in insertion order.
var seedData = []struct {
	table string
	names []string
}{
	{"categories", []string{"Electronics", "Office Supplies", "Furniture", "Tools"}},
	{"suppliers", []string{"Acme Corp", "Globex", "Initech"}},
	{"locations", []string{"Main Warehouse", "Back Office", "Store Front"}},
}

// Seed loads sample categories, suppliers and locations into empty tables.
// Tables that already hold rows are left alone. It returns the number of
// rows inserted.
func Seed(ctx context.Context, db *sql.DB) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, s := range seedData {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+s.table).Scan(&count); err != nil {
			return 0, fmt.Errorf("counting %s: %w", s.table, err)
		}
		if count > 0 {
			continue
		}

		for _, name := range s.names {
			if _, err := tx.ExecContext(ctx, `INSERT INTO `+s.table+` (name) VALUES (?)`, name); err != nil {
				return 0, fmt.Errorf("seeding %s: %w", s.table, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed data: %w", err)
	}
	return inserted, nil
}
