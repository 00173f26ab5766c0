package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// schemaVersionSetting is the settings row recording applied migrations.
const schemaVersionSetting = "schema_version"

type migration struct {
	name   string
	sqlite []string
	mysql  []string
}

// migrations run in order after the base schema. A database records how
// many it has applied, so each runs once. Append new migrations at the end.
var migrations = []migration{
	{
		name:   "index items by creation time",
		sqlite: []string{`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at)`},
		mysql:  []string{`CREATE INDEX idx_items_created_at ON items(created_at)`},
	},
	{
		// InnoDB already indexes foreign key columns.
		name: "index item references",
		sqlite: []string{
			`CREATE INDEX IF NOT EXISTS idx_items_category_id ON items(category_id)`,
			`CREATE INDEX IF NOT EXISTS idx_items_supplier_id ON items(supplier_id)`,
			`CREATE INDEX IF NOT EXISTS idx_items_location_id ON items(location_id)`,
		},
	},
}

// SchemaVersion returns the number of migrations applied to db.
func SchemaVersion(db *sql.DB) (int, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM settings WHERE name = ?`, schemaVersionSetting).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing schema version %q: %w", value, err)
	}
	return version, nil
}

// Migrate applies the migrations newer than the recorded schema version.
func Migrate(db *sql.DB, driver string) error {
	version, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", version, len(migrations))
	}

	for i := version; i < len(migrations); i++ {
		m := migrations[i]
		statements := m.sqlite
		if driver == DriverMySQL {
			statements = m.mysql
		}
		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return fmt.Errorf("running migration %d (%s): %w", i+1, m.name, err)
			}
		}
		if err := setSchemaVersion(db, i+1); err != nil {
			return err
		}
	}
	return nil
}

func setSchemaVersion(db *sql.DB, version int) error {
	value := strconv.Itoa(version)
	result, err := db.Exec(`UPDATE settings SET value = ? WHERE name = ?`, value, schemaVersionSetting)
	if err != nil {
		return fmt.Errorf("updating schema version: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	if _, err := db.Exec(`INSERT INTO settings (name, value) VALUES (?, ?)`, schemaVersionSetting, value); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}
