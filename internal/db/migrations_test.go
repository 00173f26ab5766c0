package db

import (
	"database/sql"
	"testing"
)

func hasIndex(t *testing.T, database *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := database.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND name = ?`, name).Scan(&count)
	if err != nil {
		t.Fatalf("looking up index %s: %v", name, err)
	}
	return count == 1
}

func TestEnsureSchemaAppliesMigrations(t *testing.T) {
	database := NewTestDB(t)

	version, err := SchemaVersion(database)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), version)
	}

	for _, name := range []string{
		"idx_items_created_at",
		"idx_items_category_id",
		"idx_items_supplier_id",
		"idx_items_location_id",
	} {
		if !hasIndex(t, database, name) {
			t.Errorf("index %s missing", name)
		}
	}
}

func TestMigrateUpgradesOlderDatabase(t *testing.T) {
	database := NewTestDB(t)

	// Roll back to a database that only saw the first migration.
	if _, err := database.Exec(`DROP INDEX idx_items_category_id`); err != nil {
		t.Fatal(err)
	}
	if err := setSchemaVersion(database, 1); err != nil {
		t.Fatalf("setSchemaVersion: %v", err)
	}

	if err := EnsureSchema(database, DriverSQLite); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	if !hasIndex(t, database, "idx_items_category_id") {
		t.Error("migration 2 was not reapplied")
	}
	version, err := SchemaVersion(database)
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("expected schema version %d, got %d", len(migrations), version)
	}
}

func TestMigrateRejectsNewerDatabase(t *testing.T) {
	database := NewTestDB(t)

	if err := setSchemaVersion(database, len(migrations)+1); err != nil {
		t.Fatalf("setSchemaVersion: %v", err)
	}
	if err := Migrate(database, DriverSQLite); err == nil {
		t.Error("expected error for a schema newer than the build")
	}
}
