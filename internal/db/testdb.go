package db

import (
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db, DriverSQLite); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewSeededTestDB is NewTestDB with the sample reference data loaded.
func NewSeededTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db := NewTestDB(t)
	if _, err := Seed(t.Context(), db); err != nil {
		t.Fatalf("seeding test database: %v", err)
	}
	return db
}
