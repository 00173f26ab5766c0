// Package cache keeps recently read reference lists. Reference data is
// read-only for the application, so entries only expire by age.
package cache

import (
	"context"

	"github.com/erazemk/zaloga/internal/model"
)

// Cache stores reference lists keyed by kind.
type Cache interface {
	// Get returns the cached entries and whether they were present.
	Get(ctx context.Context, kind model.ReferenceKind) ([]model.ReferenceEntry, bool, error)
	// Set stores the entries for kind.
	Set(ctx context.Context, kind model.ReferenceKind, entries []model.ReferenceEntry) error
}
