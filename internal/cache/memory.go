package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

type memoryEntry struct {
	entries []model.ReferenceEntry
	expires time.Time
}

// Memory is an in-process Cache with a fixed TTL.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[model.ReferenceKind]memoryEntry
}

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[model.ReferenceKind]memoryEntry),
	}
}

func (m *Memory) Get(_ context.Context, kind model.ReferenceKind) ([]model.ReferenceEntry, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[kind]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.entries, kind)
		return nil, false, nil
	}
	return slices.Clone(e.entries), true, nil
}

func (m *Memory) Set(_ context.Context, kind model.ReferenceKind, entries []model.ReferenceEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[kind] = memoryEntry{
		entries: slices.Clone(entries),
		expires: m.now().Add(m.ttl),
	}
	return nil
}
