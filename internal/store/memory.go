package store

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in process memory, one slice per target root
type MemoryStore struct {
	mu    sync.Mutex
	roots map[string][]Record
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{roots: make(map[string][]Record)}
}

// Save implements Store.Save
func (m *MemoryStore) Save(_ context.Context, targetRoot string, records []Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots[targetRoot] = slices.Clone(records)
	return nil
}

// Load implements Store.Load
func (m *MemoryStore) Load(_ context.Context, targetRoot string) ([]Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	records := slices.Clone(m.roots[targetRoot])
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
