// Package kv provides the string-keyed blob stores that hold the catalog and
// ledger snapshots.
package kv

import (
	"context"
	"sync"
)

// Entry is one key and its value.
type Entry struct {
	Key   string
	Value []byte
}

// Store is a minimal key-value store. Get reports found=false for missing keys.
// SetAll writes every entry or none of them.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	SetAll(ctx context.Context, entries []Entry) error
}

// MemoryStore keeps values in a map. It is used by tests and by STORE_DRIVER=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

// Set stores a copy of value under key.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

// SetAll stores every entry under one lock.
func (m *MemoryStore) SetAll(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		m.values[e.Key] = append([]byte(nil), e.Value...)
	}
	return nil
}

// Keys lists the stored keys in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	return keys
}
