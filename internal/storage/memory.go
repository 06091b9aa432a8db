package storage

import (
	"context"
	"fmt"
	"sync"

	"fotohogar/internal/fotohogar"
)

// MemoryStorage is an in-memory implementation of the Storage interface.
// It is useful for testing and for sessions that should not outlive the process.
// This implementation is safe for concurrent use.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("key %q: %w", key, fotohogar.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of data under key.
func (m *MemoryStorage) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Delete removes key.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// ValidateSetup always succeeds for in-memory storage.
func (m *MemoryStorage) ValidateSetup(_ context.Context) error {
	return nil
}

// Compile-time check that MemoryStorage implements fotohogar.Storage interface
var _ fotohogar.Storage = (*MemoryStorage)(nil)
