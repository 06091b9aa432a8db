package testutil

import (
	"fotohogar/internal/fotohogar"
	"fotohogar/internal/storage"
)

// NewTestStorage creates an empty in-memory key/value store.
func NewTestStorage() fotohogar.Storage {
	return storage.NewMemoryStorage()
}
