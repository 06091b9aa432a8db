package fotohogar

import "context"

// Storage is a small key/value store used to persist the session between
// process runs. Values are opaque bytes.
type Storage interface {
	// Get returns the value stored under key, or an error wrapping
	// ErrNotFound when nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// ValidateSetup verifies that the backend is reachable and usable.
	ValidateSetup(ctx context.Context) error
}
