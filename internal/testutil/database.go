package testutil

import (
	"context"
	"testing"

	"fotohogar/internal/database"
	"fotohogar/internal/fotohogar"
)

// NewTestRepository creates an in-memory repository loaded with the seed dataset.
func NewTestRepository(t *testing.T) fotohogar.Repository {
	t.Helper()

	repo := database.NewMemoryRepository(database.SeedDataset())
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// NewTestSQLiteRepository creates an in-memory SQLite repository with schema
// applied and the seed dataset loaded.
// The database is automatically closed when the test completes.
func NewTestSQLiteRepository(t *testing.T) fotohogar.Repository {
	t.Helper()

	repo, err := database.NewSQLiteRepository(context.Background(), ":memory:", database.SeedDataset())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}
