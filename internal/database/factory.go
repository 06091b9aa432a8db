package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"fotohogar/internal/config"
	"fotohogar/internal/fotohogar"
)

// dbFileName is the SQLite file created inside data_dir.
const dbFileName = "fotohogar.db"

// NewRepositoryFromConfig creates a Repository implementation based on the database config type.
// The repository is loaded with the dataset at cfg.DatasetPath, or the built-in
// seed when no path is configured.
func NewRepositoryFromConfig(ctx context.Context, cfg config.DatabaseConfig) (fotohogar.Repository, error) {
	ds := SeedDataset()
	if cfg.DatasetPath != "" {
		var err error
		if ds, err = ReadDataset(cfg.DatasetPath); err != nil {
			return nil, err
		}
	}

	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		repo, err := NewSQLiteRepository(ctx, filepath.Join(cfg.DataDir, dbFileName), ds)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "memory":
		return NewMemoryRepository(ds), nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
