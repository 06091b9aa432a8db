package storage

import (
	"context"
	"fmt"

	"fotohogar/internal/config"
	"fotohogar/internal/fotohogar"
)

// NewStorageFromConfig creates a Storage implementation based on the storage config type.
func NewStorageFromConfig(ctx context.Context, cfg config.StorageConfig) (fotohogar.Storage, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem storage requires fs_root to be set")
		}
		s, err := NewFileSystemStorage(cfg.FSRoot)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := NewS3Storage(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "valkey":
		s, err := NewValkeyStorage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
