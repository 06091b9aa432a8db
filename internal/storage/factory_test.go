package storage

import (
	"context"
	"path/filepath"
	"testing"

	"fotohogar/internal/config"
)

func TestNewStorageFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr bool
	}{
		{
			name: "memory storage",
			cfg:  config.StorageConfig{Type: "memory"},
		},
		{
			name: "filesystem storage",
			cfg:  config.StorageConfig{Type: "filesystem", FSRoot: filepath.Join(t.TempDir(), "state")},
		},
		{
			name:    "filesystem storage without root",
			cfg:     config.StorageConfig{Type: "filesystem"},
			wantErr: true,
		},
		{
			name:    "s3 storage without bucket",
			cfg:     config.StorageConfig{Type: "s3", S3Region: "us-east-1"},
			wantErr: true,
		},
		{
			name:    "valkey storage without address",
			cfg:     config.StorageConfig{Type: "valkey"},
			wantErr: true,
		},
		{
			name:    "valkey storage unreachable",
			cfg:     config.StorageConfig{Type: "valkey", ValkeyAddress: "127.0.0.1:1"},
			wantErr: true,
		},
		{
			name:    "unknown storage type",
			cfg:     config.StorageConfig{Type: "unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStorageFromConfig(context.Background(), tt.cfg)

			if (err != nil) != tt.wantErr {
				t.Fatalf("NewStorageFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && got != nil {
				t.Error("NewStorageFromConfig() should return nil on error")
			}
			if !tt.wantErr && got == nil {
				t.Error("NewStorageFromConfig() returned nil")
			}
		})
	}
}
