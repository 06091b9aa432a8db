package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fotohogar/internal/fotohogar"
)

// FileSystemStorage stores each key as a file directly under root:
//
//	<root>/
//	  <key>     (one file per key, written atomically)
type FileSystemStorage struct {
	root string
}

// NewFileSystemStorage creates the root directory if needed.
func NewFileSystemStorage(root string) (*FileSystemStorage, error) {
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSystemStorage{root: root}, nil
}

// path maps key to its file. Keys must be plain file names.
func (s *FileSystemStorage) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || filepath.Base(key) != key {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.root, key), nil
}

// Get reads the file for key.
func (s *FileSystemStorage) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("key %q: %w", key, fotohogar.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// Put writes data for key using an atomic write (temp file + rename).
func (s *FileSystemStorage) Put(_ context.Context, key string, data []byte) error {
	destPath, err := s.path(key)
	if err != nil {
		return err
	}

	// Temp file in the same directory so the rename stays on one filesystem
	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Delete removes the file for key.
func (s *FileSystemStorage) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the root directory exists and is writable.
func (s *FileSystemStorage) ValidateSetup(_ context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("storage root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage root is not a directory: %s", s.root)
	}

	probe, err := os.CreateTemp(s.root, ".probe-*")
	if err != nil {
		return fmt.Errorf("storage root not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}

// Compile-time check that FileSystemStorage implements fotohogar.Storage interface
var _ fotohogar.Storage = (*FileSystemStorage)(nil)
