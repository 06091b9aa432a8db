package storage

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"fotohogar/internal/config"
	"fotohogar/internal/fotohogar"
)

// valkeyKeyPrefix namespaces every key written to a shared Valkey server.
const valkeyKeyPrefix = "fotohogar:"

// ValkeyStorage stores each key as a string value in Valkey (or Redis).
type ValkeyStorage struct {
	client valkey.Client
}

// NewValkeyStorage connects to the server at cfg.ValkeyAddress.
func NewValkeyStorage(cfg config.StorageConfig) (*ValkeyStorage, error) {
	if cfg.ValkeyAddress == "" {
		return nil, fmt.Errorf("valkey storage requires valkey_address to be set")
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.ValkeyAddress},
		Username:    cfg.ValkeyUsername,
		Password:    cfg.ValkeyPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to valkey at %s: %w", cfg.ValkeyAddress, err)
	}
	return &ValkeyStorage{client: client}, nil
}

// Get returns the value for key.
func (s *ValkeyStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Do(ctx, s.client.B().Get().Key(valkeyKeyPrefix+key).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, fmt.Errorf("key %q: %w", key, fotohogar.ErrNotFound)
		}
		return nil, fmt.Errorf("getting %s from valkey: %w", key, err)
	}
	return data, nil
}

// Put sets the value for key.
func (s *ValkeyStorage) Put(ctx context.Context, key string, data []byte) error {
	cmd := s.client.B().Set().Key(valkeyKeyPrefix + key).Value(valkey.BinaryString(data)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("setting %s in valkey: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *ValkeyStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.Do(ctx, s.client.B().Del().Key(valkeyKeyPrefix+key).Build()).Error(); err != nil {
		return fmt.Errorf("deleting %s from valkey: %w", key, err)
	}
	return nil
}

// ValidateSetup pings the server.
func (s *ValkeyStorage) ValidateSetup(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("pinging valkey: %w", err)
	}
	return nil
}

// Close releases the client's connections.
func (s *ValkeyStorage) Close() error {
	s.client.Close()
	return nil
}

// Compile-time check that ValkeyStorage implements fotohogar.Storage interface
var _ fotohogar.Storage = (*ValkeyStorage)(nil)
