package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for fotohogar.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Latency    LatencyConfig    `toml:"latency"`
	Database   DatabaseConfig   `toml:"database"`
	Session    SessionConfig    `toml:"session"`
	Storage    StorageConfig    `toml:"storage"`
	Encryption EncryptionConfig `toml:"encryption"`
	Auth       AuthConfig       `toml:"auth"`
}

// LatencyConfig holds the simulated network delays, in milliseconds.
type LatencyConfig struct {
	DefaultMS int `toml:"default_ms"`
	UploadMS  int `toml:"upload_ms"`
}

// Default returns the delay paid by every operation except uploads.
func (c LatencyConfig) Default() time.Duration {
	return time.Duration(c.DefaultMS) * time.Millisecond
}

// Upload returns the delay paid by photo uploads.
func (c LatencyConfig) Upload() time.Duration {
	return time.Duration(c.UploadMS) * time.Millisecond
}

// DatabaseConfig represents configuration for the album repository.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type        string `toml:"type"`                   // "sqlite" or "memory"
	DataDir     string `toml:"data_dir,omitempty"`     // only used for type=sqlite
	DatasetPath string `toml:"dataset_path,omitempty"` // replaces the built-in seed data when set
}

// SessionConfig controls the persisted login.
type SessionConfig struct {
	Secret   string `toml:"secret"`    // HMAC key for session tokens
	TTLHours int    `toml:"ttl_hours"` // 0 means tokens never expire
}

// TTL returns the session lifetime.
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// StorageConfig represents configuration for the session storage backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type string `toml:"type"` // "memory", "filesystem", "s3" or "valkey"

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSRoot string `toml:"fs_root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket    string `toml:"s3_bucket,omitempty"`
	S3Prefix    string `toml:"s3_prefix,omitempty"`
	S3Region    string `toml:"s3_region,omitempty"`
	S3Endpoint  string `toml:"s3_endpoint,omitempty"`   // for S3-compatible services
	S3AccessKey string `toml:"s3_access_key,omitempty"` // static credentials; default chain when empty
	S3SecretKey string `toml:"s3_secret_key,omitempty"`

	// Valkey-specific fields (only used when Type == "valkey")
	ValkeyAddress  string `toml:"valkey_address,omitempty"`
	ValkeyUsername string `toml:"valkey_username,omitempty"`
	ValkeyPassword string `toml:"valkey_password,omitempty"`
}

// EncryptionConfig selects how the persisted session is protected at rest.
type EncryptionConfig struct {
	Type         string `toml:"type"` // "age" (default), "none" or "test"
	IdentityPath string `toml:"identity_path,omitempty"`
}

// AuthConfig selects the password hasher used by `user hash-password`.
type AuthConfig struct {
	Hasher string `toml:"hasher"` // "sha256" (default) or "bcrypt"
}

// NewConfig creates a new Config rooted at baseDir with default settings.
func NewConfig(baseDir, sessionSecret string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Latency: LatencyConfig{DefaultMS: 500, UploadMS: 1000},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Session: SessionConfig{
			Secret:   sessionSecret,
			TTLHours: 24 * 30,
		},
		Storage: StorageConfig{
			Type:   "filesystem",
			FSRoot: filepath.Join(baseDir, "state"),
		},
		Encryption: EncryptionConfig{
			Type:         "age",
			IdentityPath: filepath.Join(baseDir, "keys", "fotohogar.key"),
		},
		Auth: AuthConfig{Hasher: "sha256"},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to path with owner-only permissions; the file
// holds the session secret.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
