package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// envFile is loaded from the working directory, when present, before defaults are resolved.
const envFile = ".env"

// LoadEnv loads variables from .env in the working directory. Variables that
// are already set in the environment win. A missing file is not an error.
func LoadEnv() error {
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", envFile, err)
	}
	return nil
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - FOTOHOGAR_CONFIG_PATH: config file location (default: ~/.config/fotohogar.toml)
//   - FOTOHOGAR_HOME: base directory for fotohogar data (default: ~/.local/share/fotohogar)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// getConfigPath returns the config file path, checking FOTOHOGAR_CONFIG_PATH first,
// then falling back to the default ~/.config/fotohogar.toml.
func getConfigPath() (string, error) {
	if path := os.Getenv("FOTOHOGAR_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "fotohogar.toml"), nil
}

// getBaseDir returns the base directory for fotohogar data, checking FOTOHOGAR_HOME
// first, then falling back to the XDG default ~/.local/share/fotohogar.
func getBaseDir() (string, error) {
	if path := os.Getenv("FOTOHOGAR_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "fotohogar"), nil
}
