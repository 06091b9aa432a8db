package encryption

import (
	"fmt"

	"fotohogar/internal/config"
	"fotohogar/internal/fotohogar"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (fotohogar.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.IdentityPath == "" {
			return nil, fmt.Errorf("age encryption requires identity_path to be set")
		}
		return NewAgeEncryptor(cfg), nil
	case "none":
		return NopEncryptor{}, nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
