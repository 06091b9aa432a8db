package testutil

import (
	"fotohogar/internal/encryption"
	"fotohogar/internal/fotohogar"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() fotohogar.Encryptor {
	return encryption.NewTestEncryptor()
}
