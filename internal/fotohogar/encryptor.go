package fotohogar

import "io"

// Encryptor protects the persisted session at rest.
type Encryptor interface {
	// Setup performs one-time key generation. Called during `fotohogar config init`.
	Setup() error

	// Encrypt encrypts data read from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Decrypt decrypts data read from r and writes plaintext to w.
	Decrypt(r io.Reader, w io.Writer) error

	// IsConfigured returns true if the key material exists.
	IsConfigured() bool
}
