package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"

	"fotohogar/internal/config"
	"fotohogar/internal/fotohogar"
)

// AgeEncryptor implements fotohogar.Encryptor using filippo.io/age with an
// X25519 identity. The identity file is readable by its owner only; the
// persisted session is encrypted to the identity's own recipient.
type AgeEncryptor struct {
	identityPath string
}

var _ fotohogar.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates a new AgeEncryptor from configuration.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{identityPath: cfg.IdentityPath}
}

// Setup generates a new X25519 identity and writes it to the identity path.
// An existing identity is never overwritten: sessions encrypted to it would
// become unreadable.
func (e *AgeEncryptor) Setup() error {
	if e.IsConfigured() {
		return fmt.Errorf("identity already exists at %s", e.identityPath)
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating identity: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(e.identityPath), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	content := fmt.Sprintf("# public key: %s\n%s\n", identity.Recipient(), identity)
	if err := os.WriteFile(e.identityPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}

// Encrypt reads plaintext from r and writes age-encrypted ciphertext to w.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	identity, err := e.loadIdentity()
	if err != nil {
		return err
	}

	encWriter, err := age.Encrypt(w, identity.Recipient())
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}

	if _, err := io.Copy(encWriter, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}

	if err := encWriter.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Decrypt reads age-encrypted ciphertext from r and writes plaintext to w.
func (e *AgeEncryptor) Decrypt(r io.Reader, w io.Writer) error {
	identity, err := e.loadIdentity()
	if err != nil {
		return err
	}

	decReader, err := age.Decrypt(r, identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}

	if _, err := io.Copy(w, decReader); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}

// IsConfigured returns true if the identity file exists.
func (e *AgeEncryptor) IsConfigured() bool {
	_, err := os.Stat(e.identityPath)
	return err == nil
}

// loadIdentity reads and parses the X25519 identity from disk.
func (e *AgeEncryptor) loadIdentity() (*age.X25519Identity, error) {
	data, err := os.ReadFile(e.identityPath)
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing identity: %w", err)
	}

	for _, id := range identities {
		if x, ok := id.(*age.X25519Identity); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("no X25519 identity found in %s", e.identityPath)
}
