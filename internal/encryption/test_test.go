package encryption

import (
	"bytes"
	"testing"
)

func TestTestEncryptor_Setup(t *testing.T) {
	t.Parallel()
	e := NewTestEncryptor()
	if err := e.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if !e.setupCalled {
		t.Error("Setup() did not record that it was called")
	}
	if !e.IsConfigured() {
		t.Error("IsConfigured() = false, want true")
	}
}

func TestTestEncryptor_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewTestEncryptor()

			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if !bytes.HasPrefix(encrypted.Bytes(), testHeader) {
				t.Error("encrypted output does not start with test header")
			}

			var decrypted bytes.Buffer
			if err := e.Decrypt(bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip failed: got %q, want %q", decrypted.Bytes(), tt.input)
			}
		})
	}
}

func TestTestEncryptor_DecryptInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "wrong header", input: []byte("NOT_VALID_HEADER_data")},
		{name: "truncated header", input: []byte("FH")},
		{name: "empty", input: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := NewTestEncryptor().Decrypt(bytes.NewReader(tt.input), &out); err == nil {
				t.Error("Decrypt() expected error")
			}
		})
	}
}

func TestNopEncryptor(t *testing.T) {
	t.Parallel()

	var e NopEncryptor
	var encrypted, decrypted bytes.Buffer
	if err := e.Encrypt(bytes.NewReader([]byte("plain")), &encrypted); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if encrypted.String() != "plain" {
		t.Errorf("Encrypt() = %q, want plain", encrypted.String())
	}
	if err := e.Decrypt(&encrypted, &decrypted); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if decrypted.String() != "plain" {
		t.Errorf("Decrypt() = %q, want plain", decrypted.String())
	}
}
