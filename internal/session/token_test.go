package session

import (
	"strings"
	"testing"
	"time"

	"fotohogar/internal/testutil"
)

func TestTokenSigner(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		s := NewTokenSigner("secret", time.Hour, testutil.FixedClock())

		token, err := s.Sign("1")
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		got, err := s.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if got != "1" {
			t.Errorf("Verify() = %q, want 1", got)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		clock := testutil.FixedClock()
		s := NewTokenSigner("secret", time.Hour, clock)

		token, err := s.Sign("1")
		if err != nil {
			t.Fatalf("Sign() error = %v", err)
		}
		clock.Advance(2 * time.Hour)

		if _, err := s.Verify(token); err == nil || !strings.Contains(err.Error(), "expired") {
			t.Errorf("Verify() error = %v, want expired", err)
		}
	})

	t.Run("zero ttl never expires", func(t *testing.T) {
		clock := testutil.FixedClock()
		s := NewTokenSigner("secret", 0, clock)

		token, _ := s.Sign("1")
		clock.Advance(24 * 365 * time.Hour)
		if _, err := s.Verify(token); err != nil {
			t.Errorf("Verify() error = %v, want nil", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _ := NewTokenSigner("secret", time.Hour, testutil.FixedClock()).Sign("1")

		other := NewTokenSigner("other", time.Hour, testutil.FixedClock())
		if _, err := other.Verify(token); err == nil {
			t.Error("Verify() with a different secret should fail")
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		s := NewTokenSigner("secret", time.Hour, testutil.FixedClock())
		token, _ := s.Sign("1")

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"
		if _, err := s.Verify(strings.Join(parts, ".")); err == nil {
			t.Error("Verify() of a tampered token should fail")
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		s := NewTokenSigner("", time.Hour, testutil.FixedClock())
		if _, err := s.Sign("1"); err == nil {
			t.Error("Sign() without secret should fail")
		}
		if _, err := s.Verify("a.b.c"); err == nil {
			t.Error("Verify() without secret should fail")
		}
	})
}
