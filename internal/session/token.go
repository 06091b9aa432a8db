package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"fotohogar/internal/fotohogar"
)

// Claims binds a persisted session to a user.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies HS256 session tokens.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	clock  fotohogar.Clock
}

// NewTokenSigner creates a signer. A zero ttl issues tokens without expiry.
func NewTokenSigner(secret string, ttl time.Duration, clock fotohogar.Clock) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Sign returns a token for userID.
func (s *TokenSigner) Sign(userID string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is not configured")
	}

	now := s.clock.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return token, nil
}

// Verify checks the signature and expiry of token and returns its user ID.
func (s *TokenSigner) Verify(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("session secret is not configured")
	}

	// Expiry is checked below against the injected clock.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parsing session token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid session token")
	}
	if !claims.VerifyExpiresAt(s.clock.Now(), false) {
		return "", errors.New("session token expired")
	}
	return claims.UserID, nil
}
