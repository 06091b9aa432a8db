package fotohogar

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fotohogar/internal/model"
)

// PasswordHasher produces one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// SHA256Hasher produces lowercase hex SHA-256 digests, the format of the seed users.
type SHA256Hasher struct{}

func (SHA256Hasher) Hash(password string) (string, error) {
	return sha256Hex(password), nil
}

// BcryptHasher produces bcrypt digests. Zero Cost means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(digest), nil
}

// NewPasswordHasher returns the hasher registered under name ("sha256" or "bcrypt").
func NewPasswordHasher(name string) (PasswordHasher, error) {
	switch name {
	case "sha256", "":
		return SHA256Hasher{}, nil
	case "bcrypt":
		return BcryptHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher: %q", name)
	}
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches digest. bcrypt digests are
// recognised by their "$2" prefix; anything else is treated as SHA-256 hex.
func VerifyPassword(digest, password string) bool {
	if strings.HasPrefix(digest, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	}
	got := sha256Hex(password)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(digest)), []byte(got)) == 1
}

// UserLister is the part of the data service the validator needs.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// CredentialValidator checks an email/password pair against the user collection.
type CredentialValidator struct {
	users  UserLister
	logger Logger
}

// NewCredentialValidator creates a validator reading users from users.
func NewCredentialValidator(users UserLister, logger Logger) *CredentialValidator {
	return &CredentialValidator{users: users, logger: logger}
}

// unknownUserDigest is verified against when no user matches, so both failure
// paths do the same hashing work.
var unknownUserDigest = sha256Hex("")

// ValidateLogin returns the matching user, or ErrInvalidCredentials for an
// unknown email and for a wrong password alike. Emails match case-insensitively.
func (v *CredentialValidator) ValidateLogin(ctx context.Context, email, password string) (*model.User, error) {
	users, err := v.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	wanted := NormalizeEmail(email)
	var user *model.User
	for _, u := range users {
		if NormalizeEmail(u.Email) == wanted {
			user = u
			break
		}
	}

	if user == nil {
		VerifyPassword(unknownUserDigest, password)
		v.logger.Debug("login rejected", "reason", "unknown email")
		return nil, ErrInvalidCredentials
	}

	if !VerifyPassword(user.Password, password) {
		v.logger.Debug("login rejected", "reason", "password mismatch", "user", user.ID)
		return nil, ErrInvalidCredentials
	}

	v.logger.Info("login accepted", "user", user.ID)
	return user, nil
}
