// Package auth implements the credential check behind the login
// endpoint and the one-time seeding of the bootstrap operator.
//
// Passwords are stored as bcrypt hashes. bcrypt embeds its own salt in
// the hash and its comparison runs in constant time, so neither the
// salt handling nor the timing of a mismatch leaks anything.
package auth

import (
	"errors"
	"fmt"

	"github.com/aanand-mishra/student-records-api/internal/storage"
	"github.com/aanand-mishra/student-records-api/internal/types"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for BOTH failure modes of a login:
// unknown email and wrong password. Keeping them indistinguishable is
// part of the contract — a caller must not be able to probe which
// emails have accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Verifier checks submitted credentials against the store.
// It is stateless: every call re-reads the credential row, and nothing
// about "being logged in" is recorded anywhere on the server.
type Verifier struct {
	store storage.Storage
}

// NewVerifier returns a Verifier backed by the given store.
func NewVerifier(store storage.Storage) *Verifier {
	return &Verifier{store: store}
}

// Verify checks an (email, plaintext password) pair.
//
// On success it returns the operator's public identity — id, name,
// email — and never the hash. On failure it returns
// ErrInvalidCredentials regardless of whether the email was unknown or
// the password wrong. Store failures other than "no such row" pass
// through unchanged so the caller can report a 500 rather than a 401.
func (v *Verifier) Verify(email, password string) (types.PublicUser, error) {
	user, err := v.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return types.PublicUser{}, ErrInvalidCredentials
		}
		return types.PublicUser{}, fmt.Errorf("auth.Verify: lookup: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.PublicUser{}, ErrInvalidCredentials
	}

	return types.PublicUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}, nil
}

// HashPassword hashes a plaintext password with bcrypt at the default
// cost. Only used when provisioning operators.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth.HashPassword: %w", err)
	}
	return string(hash), nil
}

// EnsureSeedUser creates the bootstrap operator if no credential row
// with that email exists yet. Idempotent: an existing row is left
// untouched (its password is NOT reset to the seed value). Reports
// whether a row was created.
func EnsureSeedUser(store storage.Storage, seed types.User, password string) (bool, error) {
	_, err := store.GetUserByEmail(seed.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, fmt.Errorf("auth.EnsureSeedUser: lookup: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	if _, err := store.CreateUser(seed.Name, seed.Email, hash); err != nil {
		// A concurrent boot may have inserted the row between our
		// lookup and insert; the UNIQUE constraint makes that harmless.
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return false, nil
		}
		return false, fmt.Errorf("auth.EnsureSeedUser: create: %w", err)
	}

	return true, nil
}
