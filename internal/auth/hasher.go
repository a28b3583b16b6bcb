package auth

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	"github.com/restopos/restopos/internal/config"
)

// PasswordHasher turns plaintext passwords into digests and checks them.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

// Argon2id hashes with argon2id. A nil Params uses argon2id.DefaultParams.
type Argon2id struct {
	Params *argon2id.Params
}

// Hash implements PasswordHasher.
func (h Argon2id) Hash(plain string) (string, error) {
	params := h.Params
	if params == nil {
		params = argon2id.DefaultParams
	}

	digest, err := argon2id.CreateHash(plain, params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return digest, nil
}

// Verify implements PasswordHasher.
func (h Argon2id) Verify(plain, digest string) (bool, error) {
	match, err := argon2id.ComparePasswordAndHash(plain, digest)
	if err != nil {
		return false, fmt.Errorf("failed to verify password: %w", err)
	}

	return match, nil
}

// Bcrypt hashes with bcrypt at Cost, or bcrypt.DefaultCost when Cost is 0.
type Bcrypt struct {
	Cost int
}

// Hash implements PasswordHasher.
func (h Bcrypt) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(digest), nil
}

// Verify implements PasswordHasher.
func (h Bcrypt) Verify(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
}

// NewHasher returns the hasher named by cfg.PasswordHasher.
func NewHasher(cfg config.Auth) (PasswordHasher, error) {
	switch cfg.PasswordHasher {
	case "", config.HasherArgon2id:
		return Argon2id{}, nil
	case config.HasherBcrypt:
		return Bcrypt{Cost: cfg.BcryptCost}, nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedPasswordHasher, cfg.PasswordHasher)
	}
}
