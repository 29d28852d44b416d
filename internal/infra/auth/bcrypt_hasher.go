// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/subtle"

	"elogbook/config"
	"elogbook/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher is the constructor for bcryptHasher.
// A cost outside bcrypt's accepted range falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

func (h *bcryptHasher) Scheme() string {
	return service.SecretSchemeBcrypt
}

// plainHasher stores secrets verbatim, matching the logbook's historical data layout.
type plainHasher struct{}

// NewPlainHasher returns a PasswordHasher that keeps secrets as typed.
func NewPlainHasher() service.PasswordHasher {
	return plainHasher{}
}

func (plainHasher) Hash(password string) (string, error) {
	return password, nil
}

// Check compares in constant time.
func (plainHasher) Check(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

func (plainHasher) Scheme() string {
	return service.SecretSchemePlain
}

// NewPasswordHasher picks the hasher named by auth.secretScheme.
func NewPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	scheme, cost := service.SecretSchemePlain, 0
	if cfg.Auth != nil {
		if cfg.Auth.SecretScheme != "" {
			scheme = cfg.Auth.SecretScheme
		}
		cost = cfg.Auth.BcryptCost
	}

	switch scheme {
	case service.SecretSchemePlain:
		return NewPlainHasher(), nil
	case service.SecretSchemeBcrypt:
		return NewBcryptHasher(cost), nil
	default:
		return nil, errors.Errorf("unknown secret scheme: %s", scheme)
	}
}
