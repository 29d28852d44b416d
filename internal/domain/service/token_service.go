package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"elogbook/internal/domain/entity"
)

// ScopeClaims defines the claims of a scope token.
type ScopeClaims struct {
	ScopeID string `json:"sid"`
	jwt.RegisteredClaims
}

// ScopeTokenService signs and validates the cookie that binds a browser to its scope.
type ScopeTokenService interface {
	// Issue signs a token for the scope that expires after the idle timeout.
	Issue(scopeID string) (token string, scope *entity.Scope, err error)

	// Validate checks the signature and expiry and returns the scope it carries.
	Validate(token string) (*entity.Scope, error)

	// IdleTimeout returns how long a scope token stays valid.
	IdleTimeout() time.Duration
}
