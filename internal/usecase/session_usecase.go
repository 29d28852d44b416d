// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"elogbook/internal/domain/entity"
)

// LoginInput is the credential pair typed on the login form.
type LoginInput struct {
	Username string
	Password string
}

// SessionUsecase is the session gate of a scope. The scope is taken from the
// context (see deliverycontext.WithScope).
type SessionUsecase interface {
	// Login verifies the credentials and makes the account the current session.
	// Wrong username and wrong password both yield ErrInvalidCredentials.
	Login(ctx context.Context, input LoginInput) (*entity.Account, error)

	// Logout clears the current session. Logging out twice is not an error.
	Logout(ctx context.Context) error

	// CurrentSession returns the logged-in account or ErrNoSession.
	CurrentSession(ctx context.Context) (*entity.Account, error)

	// IsLoggedIn reports whether a current session exists.
	IsLoggedIn(ctx context.Context) (bool, error)

	// RequireRole returns the current account when it holds one of roles, or
	// any role when roles is empty. Otherwise it returns ErrUnauthorized.
	RequireRole(ctx context.Context, roles ...entity.Role) (*entity.Account, error)

	// EndScope discards every record of the scope, as closing the browser would.
	EndScope(ctx context.Context) error
}
