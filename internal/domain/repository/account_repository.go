package repository

import (
	"context"
	"errors"

	"elogbook/internal/domain/entity"
)

var (
	// ErrAccountNotFound is a domain-specific error returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUsernameTaken is returned by Create and Update when another account holds the username.
	ErrUsernameTaken = errors.New("username already taken")
)

// AccountRepository defines the operations on one scope's account collection.
// Every returned value is a copy; mutating it never changes stored state.
type AccountRepository interface {
	// List returns every account in insertion order.
	List(ctx context.Context) ([]*entity.Account, error)

	// FindByID returns the account or ErrAccountNotFound.
	FindByID(ctx context.Context, id int) (*entity.Account, error)

	// Create ignores account.ID, assigns the next identifier, persists and returns the stored copy.
	// The username check and the insert happen under one lock.
	Create(ctx context.Context, account *entity.Account) (*entity.Account, error)

	// Update applies patch to the account with the given ID and persists it.
	// It returns ErrAccountNotFound or ErrUsernameTaken without side effects.
	Update(ctx context.Context, id int, patch *entity.AccountPatch) (*entity.Account, error)

	// Delete removes the account. Deleting a missing ID is a no-op.
	Delete(ctx context.Context, id int) error

	// ListStaff returns accounts with the staff role, active or not.
	ListStaff(ctx context.Context) ([]*entity.Account, error)
}
