package usecase

import (
	"context"

	"elogbook/internal/domain/entity"
)

// CreateAccountInput defines the data required to add a staff or admin account.
type CreateAccountInput struct {
	Username string
	Password string
	FullName string
	Role     entity.Role
	Status   entity.AccountStatus
}

// AccountView is an account without its secret.
type AccountView struct {
	ID       int                  `json:"id"`
	Username string               `json:"username"`
	FullName string               `json:"fullName"`
	Role     entity.Role          `json:"role"`
	Status   entity.AccountStatus `json:"status"`
}

// NewAccountView strips the secret from account.
func NewAccountView(account *entity.Account) *AccountView {
	return &AccountView{
		ID:       account.ID,
		Username: account.Username,
		FullName: account.FullName,
		Role:     account.Role,
		Status:   account.Status,
	}
}

// NewAccountViews maps NewAccountView over accounts.
func NewAccountViews(accounts []*entity.Account) []*AccountView {
	views := make([]*AccountView, len(accounts))
	for i, a := range accounts {
		views[i] = NewAccountView(a)
	}

	return views
}

// AccountUsecase manages the accounts of a scope.
type AccountUsecase interface {
	ListAccounts(ctx context.Context) ([]*AccountView, error)
	ListStaff(ctx context.Context) ([]*AccountView, error)
	GetAccount(ctx context.Context, id int) (*AccountView, error)

	// CreateAccount rejects a username already in use with ErrUsernameTaken.
	CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountView, error)

	// UpdateAccount applies a partial update. Renaming onto another account's
	// username yields ErrUsernameTaken.
	UpdateAccount(ctx context.Context, id int, patch *entity.AccountPatch) (*AccountView, error)

	// DeleteAccount is a no-op for unknown IDs.
	DeleteAccount(ctx context.Context, id int) error
}
