package repository

import (
	"context"
	"errors"

	"elogbook/internal/domain/entity"
)

// ErrNoSession is returned by SessionRepository.Current when nobody is logged in.
var ErrNoSession = errors.New("no current session")

// SessionRepository holds the single current-session value of a scope.
type SessionRepository interface {
	// Current returns the logged-in account, or ErrNoSession.
	Current(ctx context.Context) (*entity.Account, error)

	// Save overwrites the current session with account.
	Save(ctx context.Context, account *entity.Account) error

	// Clear removes the current session. Clearing an empty session is not an error.
	Clear(ctx context.Context) error
}

// Workspace provides the repositories bound to one scope. All of them share
// the scope's storage and its write lock.
type Workspace interface {
	Accounts() AccountRepository
	Visits() VisitRepository
	Session() SessionRepository
}

// WorkspaceProvider hands out the workspace of a scope, building it on first use.
type WorkspaceProvider interface {
	// Open returns the scope's workspace, loading or seeding it when needed.
	Open(ctx context.Context, scope string) (Workspace, error)

	// End discards the scope's workspace and clears its storage.
	End(ctx context.Context, scope string) error

	// Prune evicts workspaces idle past the time-to-live and reports how many scopes were removed.
	Prune(ctx context.Context) (int, error)
}
