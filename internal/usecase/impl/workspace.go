// Package impl contains the application-specific business rules implementations.
package impl

import (
	"context"
	"time"

	"elogbook/config"
	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/repository"

	"github.com/pkg/errors"
)

// openWorkspace resolves the scope carried by ctx to its workspace.
func openWorkspace(ctx context.Context, provider repository.WorkspaceProvider) (repository.Workspace, error) {
	scope := deliverycontext.GetScope(ctx)
	if scope == "" {
		return nil, errors.Wrap(domainerrors.ErrInvalidScope, "no scope in request context")
	}

	ws, err := provider.Open(ctx, scope)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open workspace")
	}

	return ws, nil
}

// currentAccount maps a missing session to ErrUnauthorized.
func currentAccount(ctx context.Context, ws repository.Workspace) (*entity.Account, error) {
	account, err := ws.Session().Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "login required")
		}

		return nil, errors.Wrap(err, "failed to read current session")
	}

	return account, nil
}

// clock yields "now" in the office time zone.
type clock struct {
	loc     *time.Location
	nowFunc func() time.Time
}

func newClock(cfg *config.Config) (clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return clock{}, err
	}

	return clock{loc: loc, nowFunc: time.Now}, nil
}

func (c clock) now() time.Time {
	return c.nowFunc().In(c.loc)
}
