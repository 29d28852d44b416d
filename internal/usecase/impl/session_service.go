package impl

import (
	"context"
	"log/slog"

	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SessionParams holds dependencies for SessionService, injected by Fx.
type SessionParams struct {
	fx.In

	Provider repository.WorkspaceProvider
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	provider repository.WorkspaceProvider
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionParams) usecase.SessionUsecase {
	return &sessionService{
		provider: params.Provider,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *sessionService) Login(ctx context.Context, input usecase.LoginInput) (*entity.Account, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	accounts, err := ws.Accounts().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	// First match in insertion order wins.
	var match *entity.Account
	for _, a := range accounts {
		if a.Username == input.Username && srv.hasher.Check(input.Password, a.Password) {
			match = a

			break
		}
	}
	if match == nil {
		srv.log(ctx).Info("Login rejected", slog.String("username", input.Username))

		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}
	if !match.IsActive() {
		srv.log(ctx).Info("Login rejected for inactive account", slog.Int("account_id", match.ID))

		return nil, errors.WithStack(domainerrors.ErrAccountInactive)
	}

	if err := ws.Session().Save(ctx, match); err != nil {
		return nil, errors.Wrap(err, "failed to save session")
	}

	srv.log(ctx).Info("Login succeeded",
		slog.Int("account_id", match.ID),
		slog.String("role", match.Role.String()),
	)

	return match, nil
}

func (srv *sessionService) Logout(ctx context.Context) error {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return err
	}

	if err := ws.Session().Clear(ctx); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	return nil
}

func (srv *sessionService) CurrentSession(ctx context.Context) (*entity.Account, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	account, err := ws.Session().Current(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoSession) {
			return nil, errors.WithStack(domainerrors.ErrNoSession)
		}

		return nil, errors.Wrap(err, "failed to read current session")
	}

	return account, nil
}

func (srv *sessionService) IsLoggedIn(ctx context.Context) (bool, error) {
	_, err := srv.CurrentSession(ctx)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domainerrors.ErrNoSession) {
		return false, nil
	}

	return false, err
}

func (srv *sessionService) RequireRole(ctx context.Context, roles ...entity.Role) (*entity.Account, error) {
	account, err := srv.CurrentSession(ctx)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNoSession) {
			return nil, errors.Wrap(domainerrors.ErrUnauthorized, "login required")
		}

		return nil, err
	}

	if len(roles) > 0 && !entity.Roles(roles).Contains(account.Role) {
		srv.log(ctx).Warn("Role check failed",
			slog.Int("account_id", account.ID),
			slog.String("role", account.Role.String()),
		)

		return nil, errors.Wrapf(domainerrors.ErrUnauthorized, "role %s not permitted", account.Role)
	}

	return account, nil
}

func (srv *sessionService) EndScope(ctx context.Context) error {
	scope := deliverycontext.GetScope(ctx)
	if scope == "" {
		return errors.Wrap(domainerrors.ErrInvalidScope, "no scope in request context")
	}

	if err := srv.provider.End(ctx, scope); err != nil {
		return errors.Wrap(err, "failed to end scope")
	}

	srv.log(ctx).Info("Scope ended", slog.String("scope", scope))

	return nil
}
