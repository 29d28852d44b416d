package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/entity"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountParams holds dependencies for AccountService, injected by Fx.
type AccountParams struct {
	fx.In

	Provider repository.WorkspaceProvider
	Hasher   service.PasswordHasher
	Logger   *slog.Logger
}

type accountService struct {
	provider repository.WorkspaceProvider
	hasher   service.PasswordHasher
	logger   *slog.Logger
}

// NewAccountService is the constructor for accountService.
func NewAccountService(params AccountParams) usecase.AccountUsecase {
	return &accountService{
		provider: params.Provider,
		hasher:   params.Hasher,
		logger:   params.Logger,
	}
}

func (srv *accountService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *accountService) ListAccounts(ctx context.Context) ([]*usecase.AccountView, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	accounts, err := ws.Accounts().List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return usecase.NewAccountViews(accounts), nil
}

func (srv *accountService) ListStaff(ctx context.Context) ([]*usecase.AccountView, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	staff, err := ws.Accounts().ListStaff(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list staff")
	}

	return usecase.NewAccountViews(staff), nil
}

func (srv *accountService) GetAccount(ctx context.Context, id int) (*usecase.AccountView, error) {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	account, err := ws.Accounts().FindByID(ctx, id)
	if err != nil {
		return nil, mapAccountError(err)
	}

	return usecase.NewAccountView(account), nil
}

func (srv *accountService) CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*usecase.AccountView, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.FullName = strings.TrimSpace(input.FullName)
	if input.Status == "" {
		input.Status = entity.StatusActive
	}
	if err := validateNewAccount(input); err != nil {
		return nil, err
	}

	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	secret, err := srv.hash(input.Password)
	if err != nil {
		return nil, err
	}

	created, err := ws.Accounts().Create(ctx, &entity.Account{
		Username: input.Username,
		Password: secret,
		FullName: input.FullName,
		Role:     input.Role,
		Status:   input.Status,
	})
	if errors.Is(err, repository.ErrUsernameTaken) {
		return nil, errors.WithStack(domainerrors.ErrUsernameTaken.WithDetails(input.Username))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create account")
	}

	srv.log(ctx).Info("Account created",
		slog.Int("account_id", created.ID),
		slog.String("role", created.Role.String()),
	)

	return usecase.NewAccountView(created), nil
}

func (srv *accountService) UpdateAccount(ctx context.Context, id int, patch *entity.AccountPatch) (*usecase.AccountView, error) {
	if err := validateAccountPatch(patch); err != nil {
		return nil, err
	}

	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		account, err := ws.Accounts().FindByID(ctx, id)
		if err != nil {
			return nil, mapAccountError(err)
		}

		return usecase.NewAccountView(account), nil
	}

	// Work on a copy so the caller's patch keeps the plaintext secret.
	applied := *patch
	if applied.Username != nil {
		username := strings.TrimSpace(*applied.Username)
		applied.Username = &username
	}
	if applied.Password != nil {
		secret, err := srv.hash(*applied.Password)
		if err != nil {
			return nil, err
		}
		applied.Password = &secret
	}

	updated, err := ws.Accounts().Update(ctx, id, &applied)
	if errors.Is(err, repository.ErrUsernameTaken) {
		return nil, errors.WithStack(domainerrors.ErrUsernameTaken.WithDetails(*applied.Username))
	}
	if err != nil {
		return nil, mapAccountError(err)
	}

	srv.log(ctx).Info("Account updated", slog.Int("account_id", id))

	return usecase.NewAccountView(updated), nil
}

func (srv *accountService) DeleteAccount(ctx context.Context, id int) error {
	ws, err := openWorkspace(ctx, srv.provider)
	if err != nil {
		return err
	}

	if err := ws.Accounts().Delete(ctx, id); err != nil {
		return errors.Wrap(err, "failed to delete account")
	}

	srv.log(ctx).Info("Account deleted", slog.Int("account_id", id))

	return nil
}

func (srv *accountService) hash(password string) (string, error) {
	secret, err := srv.hasher.Hash(password)
	if err != nil {
		return "", errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
	}

	return secret, nil
}

func validateNewAccount(input usecase.CreateAccountInput) error {
	switch {
	case input.Username == "":
		return invalid("username is required")
	case input.Password == "":
		return invalid("password is required")
	case input.FullName == "":
		return invalid("full name is required")
	case !input.Role.IsValid():
		return invalid("role must be admin or staff")
	case !input.Status.IsValid():
		return invalid("status must be active or inactive")
	}

	return nil
}

func validateAccountPatch(patch *entity.AccountPatch) error {
	if patch == nil {
		return nil
	}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return invalid("username cannot be empty")
	}
	if patch.Password != nil && *patch.Password == "" {
		return invalid("password cannot be empty")
	}
	if patch.Role != nil && !patch.Role.IsValid() {
		return invalid("role must be admin or staff")
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return invalid("status must be active or inactive")
	}

	return nil
}

func mapAccountError(err error) error {
	if errors.Is(err, repository.ErrAccountNotFound) {
		return errors.Wrap(domainerrors.ErrAccountNotFound, "account lookup")
	}

	return errors.Wrap(err, "account repository")
}

func invalid(details string) error {
	return errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(details))
}
