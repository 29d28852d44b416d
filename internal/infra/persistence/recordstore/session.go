package recordstore

import (
	"context"
	"encoding/json"
	"log/slog"

	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/entity"
	"elogbook/internal/domain/repository"

	"github.com/pkg/errors"
)

// sessionRepository is the single current-session value of the scope.
type sessionRepository struct {
	s *Store
}

func (r *sessionRepository) Current(ctx context.Context) (*entity.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	raw, err := r.s.storage.Get(ctx, r.s.scope, repository.SessionKey)
	if errors.Is(err, repository.ErrKeyNotFound) {
		return nil, repository.ErrNoSession
	}
	if err != nil {
		return nil, domainerrors.NewStorageExecuteError(err, "load session")
	}

	var account entity.Account
	if err := json.Unmarshal(raw, &account); err != nil {
		r.s.logger.WarnContext(ctx, "Stored session is corrupt, clearing it",
			slog.String("code", domainerrors.ErrStorageCorrupt.ErrorCode()),
			slog.Any("error", err),
		)
		if err := r.s.storage.Delete(ctx, r.s.scope, repository.SessionKey); err != nil {
			return nil, domainerrors.NewStorageExecuteError(err, "clear corrupt session")
		}

		return nil, repository.ErrNoSession
	}

	return &account, nil
}

func (r *sessionRepository) Save(ctx context.Context, account *entity.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	raw, err := json.Marshal(account)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := r.s.storage.Set(ctx, r.s.scope, repository.SessionKey, raw); err != nil {
		return domainerrors.NewStorageExecuteError(err, "save session")
	}

	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.s.storage.Delete(ctx, r.s.scope, repository.SessionKey); err != nil {
		return domainerrors.NewStorageExecuteError(err, "clear session")
	}

	return nil
}
