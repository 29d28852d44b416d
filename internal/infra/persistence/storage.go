// Package persistence wires the session storage backend and the workspace
// provider selected by configuration.
package persistence

import (
	"context"
	"log/slog"

	"elogbook/config"
	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/infra/persistence/memory"
	"elogbook/internal/infra/persistence/postgres"
	"elogbook/internal/infra/persistence/recordstore"
	redisstore "elogbook/internal/infra/persistence/redis"
	"elogbook/internal/infra/persistence/sqlite"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type StorageParams struct {
	fx.In
	fx.Lifecycle

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewSessionStorage opens the backend named by storage.driver and registers
// its shutdown hook.
func NewSessionStorage(params StorageParams) (repository.SessionStorage, error) {
	cfg := params.Config
	ttl := cfg.Session.IdleTimeout
	logger := params.Logger.With(slog.String("driver", cfg.Storage.Driver))

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Info("Using in-memory session storage")

		return memory.NewSessionStorage(ttl, nil), nil

	case config.StorageDriverSQLite:
		path := ""
		if cfg.SQLite != nil {
			path = cfg.SQLite.Path
		}

		db, err := sqlite.Open(params.Ctx, path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open SQLite session storage")
		}
		writer := sqlite.NewWorker(db)

		params.Append(fx.Hook{
			OnStop: func(context.Context) error {
				writer.Close()

				return db.Close()
			},
		})
		logger.Info("Using SQLite session storage", slog.String("path", path))

		return sqlite.NewSessionStorage(db, writer, ttl), nil

	case config.StorageDriverRedis:
		client, err := redisstore.NewClient(params.Ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect Redis session storage")
		}

		params.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return client.Close()
			},
		})
		logger.Info("Using Redis session storage", slog.String("addr", cfg.Redis.Addr))

		return redisstore.NewSessionStorage(client, cfg.Redis.KeyPrefix, ttl), nil

	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    cfg,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Using PostgreSQL session storage")

		return postgres.NewSessionStorage(db, ttl), nil

	default:
		return nil, errors.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
	}
}

type ProviderParams struct {
	fx.In

	Config  *config.Config
	Storage repository.SessionStorage
	Hasher  service.PasswordHasher
	Logger  *slog.Logger
}

func NewWorkspaceProvider(params ProviderParams) (repository.WorkspaceProvider, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	return recordstore.NewProvider(recordstore.Options{
		Storage:     params.Storage,
		Hasher:      params.Hasher,
		Location:    loc,
		Logger:      params.Logger,
		IdleTimeout: params.Config.Session.IdleTimeout,
	})
}
