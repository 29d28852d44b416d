package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"elogbook/config"
	"elogbook/internal/delivery/cli"
	"elogbook/internal/domain/service"
	"elogbook/internal/infra/auth"
	logs "elogbook/internal/infra/log"
	"elogbook/internal/infra/persistence"
	"elogbook/internal/infra/pubsub"
	"elogbook/internal/infra/qrcode"
	"elogbook/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfg  *config.Config
		deps cli.Deps
	)

	app := fx.New(
		fx.NopLogger,
		fx.Provide(
			config.New,
			newStderrLogger,
			context.Background,
			persistence.NewSessionStorage,
			persistence.NewWorkspaceProvider,
			auth.NewPasswordHasher,
			newNoopPublisher,
			newQRCodeService,
			impl.NewSessionService,
			impl.NewAccountService,
			impl.NewVisitService,
		),
		fx.Populate(&cfg, &deps.Sessions, &deps.Accounts, &deps.Visits),
	)
	if err := app.Err(); err != nil {
		return err
	}

	if cfg.Storage.Driver == config.StorageDriverMemory {
		return errors.New("logbookctl needs a persistent storage driver (sqlite, redis or postgres)")
	}

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = app.Stop(ctx) }()

	return cli.NewRootCommand(deps).ExecuteContext(ctx)
}

// newStderrLogger keeps stdout for command output.
func newStderrLogger(cfg *config.Config) (*slog.Logger, error) {
	return logs.NewWithWriter(cfg, os.Stderr)
}

// newNoopPublisher satisfies the visit service. No command publishes events.
func newNoopPublisher(logger *slog.Logger) service.EventPublisher {
	return pubsub.NewNoopPublisher(logger)
}

func newQRCodeService(cfg *config.Config) service.QRCodeService {
	if cfg.QRCode == nil {
		return qrcode.NewQRCodeService(256, "M", "")
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, cfg.QRCode.BaseURL)
}
