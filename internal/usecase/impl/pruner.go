package impl

import (
	"context"
	"log/slog"
	"time"

	"elogbook/config"
	"elogbook/internal/domain/repository"
	"elogbook/internal/util"

	"go.uber.org/fx"
)

// PrunerParams holds dependencies for ScopePruner, injected by Fx.
type PrunerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Config   *config.Config
	Provider repository.WorkspaceProvider
	Logger   *slog.Logger
}

// ScopePruner evicts idle scopes on a fixed interval.
type ScopePruner struct {
	provider repository.WorkspaceProvider
	interval time.Duration
	logger   *slog.Logger
}

// NewScopePruner builds the pruner and ties its loop to the fx lifecycle.
func NewScopePruner(params PrunerParams) *ScopePruner {
	interval := params.Config.Session.PruneInterval
	p := &ScopePruner{
		provider: params.Provider,
		interval: interval,
		logger:   params.Logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.logger.Info("Starting scope pruner", slog.String("interval", util.FormatDuration(interval)))
			go func() {
				defer close(done)
				p.Run(ctx)
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}

			return nil
		},
	})

	return p
}

// Run prunes every interval until ctx is done.
func (p *ScopePruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PruneOnce(ctx)
		}
	}
}

// PruneOnce runs a single pass and reports how many scopes were removed.
func (p *ScopePruner) PruneOnce(ctx context.Context) int {
	removed, err := p.provider.Prune(ctx)
	if err != nil {
		p.logger.Error("Scope prune failed", slog.Any("error", err))

		return 0
	}

	return removed
}
