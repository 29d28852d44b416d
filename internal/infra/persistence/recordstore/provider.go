package recordstore

import (
	"context"
	"log/slog"
	"sync"

	"elogbook/internal/domain/repository"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// Provider caches one Store per scope. It implements repository.WorkspaceProvider.
// A cached store is checked against the backend's revision on every Open, so
// writes made by other processes are picked up.
type Provider struct {
	mu     sync.Mutex
	opts   Options
	stores map[string]*Store

	// loads collapses concurrent first opens of one scope into a single Load.
	loads singleflight.Group
}

var _ repository.WorkspaceProvider = (*Provider)(nil)

func NewProvider(opts Options) (*Provider, error) {
	if opts.Storage == nil {
		return nil, errors.New("workspace provider requires a session storage")
	}

	return &Provider{
		opts:   opts.withDefaults(),
		stores: make(map[string]*Store),
	}, nil
}

func (p *Provider) cached(scope string) (*Store, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.stores[scope]

	return s, ok
}

func (p *Provider) Open(ctx context.Context, scope string) (repository.Workspace, error) {
	if scope == "" {
		return nil, errors.New("scope is required")
	}

	if s, ok := p.cached(scope); ok {
		if err := s.refresh(ctx); err != nil {
			return nil, err
		}

		return s, nil
	}

	v, err, _ := p.loads.Do(scope, func() (any, error) {
		if s, ok := p.cached(scope); ok {
			return s, nil
		}

		s, err := Load(ctx, scope, p.opts)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		p.stores[scope] = s
		p.mu.Unlock()

		return s, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Store), nil
}

func (p *Provider) End(ctx context.Context, scope string) error {
	p.mu.Lock()
	delete(p.stores, scope)
	p.mu.Unlock()

	return errors.Wrap(p.opts.Storage.Clear(ctx, scope), "clear scope storage")
}

// Prune evicts cached stores idle past IdleTimeout and removes expired scopes
// from the backend. It reports the number of backend scopes removed.
func (p *Provider) Prune(ctx context.Context) (int, error) {
	now := p.opts.Now()

	evicted := 0
	if p.opts.IdleTimeout > 0 {
		p.mu.Lock()
		for scope, s := range p.stores {
			if s.idleSince(now) >= p.opts.IdleTimeout {
				delete(p.stores, scope)
				evicted++
			}
		}
		p.mu.Unlock()
	}

	removed, err := p.opts.Storage.PruneExpired(ctx, now)
	if err != nil {
		return 0, errors.Wrap(err, "prune expired scopes")
	}

	if evicted > 0 || removed > 0 {
		p.opts.Logger.InfoContext(ctx, "Pruned idle scopes",
			slog.Int("evicted", evicted),
			slog.Int("removed", removed),
		)
	}

	return removed, nil
}

// Cached reports how many scopes currently have a store in memory.
func (p *Provider) Cached() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.stores)
}
