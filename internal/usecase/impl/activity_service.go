package impl

import (
	"context"
	"log/slog"
	"sync"

	"elogbook/config"
	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/service"
	"elogbook/internal/usecase"
)

const defaultFeedSize = 200

// activityService keeps the most recent visit events in a fixed-size ring.
type activityService struct {
	mu     sync.Mutex
	events []*service.VisitEvent
	next   int
	full   bool
	stats  usecase.ActivityStats
	logger *slog.Logger
}

// NewActivityService is the constructor for activityService.
func NewActivityService(cfg *config.Config, logger *slog.Logger) usecase.ActivityUsecase {
	size := defaultFeedSize
	if cfg.Worker != nil && cfg.Worker.FeedSize > 0 {
		size = cfg.Worker.FeedSize
	}

	return &activityService{
		events: make([]*service.VisitEvent, size),
		logger: logger,
	}
}

func (srv *activityService) RecordVisitEvent(ctx context.Context, event *service.VisitEvent) error {
	if event == nil || event.VisitID <= 0 {
		return invalid("visit event requires a visit id")
	}

	srv.mu.Lock()
	switch event.Type {
	case service.VisitEventCheckedIn:
		srv.stats.CheckedIn++
	case service.VisitEventCheckedOut:
		srv.stats.CheckedOut++
	default:
		srv.mu.Unlock()

		return invalid("unknown visit event type " + event.Type)
	}

	stored := *event
	srv.events[srv.next] = &stored
	srv.next = (srv.next + 1) % len(srv.events)
	if srv.next == 0 {
		srv.full = true
	}
	srv.mu.Unlock()

	deliverycontext.GetLoggerOrDefault(ctx, srv.logger).Debug("Visit event recorded",
		slog.String("type", event.Type),
		slog.Int("visit_id", event.VisitID),
	)

	return nil
}

func (srv *activityService) Recent(_ context.Context, limit int) []*service.VisitEvent {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	count := srv.next
	if srv.full {
		count = len(srv.events)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]*service.VisitEvent, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (srv.next - i + len(srv.events)) % len(srv.events)
		e := *srv.events[idx]
		out = append(out, &e)
	}

	return out
}

func (srv *activityService) Stats(_ context.Context) *usecase.ActivityStats {
	srv.mu.Lock()
	defer srv.mu.Unlock()

	stats := srv.stats

	return &stats
}
