package usecase

import (
	"context"

	"elogbook/internal/domain/service"
)

// ActivityStats counts the events seen by the worker since it started.
type ActivityStats struct {
	CheckedIn  int `json:"checkedIn"`
	CheckedOut int `json:"checkedOut"`
}

// ActivityUsecase keeps the feed of visit events delivered to the event worker.
type ActivityUsecase interface {
	// RecordVisitEvent validates and appends the event to the feed.
	RecordVisitEvent(ctx context.Context, event *service.VisitEvent) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) []*service.VisitEvent

	Stats(ctx context.Context) *ActivityStats
}
