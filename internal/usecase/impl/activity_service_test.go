package impl

import (
	"context"
	"testing"

	"elogbook/config"
	domainerrors "elogbook/internal/domain/errors"
	"elogbook/internal/domain/service"
	"elogbook/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityService_RingKeepsNewest(t *testing.T) {
	ctx := context.Background()
	svc := NewActivityService(&config.Config{Worker: &config.WorkerConfig{FeedSize: 3}}, newDiscardLogger())

	assert.Empty(t, svc.Recent(ctx, 10))

	for id := 1; id <= 5; id++ {
		eventType := service.VisitEventCheckedIn
		if id%2 == 0 {
			eventType = service.VisitEventCheckedOut
		}
		require.NoError(t, svc.RecordVisitEvent(ctx, &service.VisitEvent{Type: eventType, VisitID: id}))
	}

	recent := svc.Recent(ctx, 0)
	require.Len(t, recent, 3)
	assert.Equal(t, 5, recent[0].VisitID)
	assert.Equal(t, 4, recent[1].VisitID)
	assert.Equal(t, 3, recent[2].VisitID)

	assert.Len(t, svc.Recent(ctx, 2), 2)
	assert.Equal(t, &usecase.ActivityStats{CheckedIn: 3, CheckedOut: 2}, svc.Stats(ctx))
}

func TestActivityService_RecentReturnsCopies(t *testing.T) {
	ctx := context.Background()
	svc := NewActivityService(&config.Config{}, newDiscardLogger())

	require.NoError(t, svc.RecordVisitEvent(ctx, &service.VisitEvent{Type: service.VisitEventCheckedIn, VisitID: 1, Visitor: "Jose"}))

	svc.Recent(ctx, 1)[0].Visitor = "changed"
	assert.Equal(t, "Jose", svc.Recent(ctx, 1)[0].Visitor)
}

func TestActivityService_RejectsInvalidEvents(t *testing.T) {
	ctx := context.Background()
	svc := NewActivityService(&config.Config{}, newDiscardLogger())

	assert.ErrorIs(t, svc.RecordVisitEvent(ctx, nil), domainerrors.ErrValidationFailed)
	assert.ErrorIs(t, svc.RecordVisitEvent(ctx, &service.VisitEvent{Type: service.VisitEventCheckedIn}), domainerrors.ErrValidationFailed)
	assert.ErrorIs(t, svc.RecordVisitEvent(ctx, &service.VisitEvent{Type: "visit.teleported", VisitID: 1}), domainerrors.ErrValidationFailed)

	assert.Empty(t, svc.Recent(ctx, 10))
	assert.Equal(t, &usecase.ActivityStats{}, svc.Stats(ctx))
}
