package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	deliverycontext "elogbook/internal/delivery/context"
	"elogbook/internal/domain/service"
	"elogbook/internal/infra/auth"
	"elogbook/internal/infra/persistence/memory"
	"elogbook/internal/infra/persistence/recordstore"
	mockService "elogbook/internal/mocks/service"
	"elogbook/internal/usecase"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

const testIdleTimeout = 12 * time.Hour

type fixture struct {
	t        *testing.T
	now      time.Time
	storage  *memory.SessionStorage
	provider *recordstore.Provider
	hasher   service.PasswordHasher
	logger   *slog.Logger
	ctx      context.Context
}

func (f *fixture) clock() time.Time { return f.now }

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T, hasher service.PasswordHasher) *fixture {
	t.Helper()

	if hasher == nil {
		hasher = auth.NewPlainHasher()
	}

	f := &fixture{t: t, now: testNow, hasher: hasher, logger: newDiscardLogger()}
	f.storage = memory.NewSessionStorage(testIdleTimeout, f.clock)

	provider, err := recordstore.NewProvider(recordstore.Options{
		Storage:     f.storage,
		Hasher:      hasher,
		Location:    time.UTC,
		Now:         f.clock,
		Logger:      f.logger,
		IdleTimeout: testIdleTimeout,
	})
	require.NoError(t, err)
	f.provider = provider
	f.ctx = deliverycontext.WithScope(context.Background(), "scope-test")

	return f
}

func (f *fixture) sessions() usecase.SessionUsecase {
	return NewSessionService(SessionParams{Provider: f.provider, Hasher: f.hasher, Logger: f.logger})
}

func (f *fixture) accounts() usecase.AccountUsecase {
	return NewAccountService(AccountParams{Provider: f.provider, Hasher: f.hasher, Logger: f.logger})
}

func (f *fixture) visits(publisher service.EventPublisher, qr service.QRCodeService) usecase.VisitUsecase {
	if publisher == nil {
		publisher = mockService.NewMockEventPublisher(f.t)
	}
	if qr == nil {
		qr = mockService.NewMockQRCodeService(f.t)
	}

	return &visitService{
		provider:  f.provider,
		publisher: publisher,
		qrcode:    qr,
		clock:     clock{loc: time.UTC, nowFunc: f.clock},
		logger:    f.logger,
	}
}

func (f *fixture) login(username, password string) {
	f.t.Helper()

	_, err := f.sessions().Login(f.ctx, usecase.LoginInput{Username: username, Password: password})
	require.NoError(f.t, err)
}

func ptr[T any](v T) *T { return &v }
