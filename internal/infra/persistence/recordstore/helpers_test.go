package recordstore

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"elogbook/internal/domain/repository"
	"elogbook/internal/domain/service"
	"elogbook/internal/infra/persistence/memory"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

// flakyStorage fails every write while failing is true.
type flakyStorage struct {
	repository.SessionStorage
	failing atomic.Bool
}

func (f *flakyStorage) Set(ctx context.Context, scope, key string, value []byte) error {
	if f.failing.Load() {
		return context.DeadlineExceeded
	}

	return f.SessionStorage.Set(ctx, scope, key, value)
}

func (f *flakyStorage) SetMany(ctx context.Context, scope string, entries map[string][]byte, guard *repository.Guard) error {
	if f.failing.Load() {
		return context.DeadlineExceeded
	}

	return f.SessionStorage.SetMany(ctx, scope, entries, guard)
}

// countingHasher counts Hash calls of a bcrypt-scheme hasher.
type countingHasher struct {
	service.PasswordHasher
	hashes atomic.Int32
}

func (h *countingHasher) Hash(password string) (string, error) {
	h.hashes.Add(1)

	return h.PasswordHasher.Hash(password)
}

func testOptions(storage repository.SessionStorage) Options {
	return Options{
		Storage:  storage,
		Location: time.UTC,
		Now:      func() time.Time { return fixedNow },
	}
}

func newTestStore(t *testing.T) (*Store, *flakyStorage) {
	t.Helper()

	storage := &flakyStorage{SessionStorage: memory.NewSessionStorage(0, nil)}
	s, err := Load(context.Background(), "scope-a", testOptions(storage))
	require.NoError(t, err)

	return s, storage
}

func ptr[T any](v T) *T { return &v }
