package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"elogbook/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(context.Background(), db))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_migrations;").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0001_session_storage.sql")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("init.sql")
	assert.Error(t, err)
}

func TestSessionStorage_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 0, nil)

	_, err := s.Get(ctx, "a", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[1,2]`)))

	got, err := s.Get(ctx, "a", repository.AccountsKey)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	_, err = s.Get(ctx, "b", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestSessionStorage_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 0, nil)

	require.NoError(t, s.Set(ctx, "a", repository.SessionKey, []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "a", repository.VisitsKey, []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "b", repository.VisitsKey, []byte(`[]`)))

	require.NoError(t, s.Delete(ctx, "a", repository.SessionKey))
	_, err := s.Get(ctx, "a", repository.SessionKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Clear(ctx, "a"))
	_, err = s.Get(ctx, "a", repository.VisitsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	_, err = s.Get(ctx, "b", repository.VisitsKey)
	assert.NoError(t, err)
}

func TestSessionStorage_ExpiryAndPrune(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s := newTestStorage(t, time.Hour, func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "old", repository.AccountsKey, []byte(`[]`)))
	now = now.Add(45 * time.Minute)
	require.NoError(t, s.Set(ctx, "fresh", repository.AccountsKey, []byte(`[]`)))
	now = now.Add(30 * time.Minute)

	_, err := s.Get(ctx, "old", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	_, err = s.Get(ctx, "fresh", repository.AccountsKey)
	require.NoError(t, err)

	removed, err := s.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	var entries int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM session_entries;").Scan(&entries))
	assert.Equal(t, 1, entries)
}

func TestSessionStorage_SetOnExpiredScopeStartsFresh(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s := newTestStorage(t, time.Hour, func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[]`)))
	now = now.Add(2 * time.Hour)
	require.NoError(t, s.Set(ctx, "a", repository.VisitsKey, []byte(`[]`)))

	_, err := s.Get(ctx, "a", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	_, err = s.Get(ctx, "a", repository.VisitsKey)
	assert.NoError(t, err)
}

func TestSessionStorage_SetManyGuard(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, 0, nil)

	absent := &repository.Guard{Key: repository.RevisionKey}
	require.NoError(t, s.SetMany(ctx, "a", map[string][]byte{
		repository.AccountsKey: []byte(`[1]`),
		repository.VisitsKey:   []byte(`[]`),
		repository.RevisionKey: []byte("r1"),
	}, absent))

	err := s.SetMany(ctx, "a", map[string][]byte{repository.AccountsKey: []byte(`[9]`)}, absent)
	assert.ErrorIs(t, err, repository.ErrGuardFailed)

	err = s.SetMany(ctx, "a", map[string][]byte{repository.AccountsKey: []byte(`[9]`)},
		&repository.Guard{Key: repository.RevisionKey, Value: []byte("stale")})
	assert.ErrorIs(t, err, repository.ErrGuardFailed)

	require.NoError(t, s.SetMany(ctx, "a", map[string][]byte{
		repository.AccountsKey: []byte(`[1,2]`),
		repository.RevisionKey: []byte("r2"),
	}, &repository.Guard{Key: repository.RevisionKey, Value: []byte("r1")}))

	got, err := s.Get(ctx, "a", repository.AccountsKey)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
	got, err = s.Get(ctx, "a", repository.VisitsKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestSessionStorage_TouchExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s := newTestStorage(t, time.Hour, func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[]`)))
	for range 3 {
		now = now.Add(40 * time.Minute)
		require.NoError(t, s.Touch(ctx, "a"))
	}

	_, err := s.Get(ctx, "a", repository.AccountsKey)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	require.NoError(t, s.Touch(ctx, "a"))
	_, err = s.Get(ctx, "a", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestWorker_QueuedJobOutlivesCancel(t *testing.T) {
	db := openTestDB(t)
	w := NewWorker(db)
	t.Cleanup(w.Close)

	_, err := db.Exec("CREATE TABLE marks (id INTEGER PRIMARY KEY);")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)

	go func() {
		result <- w.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
			close(started)
			<-release
			_, err := tx.ExecContext(ctx, "INSERT INTO marks(id) VALUES (1);")

			return err
		})
	}()

	<-started
	cancel()
	close(release)

	require.NoError(t, <-result)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM marks;").Scan(&n))
	assert.Equal(t, 1, n)

	// A job that never got queued is abandoned.
	assert.ErrorIs(t, w.Do(ctx, func(context.Context, *sql.Tx) error { return nil }), context.Canceled)
}
