package redis

import (
	"context"
	"testing"
	"time"

	"elogbook/config"
	"elogbook/internal/domain/repository"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T, ttl time.Duration) (*SessionStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStorage(client, "test:", ttl), mr
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), &config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	assert.NoError(t, client.Close())

	_, err = NewClient(context.Background(), nil)
	assert.Error(t, err)
}

func TestSessionStorage_SetGet(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Hour)

	_, err := s.Get(ctx, "a", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[{"id":1}]`)))

	got, err := s.Get(ctx, "a", repository.AccountsKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	assert.True(t, mr.Exists("test:a"))
	assert.Equal(t, time.Hour, mr.TTL("test:a"))
}

func TestSessionStorage_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, 0)

	require.NoError(t, s.Set(ctx, "a", repository.SessionKey, []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "a", repository.VisitsKey, []byte(`[]`)))

	require.NoError(t, s.Delete(ctx, "a", repository.SessionKey))
	_, err := s.Get(ctx, "a", repository.SessionKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	require.NoError(t, s.Clear(ctx, "a"))
	assert.False(t, mr.Exists("test:a"))
}

func TestSessionStorage_Expiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Hour)

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[]`)))
	mr.FastForward(45 * time.Minute)

	// Touching any key extends the whole scope.
	require.NoError(t, s.Set(ctx, "a", repository.VisitsKey, []byte(`[]`)))
	mr.FastForward(45 * time.Minute)

	_, err := s.Get(ctx, "a", repository.AccountsKey)
	require.NoError(t, err)

	mr.FastForward(time.Hour)
	_, err = s.Get(ctx, "a", repository.AccountsKey)
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)

	removed, err := s.PruneExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSessionStorage_BackendDown(t *testing.T) {
	s, mr := newTestStorage(t, 0)
	mr.Close()

	err := s.Set(context.Background(), "a", repository.AccountsKey, []byte(`[]`))
	assert.Error(t, err)
}

func TestSessionStorage_SetManyGuard(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Hour)

	absent := &repository.Guard{Key: repository.RevisionKey}
	require.NoError(t, s.SetMany(ctx, "a", map[string][]byte{
		repository.AccountsKey: []byte(`[1]`),
		repository.RevisionKey: []byte("r1"),
	}, absent))
	assert.Equal(t, time.Hour, mr.TTL("test:a"))

	err := s.SetMany(ctx, "a", map[string][]byte{repository.AccountsKey: []byte(`[9]`)}, absent)
	assert.ErrorIs(t, err, repository.ErrGuardFailed)

	err = s.SetMany(ctx, "a", map[string][]byte{repository.AccountsKey: []byte(`[9]`)},
		&repository.Guard{Key: repository.RevisionKey, Value: []byte("stale")})
	assert.ErrorIs(t, err, repository.ErrGuardFailed)
	assert.Equal(t, `[1]`, mr.HGet("test:a", repository.AccountsKey))

	require.NoError(t, s.SetMany(ctx, "a", map[string][]byte{
		repository.AccountsKey: []byte(`[1,2]`),
		repository.RevisionKey: []byte("r2"),
	}, &repository.Guard{Key: repository.RevisionKey, Value: []byte("r1")}))
	assert.Equal(t, `[1,2]`, mr.HGet("test:a", repository.AccountsKey))
	assert.Equal(t, "r2", mr.HGet("test:a", repository.RevisionKey))
}

func TestSessionStorage_TouchExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestStorage(t, time.Hour)

	require.NoError(t, s.Set(ctx, "a", repository.AccountsKey, []byte(`[]`)))
	mr.FastForward(45 * time.Minute)
	require.NoError(t, s.Touch(ctx, "a"))
	assert.Equal(t, time.Hour, mr.TTL("test:a"))

	require.NoError(t, s.Touch(ctx, "missing"))
	assert.False(t, mr.Exists("test:missing"))
}
