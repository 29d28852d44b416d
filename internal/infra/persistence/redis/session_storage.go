package redis

import (
	"bytes"
	"context"
	"time"

	"elogbook/internal/domain/repository"

	"github.com/pkg/errors"
	goredis "github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "elogbook:scope:"

type SessionStorage struct {
	client goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSessionStorage(client goredis.UniversalClient, prefix string, ttl time.Duration) *SessionStorage {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &SessionStorage{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionStorage) key(scope string) string {
	return s.prefix + scope
}

func (s *SessionStorage) Get(ctx context.Context, scope, key string) ([]byte, error) {
	val, err := s.client.HGet(ctx, s.key(scope), key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis hget")
	}

	return val, nil
}

// Set writes the field and refreshes the TTL of the whole scope.
func (s *SessionStorage) Set(ctx context.Context, scope, key string, value []byte) error {
	k := s.key(scope)

	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}

		return nil
	})

	return errors.Wrap(err, "redis hset")
}

// SetMany writes all fields in one MULTI. With a guard the scope hash is
// WATCHed, so a concurrent writer makes the transaction fail as ErrGuardFailed.
func (s *SessionStorage) SetMany(ctx context.Context, scope string, entries map[string][]byte, guard *repository.Guard) error {
	k := s.key(scope)

	fields := make(map[string]any, len(entries))
	for key, value := range entries {
		fields[key] = value
	}

	write := func(tx *goredis.Tx) error {
		if guard != nil {
			current, err := tx.HGet(ctx, k, guard.Key).Bytes()
			held := err == nil
			if err != nil && !errors.Is(err, goredis.Nil) {
				return errors.Wrap(err, "redis read guard")
			}
			if (guard.Value == nil && held) || (guard.Value != nil && (!held || !bytes.Equal(current, guard.Value))) {
				return repository.ErrGuardFailed
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.HSet(ctx, k, fields)
			if s.ttl > 0 {
				pipe.Expire(ctx, k, s.ttl)
			}

			return nil
		})

		return err
	}

	err := s.client.Watch(ctx, write, k)
	if errors.Is(err, goredis.TxFailedErr) {
		return repository.ErrGuardFailed
	}
	if errors.Is(err, repository.ErrGuardFailed) {
		return err
	}

	return errors.Wrap(err, "redis hset")
}

// Touch extends the TTL of the scope hash; EXPIRE on a missing key does nothing.
func (s *SessionStorage) Touch(ctx context.Context, scope string) error {
	if s.ttl <= 0 {
		return nil
	}

	return errors.Wrap(s.client.Expire(ctx, s.key(scope), s.ttl).Err(), "redis expire")
}

func (s *SessionStorage) Delete(ctx context.Context, scope, key string) error {
	return errors.Wrap(s.client.HDel(ctx, s.key(scope), key).Err(), "redis hdel")
}

func (s *SessionStorage) Clear(ctx context.Context, scope string) error {
	return errors.Wrap(s.client.Del(ctx, s.key(scope)).Err(), "redis del")
}

// PruneExpired is a no-op: Redis expires scope hashes on its own.
func (s *SessionStorage) PruneExpired(context.Context, time.Time) (int, error) {
	return 0, nil
}
