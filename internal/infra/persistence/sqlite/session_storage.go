package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"time"

	"elogbook/internal/domain/repository"

	"github.com/pkg/errors"
)

// SessionStorage is a repository.SessionStorage over the session_scopes and
// session_entries tables. Reads use the pool directly; writes go through the
// Worker.
type SessionStorage struct {
	db      *sql.DB
	writer  *Worker
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewSessionStorage(db *sql.DB, writer *Worker, ttl time.Duration) *SessionStorage {
	return &SessionStorage{db: db, writer: writer, ttl: ttl, nowFunc: time.Now}
}

// cutoff is the oldest touched_at_ms still considered live, or 0 when
// scopes never expire.
func (s *SessionStorage) cutoff(now time.Time) int64 {
	if s.ttl <= 0 {
		return 0
	}

	return now.Add(-s.ttl).UTC().UnixMilli()
}

func (s *SessionStorage) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
SELECT e.value
FROM session_entries e
JOIN session_scopes sc ON sc.scope = e.scope
WHERE e.scope = ? AND e.entry_key = ? AND sc.touched_at_ms > ?;
`, scope, key, s.cutoff(s.nowFunc())).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "session storage get")
	}

	return value, nil
}

func (s *SessionStorage) Set(ctx context.Context, scope, key string, value []byte) error {
	return s.SetMany(ctx, scope, map[string][]byte{key: value}, nil)
}

func (s *SessionStorage) SetMany(ctx context.Context, scope string, entries map[string][]byte, guard *repository.Guard) error {
	now := s.nowFunc()
	nowMs := now.UTC().UnixMilli()
	cutoff := s.cutoff(now)

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		// An expired scope is dropped so stale keys do not resurface.
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM session_entries WHERE scope IN (SELECT scope FROM session_scopes WHERE scope = ? AND touched_at_ms <= ?);",
			scope, cutoff,
		); err != nil {
			return errors.Wrap(err, "session storage drop expired")
		}

		if guard != nil {
			if err := checkGuard(ctx, tx, scope, guard); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO session_scopes(scope, touched_at_ms) VALUES (?, ?)
ON CONFLICT(scope) DO UPDATE SET touched_at_ms = excluded.touched_at_ms;
`, scope, nowMs); err != nil {
			return errors.Wrap(err, "session storage touch scope")
		}

		for key, value := range entries {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO session_entries(scope, entry_key, value) VALUES (?, ?, ?)
ON CONFLICT(scope, entry_key) DO UPDATE SET value = excluded.value;
`, scope, key, value); err != nil {
				return errors.Wrapf(err, "session storage set %s", key)
			}
		}

		return nil
	})
}

func checkGuard(ctx context.Context, tx *sql.Tx, scope string, guard *repository.Guard) error {
	var current []byte
	err := tx.QueryRowContext(ctx,
		"SELECT value FROM session_entries WHERE scope = ? AND entry_key = ?;",
		scope, guard.Key,
	).Scan(&current)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if guard.Value != nil {
			return repository.ErrGuardFailed
		}
	case err != nil:
		return errors.Wrap(err, "session storage read guard")
	case guard.Value == nil || !bytes.Equal(current, guard.Value):
		return repository.ErrGuardFailed
	}

	return nil
}

func (s *SessionStorage) Touch(ctx context.Context, scope string) error {
	now := s.nowFunc()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"UPDATE session_scopes SET touched_at_ms = ? WHERE scope = ? AND touched_at_ms > ?;",
			now.UTC().UnixMilli(), scope, s.cutoff(now),
		)

		return errors.Wrap(err, "session storage touch")
	})
}

func (s *SessionStorage) Delete(ctx context.Context, scope, key string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM session_entries WHERE scope = ? AND entry_key = ?;", scope, key)

		return errors.Wrap(err, "session storage delete")
	})
}

func (s *SessionStorage) Clear(ctx context.Context, scope string) error {
	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_entries WHERE scope = ?;", scope); err != nil {
			return errors.Wrap(err, "session storage clear entries")
		}
		_, err := tx.ExecContext(ctx, "DELETE FROM session_scopes WHERE scope = ?;", scope)

		return errors.Wrap(err, "session storage clear scope")
	})
}

func (s *SessionStorage) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.cutoff(now)

	var removed int64
	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM session_entries WHERE scope IN (SELECT scope FROM session_scopes WHERE touched_at_ms <= ?);",
			cutoff,
		); err != nil {
			return errors.Wrap(err, "prune entries")
		}

		res, err := tx.ExecContext(ctx, "DELETE FROM session_scopes WHERE touched_at_ms <= ?;", cutoff)
		if err != nil {
			return errors.Wrap(err, "prune scopes")
		}
		removed, err = res.RowsAffected()

		return errors.Wrap(err, "prune rows affected")
	})
	if err != nil {
		return 0, err
	}

	return int(removed), nil
}
