package postgres

import (
	"bytes"
	"context"
	"time"

	"elogbook/internal/domain/repository"
	"elogbook/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStorage is a repository.SessionStorage over session_scopes and
// session_entries.
type SessionStorage struct {
	db      *gorm.DB
	tx      *txRunner
	ttl     time.Duration
	nowFunc func() time.Time
}

func NewSessionStorage(db *gorm.DB, ttl time.Duration) *SessionStorage {
	return &SessionStorage{db: db, tx: newTxRunner(db), ttl: ttl, nowFunc: time.Now}
}

// cutoff is the newest touched_at that counts as expired. The zero time when
// scopes never expire.
func (s *SessionStorage) cutoff(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}

	return now.Add(-s.ttl).UTC()
}

func expiredScopes(db *gorm.DB, cutoff time.Time) *gorm.DB {
	return db.Model(&model.SessionScopeModel{}).Select("scope").Where("touched_at <= ?", cutoff)
}

func (s *SessionStorage) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var entry model.SessionEntryModel
	err := s.db.WithContext(ctx).
		Select("session_entries.*").
		Joins("JOIN session_scopes ON session_scopes.scope = session_entries.scope").
		Where("session_entries.scope = ? AND session_entries.entry_key = ?", scope, key).
		Where("session_scopes.touched_at > ?", s.cutoff(s.nowFunc())).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "session storage get")
	}

	return entry.Value, nil
}

func (s *SessionStorage) Set(ctx context.Context, scope, key string, value []byte) error {
	return s.SetMany(ctx, scope, map[string][]byte{key: value}, nil)
}

// SetMany upserts the scope row before reading the guard, so the row lock
// serialises concurrent writers of one scope.
func (s *SessionStorage) SetMany(ctx context.Context, scope string, entries map[string][]byte, guard *repository.Guard) error {
	now := s.nowFunc().UTC()
	cutoff := s.cutoff(now)

	return s.tx.Execute(ctx, func(tx *gorm.DB) error {
		if s.ttl > 0 {
			if err := tx.Where("scope = ? AND scope IN (?)", scope, expiredScopes(tx, cutoff)).
				Delete(&model.SessionEntryModel{}).Error; err != nil {
				return errors.Wrap(err, "session storage drop expired")
			}
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}},
			DoUpdates: clause.AssignmentColumns([]string{"touched_at"}),
		}).Create(&model.SessionScopeModel{Scope: scope, TouchedAt: now}).Error; err != nil {
			return errors.Wrap(err, "session storage touch scope")
		}

		if guard != nil {
			if err := checkGuard(tx, scope, guard); err != nil {
				return err
			}
		}

		rows := make([]model.SessionEntryModel, 0, len(entries))
		for key, value := range entries {
			rows = append(rows, model.SessionEntryModel{Scope: scope, EntryKey: key, Value: value})
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "scope"}, {Name: "entry_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&rows).Error; err != nil {
			return errors.Wrap(err, "session storage set")
		}

		return nil
	})
}

func checkGuard(tx *gorm.DB, scope string, guard *repository.Guard) error {
	var entry model.SessionEntryModel
	err := tx.Where("scope = ? AND entry_key = ?", scope, guard.Key).Take(&entry).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if guard.Value != nil {
			return repository.ErrGuardFailed
		}
	case err != nil:
		return errors.Wrap(err, "session storage read guard")
	case guard.Value == nil || !bytes.Equal(entry.Value, guard.Value):
		return repository.ErrGuardFailed
	}

	return nil
}

func (s *SessionStorage) Touch(ctx context.Context, scope string) error {
	now := s.nowFunc().UTC()

	err := s.db.WithContext(ctx).
		Model(&model.SessionScopeModel{}).
		Where("scope = ? AND touched_at > ?", scope, s.cutoff(now)).
		Update("touched_at", now).Error

	return errors.Wrap(err, "session storage touch")
}

func (s *SessionStorage) Delete(ctx context.Context, scope, key string) error {
	err := s.db.WithContext(ctx).
		Where("scope = ? AND entry_key = ?", scope, key).
		Delete(&model.SessionEntryModel{}).Error

	return errors.Wrap(err, "session storage delete")
}

func (s *SessionStorage) Clear(ctx context.Context, scope string) error {
	return s.tx.Execute(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("scope = ?", scope).Delete(&model.SessionEntryModel{}).Error; err != nil {
			return errors.Wrap(err, "session storage clear entries")
		}

		return errors.Wrap(tx.Where("scope = ?", scope).Delete(&model.SessionScopeModel{}).Error, "session storage clear scope")
	})
}

func (s *SessionStorage) PruneExpired(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	cutoff := s.cutoff(now)

	var removed int64
	err := s.tx.Execute(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("scope IN (?)", expiredScopes(tx, cutoff)).
			Delete(&model.SessionEntryModel{}).Error; err != nil {
			return errors.Wrap(err, "prune entries")
		}

		res := tx.Where("touched_at <= ?", cutoff).Delete(&model.SessionScopeModel{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "prune scopes")
		}
		removed = res.RowsAffected

		return nil
	})
	if err != nil {
		return 0, err
	}

	return int(removed), nil
}
