// Package memory keeps scope data in process memory. It is the default
// backend for local runs and tests; everything is lost on restart.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"elogbook/internal/domain/repository"
)

type scopeEntry struct {
	values  map[string][]byte
	touched time.Time
}

// SessionStorage is an in-memory repository.SessionStorage.
type SessionStorage struct {
	mu      sync.RWMutex
	ttl     time.Duration
	nowFunc func() time.Time
	scopes  map[string]*scopeEntry
}

// NewSessionStorage creates an empty store. A zero ttl keeps scopes until
// Clear; nowFunc defaults to time.Now.
func NewSessionStorage(ttl time.Duration, nowFunc func() time.Time) *SessionStorage {
	if nowFunc == nil {
		nowFunc = time.Now
	}

	return &SessionStorage{
		ttl:     ttl,
		nowFunc: nowFunc,
		scopes:  make(map[string]*scopeEntry),
	}
}

func (s *SessionStorage) expired(e *scopeEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(e.touched) >= s.ttl
}

func (s *SessionStorage) Get(_ context.Context, scope, key string) ([]byte, error) {
	now := s.nowFunc()

	s.mu.RLock()
	e, ok := s.scopes[scope]
	if !ok || s.expired(e, now) {
		s.mu.RUnlock()

		return nil, repository.ErrKeyNotFound
	}
	v, ok := e.values[key]
	if !ok {
		s.mu.RUnlock()

		return nil, repository.ErrKeyNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	s.mu.RUnlock()

	return out, nil
}

func (s *SessionStorage) Set(ctx context.Context, scope, key string, value []byte) error {
	return s.SetMany(ctx, scope, map[string][]byte{key: value}, nil)
}

func (s *SessionStorage) SetMany(_ context.Context, scope string, entries map[string][]byte, guard *repository.Guard) error {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.scopes[scope]
	if !ok || s.expired(e, now) {
		e = &scopeEntry{values: make(map[string][]byte)}
	}

	if guard != nil {
		current, held := e.values[guard.Key]
		if (guard.Value == nil && held) || (guard.Value != nil && (!held || !bytes.Equal(current, guard.Value))) {
			return repository.ErrGuardFailed
		}
	}

	for key, value := range entries {
		v := make([]byte, len(value))
		copy(v, value)
		e.values[key] = v
	}
	e.touched = now
	s.scopes[scope] = e

	return nil
}

func (s *SessionStorage) Touch(_ context.Context, scope string) error {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.scopes[scope]; ok && !s.expired(e, now) {
		e.touched = now
	}

	return nil
}

func (s *SessionStorage) Delete(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.scopes[scope]; ok {
		delete(e.values, key)
	}

	return nil
}

func (s *SessionStorage) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scopes, scope)

	return nil
}

func (s *SessionStorage) PruneExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.scopes {
		if s.expired(e, now) {
			delete(s.scopes, id)
			removed++
		}
	}

	return removed, nil
}

// Scopes returns the number of live scopes. Test-only helper.
func (s *SessionStorage) Scopes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.scopes)
}
