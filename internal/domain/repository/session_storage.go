// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"
	"time"
)

// Storage keys of one scope. The values are JSON documents.
const (
	AccountsKey = "elogbook_users"
	VisitsKey   = "elogbook_visitors"
	SessionKey  = "elogbook_session"

	// RevisionKey holds an opaque stamp rewritten by every commit of the
	// record store. Readers compare it to detect writes made elsewhere.
	RevisionKey = "elogbook_revision"
)

var (
	// ErrKeyNotFound is returned by SessionStorage.Get when the scope has no value under the key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrGuardFailed is returned by SessionStorage.SetMany when its guard does not hold.
	ErrGuardFailed = errors.New("guard key changed")
)

// Guard makes SetMany conditional on the current value of one key.
type Guard struct {
	Key string

	// Value is the value Key must hold. Nil requires Key to be absent.
	Value []byte
}

// SessionStorage is a key-value store partitioned by scope. A scope's keys live
// until Clear is called or the scope stays idle past the backend's time-to-live.
type SessionStorage interface {
	// Get returns the raw value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, scope, key string) ([]byte, error)

	// Set stores value under key and refreshes the scope's expiry.
	Set(ctx context.Context, scope, key string, value []byte) error

	// SetMany stores all entries in one atomic write and refreshes the scope's
	// expiry. With a guard, nothing is written and ErrGuardFailed is returned
	// unless the guard holds at the time of the write.
	SetMany(ctx context.Context, scope string, entries map[string][]byte, guard *Guard) error

	// Touch refreshes the scope's expiry. Missing or expired scopes are left alone.
	Touch(ctx context.Context, scope string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, scope, key string) error

	// Clear removes every key of the scope.
	Clear(ctx context.Context, scope string) error

	// PruneExpired removes scopes idle since before now minus the time-to-live
	// and reports how many were removed.
	PruneExpired(ctx context.Context, now time.Time) (int, error)
}
