package entity

import "time"

// Scope is one browser session. All logbook data of a scope (its accounts,
// its visits and its current login) lives under the scope's ID in session storage
// and disappears when the scope ends.
type Scope struct {
	ID        string    // Opaque UUID carried in the scope cookie.
	IssuedAt  time.Time // When the current scope token was signed.
	ExpiresAt time.Time // Idle deadline; refreshed on every authenticated request.
}

// Expired reports whether the scope's deadline has passed at now.
func (s *Scope) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
