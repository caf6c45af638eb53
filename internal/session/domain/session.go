package domain

import "time"

// Session identifies one authenticated client instance. A session with Active false or
// ExpiresAt <= now must never authorize a request; the validator enforces this lazily
// at request time.
type Session struct {
	ID               string
	UserID           string
	OrgID            string
	DeviceName       string
	UserAgent        string
	IPAddress        string
	CreatedAt        time.Time
	LastSeenAt       *time.Time
	ExpiresAt        time.Time
	Active           bool
	RevokedAt        *time.Time // nil while active
	RefreshJti       string     // current refresh token jti for rotation; empty if not set
	RefreshTokenHash string     // SHA-256 hash of current refresh token
}

// Expired reports whether the session's expiry has passed at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
