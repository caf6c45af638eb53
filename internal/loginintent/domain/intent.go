package domain

import "time"

// Intent is a one-time binding between a password-verified login and the MFA
// step that must complete it. Consumed (deleted) exactly once when the second
// factor verifies.
type Intent struct {
	ID         string
	UserID     string
	OrgID      string
	DeviceName string
	UserAgent  string
	IPAddress  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the intent is past its deadline.
func (i *Intent) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
