package domain

import "time"

// Method is an MFA method kind. At most one Settings row exists per (user, method).
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodSMS        Method = "sms"
	MethodEmail      Method = "email"
	MethodBackupCode Method = "backup_code"
)

// Valid reports whether m is a known method kind.
func (m Method) Valid() bool {
	switch m {
	case MethodTOTP, MethodSMS, MethodEmail, MethodBackupCode:
		return true
	}
	return false
}

// Challengeable reports whether the method requires a code to be generated and
// delivered at login time. TOTP and backup codes are never challenged.
func (m Method) Challengeable() bool {
	return m == MethodSMS || m == MethodEmail
}

// Settings is one user's configuration for one MFA method.
type Settings struct {
	UserID         string
	OrgID          string
	Method         Method
	Enabled        bool
	Default        bool
	Secret         string // TOTP shared secret (base32); empty for other methods
	Phone          string // SMS delivery target
	Email          string // Email delivery target
	FailedAttempts int
	LockedUntil    *time.Time // nil or past = not locked
	LastUsedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Locked reports whether the method is locked out at the given instant.
func (s *Settings) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// Target returns the delivery target for challengeable methods.
func (s *Settings) Target() string {
	switch s.Method {
	case MethodSMS:
		return s.Phone
	case MethodEmail:
		return s.Email
	}
	return ""
}
