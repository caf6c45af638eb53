package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Login failure tracking lives here; per-method
// MFA failure tracking lives on mfa settings.
type User struct {
	ID                  string
	Email               string
	Name                string
	Status              UserStatus
	FailedLoginAttempts int
	LockedUntil         *time.Time // nil or past = not locked
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusDisabled UserStatus = "disabled"
)

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Status == "" {
		u.Status = UserStatusActive
	}
	return nil
}

// Active reports whether the user may authenticate at all.
func (u *User) Active() bool {
	return u.Status == UserStatusActive
}
