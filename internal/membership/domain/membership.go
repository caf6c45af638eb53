package domain

import (
	"errors"
	"time"
)

// Membership links a user to an organization with a role. A user may hold at
// most one membership per organization.
type Membership struct {
	ID        string
	UserID    string
	OrgID     string
	Role      Role
	CreatedAt time.Time
}

// Validate checks the membership for persistence; Role defaults to member.
func (m *Membership) Validate() error {
	if m.UserID == "" {
		return errors.New("user id is required")
	}
	if m.OrgID == "" {
		return errors.New("org id is required")
	}
	if m.Role == "" {
		m.Role = RoleMember
	}
	if !m.Role.Valid() {
		return errors.New("unknown role " + string(m.Role))
	}
	return nil
}

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}
