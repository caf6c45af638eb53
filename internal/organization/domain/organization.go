package domain

import (
	"errors"
	"time"
)

// Org represents an organization, the isolation boundary for customer data.
type Org struct {
	ID        string
	Name      string
	Status    OrgStatus
	CreatedAt time.Time
}

type OrgStatus string

const (
	OrgStatusActive   OrgStatus = "active"
	OrgStatusInactive OrgStatus = "inactive"
)

// Inactive reports whether the org is explicitly switched off. Only this state blocks
// session validation; an unresolvable org is treated as not yet provisioned.
func (o *Org) Inactive() bool {
	return o != nil && o.Status == OrgStatusInactive
}

// Validate validates the organization for persistence.
func (o *Org) Validate() error {
	if o.Name == "" {
		return errors.New("name is required")
	}
	if o.Status == "" {
		o.Status = OrgStatusActive
	}
	return nil
}
