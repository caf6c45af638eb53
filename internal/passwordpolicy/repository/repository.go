package repository

import (
	"context"

	"saas-control-plane/backend/internal/passwordpolicy/domain"
)

// Repository defines persistence for password policies.
type Repository interface {
	// GetByOrg returns the org's policy, or nil if the org has none.
	GetByOrg(ctx context.Context, orgID string) (*domain.Policy, error)
	Upsert(ctx context.Context, p *domain.Policy) error
}
