package repository

import (
	"context"

	"saas-control-plane/backend/internal/membership/domain"
)

// Repository persists user-org memberships. Lookups return (nil, nil) when
// no row matches.
type Repository interface {
	GetMembershipByUserAndOrg(ctx context.Context, userID, orgID string) (*domain.Membership, error)
	ListMembershipsByUser(ctx context.Context, userID string) ([]*domain.Membership, error)
	CreateMembership(ctx context.Context, m *domain.Membership) error
	DeleteByUserAndOrg(ctx context.Context, userID, orgID string) error
}
