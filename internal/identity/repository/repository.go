package repository

import (
	"context"

	"saas-control-plane/backend/internal/identity/domain"
)

// Repository persists identities. Lookups return (nil, nil) when no row
// matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByUserAndProvider(ctx context.Context, userID string, provider domain.IdentityProvider) (*domain.Identity, error)
	Create(ctx context.Context, i *domain.Identity) error
	UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error
}
