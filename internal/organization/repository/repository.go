package repository

import (
	"context"

	"saas-control-plane/backend/internal/organization/domain"
)

// Repository defines persistence for organizations.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Org, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
	Create(ctx context.Context, o *domain.Org) error
	SetStatus(ctx context.Context, id string, status domain.OrgStatus) error
}
