package passwordpolicy

import (
	"context"

	"saas-control-plane/backend/internal/passwordpolicy/domain"
	"saas-control-plane/backend/internal/passwordpolicy/repository"
)

// Resolver resolves the effective policy for an organization: the org's own active
// policy when present, else the platform default. Never returns nil.
type Resolver struct {
	repo repository.Repository
}

// NewResolver returns a Resolver over the given repository. repo may be nil, in which
// case every org resolves to the platform default.
func NewResolver(repo repository.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the effective policy for orgID. An inactive org policy does not
// shadow the default: most specific active policy wins.
func (r *Resolver) Resolve(ctx context.Context, orgID string) (*domain.Policy, error) {
	if r.repo == nil || orgID == "" {
		return domain.Default(), nil
	}
	p, err := r.repo.GetByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if p == nil || !p.Active {
		return domain.Default(), nil
	}
	return p, nil
}
