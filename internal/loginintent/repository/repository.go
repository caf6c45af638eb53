package repository

import (
	"context"
	"time"

	"saas-control-plane/backend/internal/loginintent/domain"
)

// Repository defines persistence for pending login intents.
type Repository interface {
	Create(ctx context.Context, i *domain.Intent) error
	GetByID(ctx context.Context, id string) (*domain.Intent, error)
	// Consume atomically deletes the intent and returns it, or nil if it was
	// already consumed or never existed. An intent completes at most one login.
	Consume(ctx context.Context, id string) (*domain.Intent, error)
	// DeleteExpired prunes intents past their deadline. Retention worker only.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}
