package repository

import (
	"context"
	"time"

	"saas-control-plane/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// IncrementFailedLogins atomically bumps the login failure counter and returns
	// the new value. Concurrent failed logins must not under-count.
	IncrementFailedLogins(ctx context.Context, id string, at time.Time) (int, error)
	// ResetFailedLogins zeroes the counter and clears any lockout.
	ResetFailedLogins(ctx context.Context, id string, at time.Time) error
	SetLocked(ctx context.Context, id string, until time.Time) error
}
