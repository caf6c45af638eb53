package repository

import (
	"context"
	"time"

	"saas-control-plane/backend/internal/mfa/domain"
)

// SettingsRepository defines persistence for per-user MFA method settings.
type SettingsRepository interface {
	GetByUserAndMethod(ctx context.Context, userID string, method domain.Method) (*domain.Settings, error)
	ListEnabledByUser(ctx context.Context, userID string) ([]*domain.Settings, error)
	Upsert(ctx context.Context, s *domain.Settings) error
	// IncrementFailedAttempts atomically bumps the counter and returns the new value.
	// Concurrent increments must not under-count.
	IncrementFailedAttempts(ctx context.Context, userID string, method domain.Method, at time.Time) (int, error)
	ResetFailedAttempts(ctx context.Context, userID string, method domain.Method, at time.Time) error
	SetLocked(ctx context.Context, userID string, method domain.Method, until time.Time) error
	SetLastUsed(ctx context.Context, userID string, method domain.Method, at time.Time) error
	// ClearDefault unsets the default flag on all of the user's methods; used before
	// marking a new default so at most one row is default per user.
	ClearDefault(ctx context.Context, userID string) error
}

// BackupCodeRepository defines persistence for single-use backup codes.
type BackupCodeRepository interface {
	ListUnused(ctx context.Context, userID string) ([]*domain.BackupCode, error)
	// Replace atomically swaps the user's code set for a fresh one.
	Replace(ctx context.Context, userID string, codes []*domain.BackupCode) error
	// Consume marks the code used. Returns false if it was already consumed; a code
	// can never verify twice, even under concurrent attempts.
	Consume(ctx context.Context, id string, at time.Time) (bool, error)
}

// AttemptRepository defines persistence for the append-only attempt audit log.
type AttemptRepository interface {
	Create(ctx context.Context, a *domain.Attempt) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Attempt, error)
	// DeleteBefore prunes attempts of the org older than cutoff. Retention worker only.
	DeleteBefore(ctx context.Context, orgID string, cutoff time.Time) (int64, error)
}
