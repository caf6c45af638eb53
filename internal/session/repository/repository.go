package repository

import (
	"context"
	"time"

	"saas-control-plane/backend/internal/session/domain"
)

// Repository defines persistence for sessions.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	// FindActive returns the session only if it exists and is active; when orgID is
	// non-empty the session must also belong to that org. Returns (nil, nil) otherwise,
	// so revoked and nonexistent sessions are indistinguishable to callers.
	FindActive(ctx context.Context, id, orgID string) (*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) error
	// Deactivate marks the session inactive. Idempotent: deactivating an already
	// inactive session is a harmless no-op, safe under concurrent duplicate validation.
	Deactivate(ctx context.Context, id string, at time.Time) error
	Revoke(ctx context.Context, id string, at time.Time) error
	RevokeAllByUser(ctx context.Context, userID string, at time.Time) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
	UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error
	ListByUserAndOrg(ctx context.Context, userID, orgID string) ([]*domain.Session, error)
	// DeleteInactiveBefore hard-deletes sessions of the org deactivated before cutoff.
	// Used by the retention worker only; request handling never deletes sessions.
	DeleteInactiveBefore(ctx context.Context, orgID string, cutoff time.Time) (int64, error)
}
