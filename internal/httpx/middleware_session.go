package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"saas-control-plane/backend/internal/metrics"
	orgdomain "saas-control-plane/backend/internal/organization/domain"
	sessiondomain "saas-control-plane/backend/internal/session/domain"
	"saas-control-plane/backend/internal/tenant"
)

// SessionStore is the session surface the validation middleware needs.
type SessionStore interface {
	FindActive(ctx context.Context, id, orgID string) (*sessiondomain.Session, error)
	Deactivate(ctx context.Context, id string, at time.Time) error
	UpdateLastSeen(ctx context.Context, id string, at time.Time) error
}

// OrgStore is the organization surface the validation middleware needs.
type OrgStore interface {
	GetByID(ctx context.Context, id string) (*orgdomain.Org, error)
}

// SessionValidatorParams configures ValidateSession.
type SessionValidatorParams struct {
	Sessions SessionStore
	Orgs     OrgStore
	Pipeline *metrics.Pipeline
	Logger   *slog.Logger
	// Now is overridable in tests; defaults to time.Now UTC.
	Now func() time.Time
}

// ValidateSession returns the middleware that checks the bound session on every
// request. A token without a session claim passes through. Revoked and
// nonexistent sessions are rejected identically as session_revoked; a session
// past its expiry is lazily deactivated on first touch and rejected as
// session_expired; an inactive org rejects the request even with a live
// session.
func ValidateSession(p SessionValidatorParams) func(http.Handler) http.Handler {
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	if p.Now == nil {
		p.Now = func() time.Time { return time.Now().UTC() }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			sessionID, ok := tenant.RequestSessionID(ctx)
			if !ok {
				// Machine-to-machine tokens carry no session; out of scope for this check.
				next.ServeHTTP(w, r)
				return
			}
			orgID, _ := tenant.RequestOrgID(ctx)

			sess, err := p.Sessions.FindActive(ctx, sessionID, orgID)
			if err != nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal",
					Err:     errors.New("session lookup failed"),
				})
				return
			}
			if sess == nil {
				p.Pipeline.SessionReject(ctx, metrics.ReasonRevoked)
				writeSessionRevoked(w)
				return
			}

			now := p.Now()
			if sess.Expired(now) {
				// Lazy expiry: the UPDATE is conditional on the session still being
				// active, so concurrent requests deactivate it exactly once. Detached
				// from the request context so a client cancel cannot skip it.
				if err := p.Sessions.Deactivate(context.WithoutCancel(ctx), sessionID, now); err != nil {
					p.Logger.ErrorContext(ctx, "deactivating expired session",
						slog.String("session_id", sessionID),
						slog.String("error", err.Error()))
				}
				p.Pipeline.SessionReject(ctx, metrics.ReasonExpired)
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "session_expired",
					Err:     errors.New("session expired"),
				})
				return
			}

			// Only an explicitly inactive org blocks; an unresolvable org is treated
			// as not yet provisioned.
			org, err := p.Orgs.GetByID(ctx, sess.OrgID)
			if err != nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusInternalServerError,
					ErrCode: "internal",
					Err:     errors.New("organization lookup failed"),
				})
				return
			}
			if org.Inactive() {
				p.Pipeline.SessionReject(ctx, metrics.ReasonOrgInactive)
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "org_inactive",
					Err:     errors.New("organization is not active"),
				})
				return
			}

			if err := p.Sessions.UpdateLastSeen(ctx, sessionID, now); err != nil {
				p.Logger.WarnContext(ctx, "updating session last_seen",
					slog.String("session_id", sessionID),
					slog.String("error", err.Error()))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeSessionRevoked writes the single 401 shared by revoked and nonexistent
// sessions so callers cannot probe which it was. Expiry is deliberately a
// different signal: by the time it is reported the session has already been
// deactivated, so there is nothing left to enumerate.
func writeSessionRevoked(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "session_revoked",
		Err:     errors.New("session revoked"),
	})
}
