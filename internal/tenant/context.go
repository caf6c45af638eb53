// Package tenant is the single source of truth for "who is making this call, for which
// organization". Request handlers and background jobs resolve identity through this
// package instead of reading claims or headers directly, so both paths share one set
// of guarantees.
package tenant

import "context"

type contextKey struct{ name string }

var (
	userIDKey    = contextKey{"user_id"}
	orgIDKey     = contextKey{"org_id"}
	sessionIDKey = contextKey{"session_id"}
	userNameKey  = contextKey{"user_name"}
	clientIPKey  = contextKey{"client_ip"}
)

// Identity is the request-scoped principal set by the tenant binding stage.
type Identity struct {
	UserID    string
	OrgID     string
	SessionID string
	UserName  string
}

// WithIdentity returns a context carrying the request identity. Set by the tenant
// binding middleware after the claim/header reconciliation succeeds.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	ctx = context.WithValue(ctx, orgIDKey, id.OrgID)
	ctx = context.WithValue(ctx, sessionIDKey, id.SessionID)
	ctx = context.WithValue(ctx, userNameKey, id.UserName)
	return ctx
}

// RequestUserID returns the user id set by the request pipeline and true if set.
func RequestUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// RequestOrgID returns the org id set by the request pipeline and true if set.
func RequestOrgID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(orgIDKey).(string)
	return v, ok && v != ""
}

// RequestSessionID returns the session id set by the request pipeline and true if set.
func RequestSessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sessionIDKey).(string)
	return v, ok && v != ""
}

// WithClientIP returns a context carrying the caller's remote address. Set early in
// the request pipeline so audit writes can record it without access to the request.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the caller's remote address, or "" outside a request.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// RequestUserName returns the display name set by the request pipeline and true if set.
func RequestUserName(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userNameKey).(string)
	return v, ok && v != ""
}
