package tenant

import "context"

// SystemUserName is the placeholder recorded for background work that runs without a
// concrete acting user. Never surfaced as a resolved display name.
const SystemUserName = "system"

type backgroundKey struct{}

// BackgroundContext is the identity a background unit of work acts as. It lives on the
// context of that unit only; concurrent jobs never observe each other's value.
type BackgroundContext struct {
	OrgID    string
	UserID   string
	UserName string
}

// WithBackgroundContext returns a context scoped to one background unit of work acting
// for the given organization. userID and userName may be empty; userName defaults to
// SystemUserName. The returned context must not outlive the unit of work.
func WithBackgroundContext(ctx context.Context, orgID, userID, userName string) context.Context {
	if userName == "" {
		userName = SystemUserName
	}
	return context.WithValue(ctx, backgroundKey{}, BackgroundContext{
		OrgID:    orgID,
		UserID:   userID,
		UserName: userName,
	})
}

// Background returns the background context value and true if one is attached.
func Background(ctx context.Context) (BackgroundContext, bool) {
	bc, ok := ctx.Value(backgroundKey{}).(BackgroundContext)
	return bc, ok
}

// IsBackground reports whether the current execution context is a background unit of
// work, i.e. a background context with a non-empty org id is attached.
func IsBackground(ctx context.Context) bool {
	bc, ok := Background(ctx)
	return ok && bc.OrgID != ""
}
