package tenant

import "context"

// OrgID returns the effective organization id for the current unit of work.
// Background context takes precedence over the request identity so system jobs can act
// "as" a tenant; falls back to the canonical tenant bound to the request, else "".
func OrgID(ctx context.Context) string {
	if bc, ok := Background(ctx); ok && bc.OrgID != "" {
		return bc.OrgID
	}
	if v, ok := RequestOrgID(ctx); ok {
		return v
	}
	return ""
}

// UserID returns the effective user id with the same precedence as OrgID.
func UserID(ctx context.Context) string {
	if bc, ok := Background(ctx); ok && bc.OrgID != "" && bc.UserID != "" {
		return bc.UserID
	}
	if v, ok := RequestUserID(ctx); ok {
		return v
	}
	return ""
}

// UserName returns the effective user display name. The background placeholder name is
// skipped so an authenticated request's display name is not masked by "system".
func UserName(ctx context.Context) string {
	if bc, ok := Background(ctx); ok && bc.OrgID != "" && bc.UserName != "" && bc.UserName != SystemUserName {
		return bc.UserName
	}
	if v, ok := RequestUserName(ctx); ok {
		return v
	}
	return ""
}
