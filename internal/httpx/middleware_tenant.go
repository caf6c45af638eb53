package httpx

import (
	"errors"
	"net/http"
	"strings"

	"saas-control-plane/backend/internal/metrics"
	"saas-control-plane/backend/internal/tenant"
)

// TenantHeader is the canonical request header naming the caller's organization.
// The response always echoes the resolved org under the same header.
const TenantHeader = "X-Org-ID"

// Identifier claims are tried in order; the first non-empty value wins. Alternate
// names cover tokens minted by federated issuers.
var (
	tenantClaimKeys  = []string{"org_id", "tenant_id", "tid"}
	sessionClaimKeys = []string{"session_id", "sid"}
	userClaimKeys    = []string{"sub", "user_id"}
	nameClaimKeys    = []string{"name", "email"}
)

// TenantBinding returns the middleware that binds every authenticated request to
// exactly one organization. It fails closed: a token without a resolvable org, or
// an org header disagreeing with the token, rejects the request before any
// handler runs.
func TenantBinding(pipeline *metrics.Pipeline) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Claims(r.Context())
			if claims == nil {
				// Anonymous endpoints bypass binding; protected routes put
				// RequireAuth in front of this middleware.
				next.ServeHTTP(w, r)
				return
			}

			orgID := firstClaim(claims, tenantClaimKeys)
			if orgID == "" {
				pipeline.BindingReject(r.Context(), metrics.ReasonMissingTenant)
				WriteError(w, ErrorParams{
					Code:    http.StatusBadRequest,
					ErrCode: "missing_tenant",
					Err:     errors.New("token carries no organization"),
				})
				return
			}
			if header := strings.TrimSpace(r.Header.Get(TenantHeader)); header != "" && header != orgID {
				pipeline.BindingReject(r.Context(), metrics.ReasonTenantMismatch)
				WriteError(w, ErrorParams{
					Code:    http.StatusBadRequest,
					ErrCode: "tenant_mismatch",
					Err:     errors.New("organization header does not match token"),
				})
				return
			}

			id := tenant.Identity{
				UserID:    firstClaim(claims, userClaimKeys),
				OrgID:     orgID,
				SessionID: firstClaim(claims, sessionClaimKeys),
				UserName:  firstClaim(claims, nameClaimKeys),
			}
			// Downstream readers see the claim-derived org in both the
			// request header and the context identity, regardless of what
			// the client sent.
			r.Header.Set(TenantHeader, orgID)
			w.Header().Set(TenantHeader, orgID)
			ctx := tenant.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func firstClaim(claims map[string]string, keys []string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(claims[k]); v != "" {
			return v
		}
	}
	return ""
}
