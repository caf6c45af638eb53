package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saas-control-plane/backend/internal/security"
	"saas-control-plane/backend/internal/tenant"
)

func issueToken(t *testing.T, tokens *security.TokenProvider, id security.Identity) string {
	t.Helper()
	access, _, _, err := tokens.IssueAccess(id)
	require.NoError(t, err)
	return access
}

func tenantPipeline(t *testing.T, tokens *security.TokenProvider) (http.Handler, *tenant.Identity) {
	t.Helper()
	var seen tenant.Identity
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		seen.UserID, _ = tenant.RequestUserID(ctx)
		seen.OrgID, _ = tenant.RequestOrgID(ctx)
		seen.SessionID, _ = tenant.RequestSessionID(ctx)
		w.WriteHeader(http.StatusNoContent)
	})
	h := Chain(inner, Authenticate(tokens), TenantBinding(nil))
	return h, &seen
}

func TestTenantBinding_BindsIdentityFromToken(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, seen := tenantPipeline(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, security.Identity{
		UserID: "u1", OrgID: "org-1", SessionID: "s1",
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org-1", rec.Header().Get(TenantHeader))
	assert.Equal(t, "u1", seen.UserID)
	assert.Equal(t, "org-1", seen.OrgID)
	assert.Equal(t, "s1", seen.SessionID)
}

func TestTenantBinding_MissingTenantFailsClosed(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, _ := tenantPipeline(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, security.Identity{UserID: "u1"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_tenant")
}

func TestTenantBinding_NormalizesRequestHeader(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)

	var downstream string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downstream = r.Header.Get(TenantHeader)
		w.WriteHeader(http.StatusNoContent)
	})
	h := Chain(inner, Authenticate(tokens), TenantBinding(nil))

	bearer := "Bearer " + issueToken(t, tokens, security.Identity{
		UserID: "u1", OrgID: "org-1", SessionID: "s1",
	})

	// No header sent: downstream still reads the claim-derived org.
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", bearer)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org-1", downstream)

	// Padded header sent: normalized to the exact claim value.
	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", bearer)
	req.Header.Set(TenantHeader, "  org-1 ")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "org-1", downstream)
}

func TestTenantBinding_HeaderMismatchRejected(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, _ := tenantPipeline(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, security.Identity{
		UserID: "u1", OrgID: "org-1", SessionID: "s1",
	}))
	req.Header.Set(TenantHeader, "org-2")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenant_mismatch")
}

func TestTenantBinding_HeaderComparisonIsCaseSensitive(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, _ := tenantPipeline(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, security.Identity{
		UserID: "u1", OrgID: "Org-1", SessionID: "s1",
	}))
	req.Header.Set(TenantHeader, "org-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tenant_mismatch")
}

func TestTenantBinding_HeaderWhitespaceTolerated(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, _ := tenantPipeline(t, tokens)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, security.Identity{
		UserID: "u1", OrgID: "org-1", SessionID: "s1",
	}))
	req.Header.Set(TenantHeader, "  org-1 ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTenantBinding_AnonymousBypassesBinding(t *testing.T) {
	tokens, err := security.NewTestTokenProvider()
	require.NoError(t, err)
	h, seen := tenantPipeline(t, tokens)

	for _, auth := range []string{"", "Bearer not-a-token", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code, "auth %q", auth)
		assert.Empty(t, seen.OrgID, "auth %q", auth)
	}
}

func TestFirstClaim_OrderedFallback(t *testing.T) {
	claims := map[string]string{"tenant_id": "t-alt", "tid": "t-legacy"}
	assert.Equal(t, "t-alt", firstClaim(claims, tenantClaimKeys))

	claims["org_id"] = "t-canonical"
	assert.Equal(t, "t-canonical", firstClaim(claims, tenantClaimKeys))

	assert.Equal(t, "", firstClaim(map[string]string{"org_id": "  "}, tenantClaimKeys))
}
