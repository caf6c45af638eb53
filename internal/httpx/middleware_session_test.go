package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orgdomain "saas-control-plane/backend/internal/organization/domain"
	sessiondomain "saas-control-plane/backend/internal/session/domain"
	"saas-control-plane/backend/internal/tenant"
)

type fakeSessionStore struct {
	sessions    map[string]*sessiondomain.Session
	deactivated []string
	lastSeen    map[string]time.Time
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]*sessiondomain.Session{},
		lastSeen: map[string]time.Time{},
	}
}

func (s *fakeSessionStore) FindActive(_ context.Context, id, orgID string) (*sessiondomain.Session, error) {
	sess, ok := s.sessions[id]
	if !ok || !sess.Active || sess.OrgID != orgID {
		return nil, nil
	}
	return sess, nil
}

func (s *fakeSessionStore) Deactivate(_ context.Context, id string, at time.Time) error {
	if sess, ok := s.sessions[id]; ok && sess.Active {
		sess.Active = false
		revoked := at
		sess.RevokedAt = &revoked
		s.deactivated = append(s.deactivated, id)
	}
	return nil
}

func (s *fakeSessionStore) UpdateLastSeen(_ context.Context, id string, at time.Time) error {
	s.lastSeen[id] = at
	return nil
}

type fakeOrgStore struct {
	orgs map[string]*orgdomain.Org
}

func (s *fakeOrgStore) GetByID(_ context.Context, id string) (*orgdomain.Org, error) {
	return s.orgs[id], nil
}

type sessionFixture struct {
	sessions *fakeSessionStore
	orgs     *fakeOrgStore
	now      time.Time
	handler  http.Handler
	hits     int
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		sessions: newFakeSessionStore(),
		orgs:     &fakeOrgStore{orgs: map[string]*orgdomain.Org{}},
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits++
		w.WriteHeader(http.StatusNoContent)
	})
	f.handler = ValidateSession(SessionValidatorParams{
		Sessions: f.sessions,
		Orgs:     f.orgs,
		Now:      func() time.Time { return f.now },
	})(inner)
	return f
}

func (f *sessionFixture) seed(t *testing.T, active bool, expiresAt time.Time) *sessiondomain.Session {
	t.Helper()
	sess := &sessiondomain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		OrgID:     "org-1",
		Active:    active,
		CreatedAt: f.now.Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
	f.sessions.sessions[sess.ID] = sess
	f.orgs.orgs["org-1"] = &orgdomain.Org{ID: "org-1", Name: "Acme", Status: orgdomain.OrgStatusActive}
	return sess
}

func (f *sessionFixture) do(id tenant.Identity) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req = req.WithContext(tenant.WithIdentity(req.Context(), id))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func boundIdentity() tenant.Identity {
	return tenant.Identity{UserID: "user-1", OrgID: "org-1", SessionID: "sess-1"}
}

func TestValidateSession_ActiveSessionPasses(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, true, f.now.Add(time.Hour))

	rec := f.do(boundIdentity())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.hits)
	assert.Equal(t, f.now, f.sessions.lastSeen["sess-1"])
}

func TestValidateSession_MissingAndRevokedAreIndistinguishable(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, false, f.now.Add(time.Hour)) // revoked

	revoked := f.do(boundIdentity())

	missing := f.do(tenant.Identity{UserID: "user-1", OrgID: "org-1", SessionID: "no-such"})

	require.Equal(t, http.StatusUnauthorized, revoked.Code)
	require.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, revoked.Body.String(), missing.Body.String())
	assert.Equal(t, 0, f.hits)
}

func TestValidateSession_CrossOrgSessionRejected(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, true, f.now.Add(time.Hour))

	rec := f.do(tenant.Identity{UserID: "user-1", OrgID: "org-2", SessionID: "sess-1"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session_revoked")
}

func TestValidateSession_ExpiredSessionLazilyDeactivated(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, true, f.now.Add(-time.Minute))

	first := f.do(boundIdentity())

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Contains(t, first.Body.String(), "session_expired")
	require.Len(t, f.sessions.deactivated, 1)
	assert.Equal(t, "sess-1", f.sessions.deactivated[0])
	assert.False(t, f.sessions.sessions["sess-1"].Active)

	// Second touch: the session is now inactive, so it reads as revoked, not
	// expired, and no further deactivation happens.
	second := f.do(boundIdentity())
	assert.Equal(t, http.StatusUnauthorized, second.Code)
	assert.Contains(t, second.Body.String(), "session_revoked")
	assert.NotEqual(t, first.Body.String(), second.Body.String())
	assert.Len(t, f.sessions.deactivated, 1)
}

func TestValidateSession_InactiveOrgRejectedDespiteLiveSession(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, true, f.now.Add(time.Hour))
	f.orgs.orgs["org-1"].Status = orgdomain.OrgStatusInactive

	rec := f.do(boundIdentity())

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "org_inactive")
	assert.True(t, f.sessions.sessions["sess-1"].Active, "session stays live; only the org gate blocks")
}

func TestValidateSession_SessionlessTokenPassesThrough(t *testing.T) {
	f := newSessionFixture(t)

	rec := f.do(tenant.Identity{UserID: "user-1", OrgID: "org-1"})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.hits)
}

func TestValidateSession_UnresolvableOrgPasses(t *testing.T) {
	f := newSessionFixture(t)
	f.seed(t, true, f.now.Add(time.Hour))
	delete(f.orgs.orgs, "org-1")

	rec := f.do(boundIdentity())

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, f.hits)
}
