package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"saas-control-plane/backend/internal/audit/domain"
	"saas-control-plane/backend/internal/tenant"
)

// mockAuditRepo implements the audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) ListByOrg(ctx context.Context, orgID string, limit, offset int32) ([]*domain.AuditLog, error) {
	return nil, nil
}

func (m *mockAuditRepo) DeleteBefore(ctx context.Context, orgID string, cutoff time.Time) (int64, error) {
	return 0, nil
}

func TestLogger_LogEvent(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo, func(context.Context) string { return "10.0.0.1" }, nil)

	l.LogEvent(context.Background(), "org1", "u1", domain.ActionLoginSuccess, "session", "")

	if len(repo.entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.OrgID != "org1" || e.UserID != "u1" || e.Action != domain.ActionLoginSuccess {
		t.Errorf("entry = %+v", e)
	}
	if e.IP != "10.0.0.1" {
		t.Errorf("IP = %q, want 10.0.0.1", e.IP)
	}
	if e.ID == "" {
		t.Error("entry ID should be assigned")
	}
}

func TestLogger_LogEvent_SentinelOrg(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo, nil, nil)

	l.LogEvent(context.Background(), "", "u1", domain.ActionLoginFailure, "session", "")

	if repo.entries[0].OrgID != SentinelOrgID {
		t.Errorf("OrgID = %q, want sentinel", repo.entries[0].OrgID)
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("IP = %q, want unknown without extractor", repo.entries[0].IP)
	}
}

func TestLogger_LogEvent_FallsBackToContextIdentity(t *testing.T) {
	repo := &mockAuditRepo{}
	l := NewLogger(repo, nil, nil)

	ctx := tenant.WithBackgroundContext(context.Background(), "org-bg", "job-1", "")
	l.LogEvent(ctx, "", "", domain.ActionSessionRevoked, "session", "retention sweep")

	e := repo.entries[0]
	if e.OrgID != "org-bg" {
		t.Errorf("OrgID = %q, want org-bg from background context", e.OrgID)
	}
	if e.UserID != "job-1" {
		t.Errorf("UserID = %q, want job-1 from background context", e.UserID)
	}
}

func TestLogger_LogEvent_RepoFailureIsSwallowed(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("db down")}
	l := NewLogger(repo, nil, nil)

	// Must not panic or surface the error.
	l.LogEvent(context.Background(), "org1", "u1", domain.ActionLogout, "session", "")

	if len(repo.entries) != 0 {
		t.Errorf("no entries should be recorded on failure")
	}
}

func TestLogger_NilRepoIsNoop(t *testing.T) {
	l := NewLogger(nil, nil, nil)
	l.LogEvent(context.Background(), "org1", "u1", domain.ActionLogout, "session", "")
}
