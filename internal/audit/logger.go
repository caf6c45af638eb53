package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"saas-control-plane/backend/internal/audit/domain"
	auditrepo "saas-control-plane/backend/internal/audit/repository"
	"saas-control-plane/backend/internal/tenant"
)

// SentinelOrgID is the org_id used for audit events that have no org (e.g. login_failure
// before tenant resolution).
const SentinelOrgID = "_system"

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	slog        *slog.Logger
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor for
// client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, slog: logger}
}

// LogEvent writes one audit log entry. When orgID or userID is empty it falls back to
// the identity carried by ctx, so background jobs attribute their rows to the system
// actor they run as. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, orgID, userID, action, resource, metadata string) {
	if l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if orgID == "" {
		orgID = tenant.OrgID(ctx)
	}
	if orgID == "" {
		orgID = SentinelOrgID
	}
	if userID == "" {
		userID = tenant.UserID(ctx)
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		OrgID:     orgID,
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.slog.ErrorContext(ctx, "writing audit event",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.String("error", err.Error()))
	}
}
