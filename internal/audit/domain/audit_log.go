package domain

import "time"

// AuditLog represents an audit event.
type AuditLog struct {
	ID        string
	OrgID     string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}

// Actions recorded by the authentication pipeline.
const (
	ActionLoginSuccess   = "login_success"
	ActionLoginFailure   = "login_failure"
	ActionLoginLocked    = "login_locked"
	ActionMFAChallenge   = "mfa_challenge"
	ActionMFAVerify      = "mfa_verify"
	ActionMFAFailure     = "mfa_failure"
	ActionLogout         = "logout"
	ActionSessionRevoked = "session_revoked"
	ActionTokenReuse     = "refresh_token_reuse"
)
