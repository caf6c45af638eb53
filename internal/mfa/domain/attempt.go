package domain

import "time"

// Attempt is an append-only audit record of one verification try. Never mutated after
// creation.
type Attempt struct {
	ID            string
	UserID        string
	OrgID         string
	Method        Method
	CodeHash      string // hash of the supplied code; raw codes are never persisted
	Success       bool
	FailureReason string // internal taxonomy; not surfaced to the caller
	IPAddress     string
	UserAgent     string
	CreatedAt     time.Time
}

// Internal failure reasons recorded on attempts. Callers only ever see the generic
// invalid-code error; these exist for audit queries.
const (
	FailureNone         = ""
	FailureLocked       = "locked"
	FailureNotEnrolled  = "method_not_enrolled"
	FailureCodeMismatch = "code_mismatch"
	FailureCodeExpired  = "code_expired"
	FailureCodeConsumed = "code_consumed"
)
