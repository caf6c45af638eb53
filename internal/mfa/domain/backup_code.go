package domain

import "time"

// BackupCode is one pre-generated single-use recovery code, stored hashed. A consumed
// code (UsedAt non-nil) can never verify again.
type BackupCode struct {
	ID        string
	UserID    string
	CodeHash  string
	UsedAt    *time.Time
	CreatedAt time.Time
}
