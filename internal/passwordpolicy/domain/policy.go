package domain

import "time"

// Policy holds password and lockout rules for one organization, or the platform
// default when OrgID is empty. Exactly one policy resolves per org at evaluation time:
// the org's own active policy if present, else the platform default.
type Policy struct {
	OrgID               string
	MinLength           int
	MaxLength           int // 0 = no upper bound
	RequireUpper        bool
	RequireLower        bool
	RequireDigit        bool
	RequireSpecial      bool
	MinSpecialCount     int
	MaxRunLength        int // longest allowed run of identical or sequential characters; 0 = unlimited
	HistoryDepth        int
	MaxFailedAttempts   int
	LockoutDuration     time.Duration
	ExpiryDays          int
	DisallowedPasswords []string
	ForbidUserInfo      bool
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Default returns the platform default policy. Always available, so policy resolution
// never yields "no policy".
func Default() *Policy {
	return &Policy{
		MinLength:         12,
		MaxLength:         72, // bcrypt input limit
		RequireUpper:      true,
		RequireLower:      true,
		RequireDigit:      true,
		RequireSpecial:    true,
		MinSpecialCount:   1,
		MaxRunLength:      3,
		HistoryDepth:      5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		ExpiryDays:        0,
		ForbidUserInfo:    true,
		Active:            true,
	}
}
