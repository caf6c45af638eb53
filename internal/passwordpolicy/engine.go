// Package passwordpolicy evaluates candidate passwords and login lockout state against
// the policy resolved for an organization. Evaluation is synchronous and side-effect
// free; callers persist counters and lockout timestamps themselves.
package passwordpolicy

import (
	"fmt"
	"strings"
	"time"

	"saas-control-plane/backend/internal/passwordpolicy/domain"
)

// Rule identifies one violated policy rule in a Verdict.
type Rule string

const (
	RuleTooShort         Rule = "too_short"
	RuleTooLong          Rule = "too_long"
	RuleMissingUpper     Rule = "missing_uppercase"
	RuleMissingLower     Rule = "missing_lowercase"
	RuleMissingDigit     Rule = "missing_digit"
	RuleMissingSpecial   Rule = "missing_special"
	RuleTooFewSpecial    Rule = "too_few_special"
	RuleCharacterRun     Rule = "character_run"
	RuleDisallowed       Rule = "disallowed_password"
	RuleContainsUserInfo Rule = "contains_user_info"
)

// Violation pairs a rule with a human-readable description. Descriptions are specific
// and actionable: policy violations are client-fixable configuration errors.
type Violation struct {
	Rule    Rule   `json:"rule"`
	Message string `json:"message"`
}

// Verdict is the outcome of Evaluate: accepted, or every violated rule (not just the first).
type Verdict struct {
	Violations []Violation `json:"violations,omitempty"`
}

// OK reports whether the candidate satisfied every rule.
func (v Verdict) OK() bool { return len(v.Violations) == 0 }

// UserContext carries user-identifying values checked when ForbidUserInfo is set.
type UserContext struct {
	Name  string
	Email string
}

// Evaluate checks candidate against every rule of policy and returns the full list of
// violations. A nil policy evaluates against the platform default.
func Evaluate(candidate string, policy *domain.Policy, user UserContext) Verdict {
	if policy == nil {
		policy = domain.Default()
	}
	var v Verdict
	add := func(r Rule, format string, args ...interface{}) {
		v.Violations = append(v.Violations, Violation{Rule: r, Message: fmt.Sprintf(format, args...)})
	}

	runes := []rune(candidate)
	if len(runes) < policy.MinLength {
		add(RuleTooShort, "password must be at least %d characters", policy.MinLength)
	}
	if policy.MaxLength > 0 && len(runes) > policy.MaxLength {
		add(RuleTooLong, "password must be at most %d characters", policy.MaxLength)
	}

	var upper, lower, digit, special int
	for _, r := range runes {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		case r >= '0' && r <= '9':
			digit++
		default:
			special++
		}
	}
	if policy.RequireUpper && upper == 0 {
		add(RuleMissingUpper, "password must contain at least one uppercase letter")
	}
	if policy.RequireLower && lower == 0 {
		add(RuleMissingLower, "password must contain at least one lowercase letter")
	}
	if policy.RequireDigit && digit == 0 {
		add(RuleMissingDigit, "password must contain at least one digit")
	}
	if policy.RequireSpecial && special == 0 {
		add(RuleMissingSpecial, "password must contain at least one special character")
	} else if policy.MinSpecialCount > 1 && special < policy.MinSpecialCount {
		add(RuleTooFewSpecial, "password must contain at least %d special characters", policy.MinSpecialCount)
	}

	if policy.MaxRunLength > 0 {
		if n := longestRun(runes); n > policy.MaxRunLength {
			add(RuleCharacterRun, "password must not contain more than %d identical or sequential characters in a row", policy.MaxRunLength)
		}
	}

	lowered := strings.ToLower(candidate)
	for _, bad := range policy.DisallowedPasswords {
		if lowered == strings.ToLower(bad) {
			add(RuleDisallowed, "password is on the disallowed list")
			break
		}
	}

	if policy.ForbidUserInfo {
		if part := userInfoContained(lowered, user); part != "" {
			add(RuleContainsUserInfo, "password must not contain %q", part)
		}
	}

	return v
}

// longestRun returns the length of the longest run of identical or sequential
// (ascending by one codepoint, e.g. "abcd", "1234") characters.
func longestRun(runes []rune) int {
	if len(runes) == 0 {
		return 0
	}
	longest, same, seq := 1, 1, 1
	for i := 1; i < len(runes); i++ {
		if runes[i] == runes[i-1] {
			same++
		} else {
			same = 1
		}
		if runes[i] == runes[i-1]+1 {
			seq++
		} else {
			seq = 1
		}
		if same > longest {
			longest = same
		}
		if seq > longest {
			longest = seq
		}
	}
	return longest
}

// userInfoContained returns the user-identifying fragment found in the lowered
// candidate, or "". Checked fragments: name tokens and the email local-part, each at
// least 3 characters to avoid false positives on initials.
func userInfoContained(lowered string, user UserContext) string {
	var fragments []string
	for _, tok := range strings.Fields(user.Name) {
		fragments = append(fragments, tok)
	}
	if at := strings.IndexByte(user.Email, '@'); at > 0 {
		fragments = append(fragments, user.Email[:at])
	}
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if len(f) >= 3 && strings.Contains(lowered, f) {
			return f
		}
	}
	return ""
}

// LockoutState is the outcome of CheckLockout.
type LockoutState struct {
	Locked    bool
	Remaining time.Duration
}

// CheckLockout reports whether an account with the given failed-attempt counter and
// lockout-until timestamp is currently locked under policy, and the remaining duration
// if so. lockedUntil may be nil (never locked).
func CheckLockout(failedCount int, lockedUntil *time.Time, policy *domain.Policy, now time.Time) LockoutState {
	if policy == nil {
		policy = domain.Default()
	}
	if lockedUntil != nil && lockedUntil.After(now) {
		return LockoutState{Locked: true, Remaining: lockedUntil.Sub(now)}
	}
	// The window elapsed or never started. A counter at/over threshold without a live
	// lockout window means the window expired; the caller resets the counter on the
	// next outcome.
	_ = failedCount
	return LockoutState{}
}
