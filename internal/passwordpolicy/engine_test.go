package passwordpolicy

import (
	"context"
	"testing"
	"time"

	"saas-control-plane/backend/internal/passwordpolicy/domain"
)

func hasRule(v Verdict, r Rule) bool {
	for _, viol := range v.Violations {
		if viol.Rule == r {
			return true
		}
	}
	return false
}

func TestEvaluate_Accepted(t *testing.T) {
	v := Evaluate("Str0ng!Passw0rd#", domain.Default(), UserContext{})
	if !v.OK() {
		t.Errorf("expected accepted, got violations %v", v.Violations)
	}
}

func TestEvaluate_ListsEveryViolation(t *testing.T) {
	// Too short and missing a digit: both must be reported, not just the first.
	p := domain.Default()
	v := Evaluate("Ab!", p, UserContext{})
	if v.OK() {
		t.Fatal("expected violations")
	}
	if !hasRule(v, RuleTooShort) {
		t.Error("missing too_short violation")
	}
	if !hasRule(v, RuleMissingDigit) {
		t.Error("missing missing_digit violation")
	}
}

func TestEvaluate_CharacterClasses(t *testing.T) {
	p := &domain.Policy{MinLength: 4, RequireUpper: true, RequireLower: true, RequireDigit: true, RequireSpecial: true}
	v := Evaluate("abcdefgh", p, UserContext{})
	for _, r := range []Rule{RuleMissingUpper, RuleMissingDigit, RuleMissingSpecial} {
		if !hasRule(v, r) {
			t.Errorf("missing %s violation", r)
		}
	}
	if hasRule(v, RuleMissingLower) {
		t.Error("unexpected missing_lowercase violation")
	}
}

func TestEvaluate_MinSpecialCount(t *testing.T) {
	p := &domain.Policy{MinLength: 4, RequireSpecial: true, MinSpecialCount: 2}
	if v := Evaluate("abc!defg", p, UserContext{}); !hasRule(v, RuleTooFewSpecial) {
		t.Error("expected too_few_special with one special char")
	}
	if v := Evaluate("ab!c#defg", p, UserContext{}); !v.OK() {
		t.Errorf("expected accepted with two special chars, got %v", v.Violations)
	}
}

func TestEvaluate_RunLength(t *testing.T) {
	p := &domain.Policy{MinLength: 4, MaxRunLength: 3}
	if v := Evaluate("xaaaax!7Q", p, UserContext{}); !hasRule(v, RuleCharacterRun) {
		t.Error("expected character_run for 'aaaa'")
	}
	if v := Evaluate("x1234x!Q", p, UserContext{}); !hasRule(v, RuleCharacterRun) {
		t.Error("expected character_run for sequential '1234'")
	}
	if v := Evaluate("xaaax!7Q", p, UserContext{}); hasRule(v, RuleCharacterRun) {
		t.Error("run of 3 should be allowed with MaxRunLength=3")
	}
}

func TestEvaluate_DisallowedList(t *testing.T) {
	p := &domain.Policy{MinLength: 4, DisallowedPasswords: []string{"Password123!"}}
	if v := Evaluate("password123!", p, UserContext{}); !hasRule(v, RuleDisallowed) {
		t.Error("disallowed list match should be case-insensitive")
	}
}

func TestEvaluate_UserInfo(t *testing.T) {
	p := &domain.Policy{MinLength: 4, ForbidUserInfo: true}
	user := UserContext{Name: "Ada Lovelace", Email: "ada.l@example.com"}
	if v := Evaluate("xxLovelace9!", p, user); !hasRule(v, RuleContainsUserInfo) {
		t.Error("expected contains_user_info for name token")
	}
	if v := Evaluate("xxada.l42!", p, user); !hasRule(v, RuleContainsUserInfo) {
		t.Error("expected contains_user_info for email local-part")
	}
	if v := Evaluate("unrelated42!X", p, user); hasRule(v, RuleContainsUserInfo) {
		t.Errorf("unexpected contains_user_info: %v", v.Violations)
	}
}

func TestCheckLockout(t *testing.T) {
	p := domain.Default()
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	if st := CheckLockout(0, nil, p, now); st.Locked {
		t.Error("no lockout timestamp should not be locked")
	}

	until := now.Add(10 * time.Minute)
	st := CheckLockout(p.MaxFailedAttempts, &until, p, now)
	if !st.Locked {
		t.Fatal("expected locked")
	}
	if st.Remaining != 10*time.Minute {
		t.Errorf("remaining = %v, want 10m", st.Remaining)
	}

	past := now.Add(-time.Minute)
	if st := CheckLockout(p.MaxFailedAttempts, &past, p, now); st.Locked {
		t.Error("elapsed lockout window should not be locked")
	}
}

type memPolicyRepo struct {
	m map[string]*domain.Policy
}

func (r *memPolicyRepo) GetByOrg(ctx context.Context, orgID string) (*domain.Policy, error) {
	return r.m[orgID], nil
}

func (r *memPolicyRepo) Upsert(ctx context.Context, p *domain.Policy) error {
	r.m[p.OrgID] = p
	return nil
}

func TestResolver_Precedence(t *testing.T) {
	org := &domain.Policy{OrgID: "org1", MinLength: 20, Active: true}
	inactive := &domain.Policy{OrgID: "org2", MinLength: 6, Active: false}
	r := NewResolver(&memPolicyRepo{m: map[string]*domain.Policy{"org1": org, "org2": inactive}})

	got, err := r.Resolve(context.Background(), "org1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.MinLength != 20 {
		t.Errorf("org policy not used: MinLength = %d", got.MinLength)
	}

	got, err = r.Resolve(context.Background(), "org2")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got.MinLength != domain.Default().MinLength {
		t.Error("inactive org policy must fall back to default")
	}

	got, err = r.Resolve(context.Background(), "org3")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got == nil {
		t.Fatal("resolution must never yield no policy")
	}
}
