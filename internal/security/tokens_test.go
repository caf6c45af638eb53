package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAccessAndRefresh(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	id := Identity{UserID: "u1", OrgID: "o1", SessionID: "s1", Name: "Ada", Email: "ada@example.com"}

	access, accessJti, exp, err := p.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	if access == "" || accessJti == "" {
		t.Fatal("access token or jti empty")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expires at in the past")
	}

	refresh, jti, refreshExp, err := p.IssueRefresh(id.SessionID, id.UserID, id.OrgID)
	if err != nil {
		t.Fatalf("IssueRefresh: %v", err)
	}
	if refresh == "" || jti == "" {
		t.Fatal("refresh token or jti empty")
	}
	if refreshExp.Before(time.Now()) {
		t.Fatal("refresh expires at in the past")
	}

	sid, jti2, uid, oid, err := p.ValidateRefresh(refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh: %v", err)
	}
	if sid != id.SessionID || jti2 != jti || uid != id.UserID || oid != id.OrgID {
		t.Errorf("ValidateRefresh: got sessionID=%q jti=%q userID=%q orgID=%q", sid, jti2, uid, oid)
	}
}

func TestTokenProvider_ValidateRefreshInvalid(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	_, _, _, _, err = p.ValidateRefresh("invalid-token")
	if err != ErrInvalidToken {
		t.Errorf("ValidateRefresh invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateAccess(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	want := Identity{UserID: "u1", OrgID: "o1", SessionID: "s1", Name: "Ada", Email: "ada@example.com"}
	access, _, _, err := p.IssueAccess(want)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	got, err := p.ValidateAccess(access)
	if err != nil {
		t.Fatalf("ValidateAccess: %v", err)
	}
	if *got != want {
		t.Errorf("ValidateAccess: got %+v, want %+v", got, want)
	}
}

func TestTokenProvider_ValidateAccessInvalid(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	_, err = p.ValidateAccess("invalid-token")
	if err != ErrInvalidToken {
		t.Errorf("ValidateAccess invalid token: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_VerifyClaims(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	id := Identity{UserID: "u1", OrgID: "o1", SessionID: "s1", Email: "ada@example.com"}
	access, _, _, err := p.IssueAccess(id)
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := p.VerifyClaims(access)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	if claims[ClaimUserID] != "u1" || claims[ClaimOrgID] != "o1" || claims[ClaimSessionID] != "s1" {
		t.Errorf("VerifyClaims: got %v", claims)
	}
	if _, ok := claims[ClaimName]; ok {
		t.Error("VerifyClaims: empty name should be omitted")
	}
}

func TestTokenProvider_VerifyClaims_NoTenant(t *testing.T) {
	p, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	access, _, _, err := p.IssueAccess(Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("IssueAccess: %v", err)
	}
	claims, err := p.VerifyClaims(access)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	if _, ok := claims[ClaimOrgID]; ok {
		t.Error("VerifyClaims: empty org_id should be omitted")
	}
}
