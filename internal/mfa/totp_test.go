package mfa

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
)

func totpCodeAt(t *testing.T, secret string, at time.Time) string {
	t.Helper()
	code, err := totp.GenerateCode(secret, at)
	if err != nil {
		t.Fatalf("generating totp code: %v", err)
	}
	return code
}

func TestValidateTOTP_AcceptsCurrentWindow(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("control-plane-test", "u1@example.test")
	if err != nil {
		t.Fatalf("GenerateTOTPSecret: %v", err)
	}
	if url == "" {
		t.Error("provisioning URL should not be empty")
	}

	now := time.Date(2026, 3, 1, 12, 0, 15, 0, time.UTC)
	if !ValidateTOTP(totpCodeAt(t, secret, now), secret, now) {
		t.Error("current-window code should validate")
	}
}

func TestValidateTOTP_SkewTolerance(t *testing.T) {
	secret, _, err := GenerateTOTPSecret("control-plane-test", "u1@example.test")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 15, 0, time.UTC)

	if !ValidateTOTP(totpCodeAt(t, secret, now.Add(-totpPeriod*time.Second)), secret, now) {
		t.Error("previous-window code should validate within skew")
	}
	if !ValidateTOTP(totpCodeAt(t, secret, now.Add(totpPeriod*time.Second)), secret, now) {
		t.Error("next-window code should validate within skew")
	}
	if ValidateTOTP(totpCodeAt(t, secret, now.Add(-3*totpPeriod*time.Second)), secret, now) {
		t.Error("code three windows old should not validate")
	}
}

func TestValidateTOTP_RejectsGarbage(t *testing.T) {
	secret, _, err := GenerateTOTPSecret("control-plane-test", "u1@example.test")
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	if ValidateTOTP("abcdef", secret, now) {
		t.Error("non-numeric code should not validate")
	}
	if ValidateTOTP("", secret, now) {
		t.Error("empty code should not validate")
	}
}
