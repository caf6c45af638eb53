package mfa

import (
	"testing"
	"time"
)

func TestGenerateOTP_SixDigits(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("GenerateOTP: %v", err)
	}
	if len(otp) != 6 {
		t.Errorf("OTP length = %d, want 6", len(otp))
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("OTP contains non-digit: %c", c)
		}
	}
}

func TestOTPEqual(t *testing.T) {
	hash := HashOTP("123456")
	if !OTPEqual("123456", hash) {
		t.Error("matching OTP should compare equal")
	}
	if OTPEqual("654321", hash) {
		t.Error("wrong OTP should not compare equal")
	}
	if OTPEqual("", hash) {
		t.Error("empty OTP should not compare equal")
	}
}

func TestGenerateBackupCodes(t *testing.T) {
	plain, rows, err := GenerateBackupCodes("u1", time.Now().UTC())
	if err != nil {
		t.Fatalf("GenerateBackupCodes: %v", err)
	}
	if len(plain) != backupCodeCount || len(rows) != backupCodeCount {
		t.Fatalf("got %d/%d codes, want %d", len(plain), len(rows), backupCodeCount)
	}
	seen := make(map[string]bool)
	for i, code := range plain {
		if seen[code] {
			t.Errorf("duplicate code %q", code)
		}
		seen[code] = true
		if rows[i].CodeHash != HashOTP(normalizeBackupCode(code)) {
			t.Errorf("row %d hash does not match its plaintext code", i)
		}
		if rows[i].UsedAt != nil {
			t.Errorf("row %d should start unused", i)
		}
	}
}

func TestNormalizeBackupCode(t *testing.T) {
	if got := normalizeBackupCode(" abcde-23456 "); got != "ABCDE23456" {
		t.Errorf("normalizeBackupCode = %q, want ABCDE23456", got)
	}
}
