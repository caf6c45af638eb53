package security

import (
	"strings"
	"testing"
)

func TestHashRefreshTokenIsStable(t *testing.T) {
	token := "rt_9f2c1aab"
	if HashRefreshToken(token) != HashRefreshToken(token) {
		t.Error("same token must hash to the same digest")
	}
	if got := len(HashRefreshToken(token)); got != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", got)
	}
	if HashRefreshToken("rt_a") == HashRefreshToken("rt_b") {
		t.Error("distinct tokens collided")
	}
}

func TestRefreshTokenHashEqual(t *testing.T) {
	token := "rt_match_me"
	stored := HashRefreshToken(token)

	if !RefreshTokenHashEqual(token, stored) {
		t.Error("correct token should match its stored digest")
	}
	if RefreshTokenHashEqual("rt_other", stored) {
		t.Error("wrong token must not match")
	}
}

func TestRefreshTokenHashEqualRejectsMalformedStored(t *testing.T) {
	token := "rt_victim"
	stored := HashRefreshToken(token)

	cases := []struct {
		name   string
		stored string
	}{
		{"empty", ""},
		{"not hex", "zz" + stored[2:]},
		{"truncated", stored[:32]},
		{"extended", stored + "00"},
		{"all zeros", strings.Repeat("0", 64)},
		{"upper-cased garbage", strings.Repeat("G", 64)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if RefreshTokenHashEqual(token, tc.stored) {
				t.Errorf("stored %q must not match", tc.stored)
			}
		})
	}
}
