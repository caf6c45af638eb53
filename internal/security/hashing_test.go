package security

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasherRoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	password := []byte("Str0ng!Passw0rd#1")

	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty string")
	}
	if err := h.Compare(hash, password); err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong")); !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		t.Fatalf("Compare with wrong password: got %v", err)
	}
}

func TestHasherRejectsOverlongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	long := bytes.Repeat([]byte("a"), maxPasswordBytes+1)
	if _, err := h.Hash(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("Hash of %d bytes: got %v, want ErrPasswordTooLong", len(long), err)
	}
	// Exactly at the limit is still fine.
	if _, err := h.Hash(long[:maxPasswordBytes]); err != nil {
		t.Fatalf("Hash of %d bytes: %v", maxPasswordBytes, err)
	}
}

func TestNewHasherClampsCost(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, bcrypt.DefaultCost},
		{-5, bcrypt.DefaultCost},
		{2, bcrypt.MinCost},
		{12, 12},
		{99, bcrypt.MaxCost},
	}
	for _, tc := range cases {
		if got := NewHasher(tc.in).Cost; got != tc.want {
			t.Errorf("NewHasher(%d).Cost = %d, want %d", tc.in, got, tc.want)
		}
	}
}
