// Package codestore holds hashed one-time codes for challengeable MFA methods
// (sms, email) between delivery and verification. Codes are stored hashed and
// expire after the challenge TTL.
package codestore

import (
	"context"
	"time"
)

// Store keeps the hashed code for a pending (user, method) challenge.
type Store interface {
	// Put stores the code hash for the user/method pair, replacing any pending
	// challenge, until expiresAt.
	Put(ctx context.Context, userID, method, codeHash string, expiresAt time.Time) error
	// Get returns the pending code hash. ok is false if there is no pending
	// challenge or it has expired.
	Get(ctx context.Context, userID, method string) (codeHash string, ok bool, err error)
	// Delete removes the pending challenge. Called after a successful
	// verification so a code cannot be replayed.
	Delete(ctx context.Context, userID, method string) error
}

func key(userID, method string) string {
	return userID + ":" + method
}
