package mfa

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"saas-control-plane/backend/internal/mfa/domain"
)

const (
	backupCodeCount  = 10
	backupCodeLength = 10
)

// backup code alphabet excludes ambiguous characters (0/O, 1/I/L).
const backupAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// GenerateBackupCodes returns a fresh set of plaintext codes (to show the user
// exactly once) and the corresponding hashed rows to persist.
func GenerateBackupCodes(userID string, now time.Time) (plain []string, rows []*domain.BackupCode, err error) {
	plain = make([]string, 0, backupCodeCount)
	rows = make([]*domain.BackupCode, 0, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		code, err := randomBackupCode()
		if err != nil {
			return nil, nil, err
		}
		plain = append(plain, code)
		rows = append(rows, &domain.BackupCode{
			ID:        uuid.NewString(),
			UserID:    userID,
			CodeHash:  HashOTP(normalizeBackupCode(code)),
			CreatedAt: now,
		})
	}
	return plain, rows, nil
}

func randomBackupCode() (string, error) {
	b := make([]byte, backupCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, c := range b {
		if i == backupCodeLength/2 {
			sb.WriteByte('-')
		}
		sb.WriteByte(backupAlphabet[int(c)%len(backupAlphabet)])
	}
	return sb.String(), nil
}

// normalizeBackupCode strips the display hyphen and upcases so user input
// matches regardless of formatting.
func normalizeBackupCode(code string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(code), "-", ""))
}
