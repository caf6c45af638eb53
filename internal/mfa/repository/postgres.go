package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"saas-control-plane/backend/internal/mfa/domain"
)

const settingsColumns = `user_id, org_id, method, enabled, is_default, secret, phone, email,
	failed_attempts, locked_until, last_used_at, created_at, updated_at`

// PostgresSettingsRepository persists MFA settings, one row per (user, method).
type PostgresSettingsRepository struct {
	db *sql.DB
}

// NewPostgresSettingsRepository returns a settings repository backed by the given db.
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// GetByUserAndMethod returns the settings row, or nil if not found.
func (r *PostgresSettingsRepository) GetByUserAndMethod(ctx context.Context, userID string, method domain.Method) (*domain.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settingsColumns+` FROM mfa_settings WHERE user_id = $1 AND method = $2`,
		userID, method)
	var s domain.Settings
	err := row.Scan(&s.UserID, &s.OrgID, &s.Method, &s.Enabled, &s.Default, &s.Secret,
		&s.Phone, &s.Email, &s.FailedAttempts, &s.LockedUntil, &s.LastUsedAt,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// ListEnabledByUser returns the user's enabled methods.
func (r *PostgresSettingsRepository) ListEnabledByUser(ctx context.Context, userID string) ([]*domain.Settings, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+settingsColumns+` FROM mfa_settings WHERE user_id = $1 AND enabled ORDER BY method`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Settings
	for rows.Next() {
		var s domain.Settings
		if err := rows.Scan(&s.UserID, &s.OrgID, &s.Method, &s.Enabled, &s.Default,
			&s.Secret, &s.Phone, &s.Email, &s.FailedAttempts, &s.LockedUntil,
			&s.LastUsedAt, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// Upsert creates or replaces the (user, method) settings row.
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, s *domain.Settings) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mfa_settings (`+settingsColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, method) DO UPDATE SET
			org_id = EXCLUDED.org_id, enabled = EXCLUDED.enabled,
			is_default = EXCLUDED.is_default, secret = EXCLUDED.secret,
			phone = EXCLUDED.phone, email = EXCLUDED.email,
			failed_attempts = EXCLUDED.failed_attempts,
			locked_until = EXCLUDED.locked_until, updated_at = EXCLUDED.updated_at`,
		s.UserID, s.OrgID, s.Method, s.Enabled, s.Default, s.Secret, s.Phone, s.Email,
		s.FailedAttempts, s.LockedUntil, s.LastUsedAt, s.CreatedAt, s.UpdatedAt)
	return err
}

// IncrementFailedAttempts atomically bumps the counter and returns the new value.
func (r *PostgresSettingsRepository) IncrementFailedAttempts(ctx context.Context, userID string, method domain.Method, at time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		UPDATE mfa_settings SET failed_attempts = failed_attempts + 1, updated_at = $3
		WHERE user_id = $1 AND method = $2
		RETURNING failed_attempts`,
		userID, method, at).Scan(&n)
	return n, err
}

// ResetFailedAttempts zeroes the counter and clears the lockout timestamp.
func (r *PostgresSettingsRepository) ResetFailedAttempts(ctx context.Context, userID string, method domain.Method, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE mfa_settings SET failed_attempts = 0, locked_until = NULL, updated_at = $3
		WHERE user_id = $1 AND method = $2`,
		userID, method, at)
	return err
}

// SetLocked sets the lockout-until timestamp.
func (r *PostgresSettingsRepository) SetLocked(ctx context.Context, userID string, method domain.Method, until time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE mfa_settings SET locked_until = $3 WHERE user_id = $1 AND method = $2`,
		userID, method, until)
	return err
}

// SetLastUsed records a successful verification.
func (r *PostgresSettingsRepository) SetLastUsed(ctx context.Context, userID string, method domain.Method, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE mfa_settings SET last_used_at = $3, updated_at = $3 WHERE user_id = $1 AND method = $2`,
		userID, method, at)
	return err
}

// ClearDefault unsets the default flag on all of the user's methods.
func (r *PostgresSettingsRepository) ClearDefault(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE mfa_settings SET is_default = false WHERE user_id = $1`, userID)
	return err
}

// PostgresBackupCodeRepository persists hashed single-use backup codes.
type PostgresBackupCodeRepository struct {
	db *sql.DB
}

// NewPostgresBackupCodeRepository returns a backup code repository backed by the given db.
func NewPostgresBackupCodeRepository(db *sql.DB) *PostgresBackupCodeRepository {
	return &PostgresBackupCodeRepository{db: db}
}

// ListUnused returns the user's unconsumed codes.
func (r *PostgresBackupCodeRepository) ListUnused(ctx context.Context, userID string) ([]*domain.BackupCode, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, code_hash, used_at, created_at
		FROM mfa_backup_codes WHERE user_id = $1 AND used_at IS NULL`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.BackupCode
	for rows.Next() {
		var c domain.BackupCode
		if err := rows.Scan(&c.ID, &c.UserID, &c.CodeHash, &c.UsedAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Replace swaps the user's code set for a fresh one in a single transaction.
func (r *PostgresBackupCodeRepository) Replace(ctx context.Context, userID string, codes []*domain.BackupCode) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM mfa_backup_codes WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, c := range codes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO mfa_backup_codes (id, user_id, code_hash, used_at, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.UserID, c.CodeHash, c.UsedAt, c.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Consume marks the code used. The `used_at IS NULL` guard makes double consumption
// impossible under concurrent attempts: exactly one caller sees true.
func (r *PostgresBackupCodeRepository) Consume(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE mfa_backup_codes SET used_at = $2 WHERE id = $1 AND used_at IS NULL`,
		id, at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// PostgresAttemptRepository persists the append-only attempt audit log.
type PostgresAttemptRepository struct {
	db *sql.DB
}

// NewPostgresAttemptRepository returns an attempt repository backed by the given db.
func NewPostgresAttemptRepository(db *sql.DB) *PostgresAttemptRepository {
	return &PostgresAttemptRepository{db: db}
}

// Create appends one attempt row.
func (r *PostgresAttemptRepository) Create(ctx context.Context, a *domain.Attempt) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO mfa_attempts (id, user_id, org_id, method, code_hash, success,
			failure_reason, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.OrgID, a.Method, a.CodeHash, a.Success, a.FailureReason,
		a.IPAddress, a.UserAgent, a.CreatedAt)
	return err
}

// ListByUser returns the user's attempts, newest first.
func (r *PostgresAttemptRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.Attempt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, org_id, method, code_hash, success, failure_reason,
			ip_address, user_agent, created_at
		FROM mfa_attempts WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Attempt
	for rows.Next() {
		var a domain.Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.OrgID, &a.Method, &a.CodeHash,
			&a.Success, &a.FailureReason, &a.IPAddress, &a.UserAgent, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// DeleteBefore prunes the org's attempts older than cutoff.
func (r *PostgresAttemptRepository) DeleteBefore(ctx context.Context, orgID string, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM mfa_attempts WHERE org_id = $1 AND created_at < $2`, orgID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
