package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"saas-control-plane/backend/internal/passwordpolicy/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a password policy repository backed by the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByOrg returns the policy row for orgID, or nil if the org has none.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByOrg(ctx context.Context, orgID string) (*domain.Policy, error) {
	var (
		p          domain.Policy
		lockoutSec int64
		disallowed sql.NullString
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT org_id, min_length, max_length, require_upper, require_lower, require_digit,
			require_special, min_special_count, max_run_length, history_depth,
			max_failed_attempts, lockout_seconds, expiry_days, disallowed_passwords,
			forbid_user_info, active, created_at, updated_at
		FROM password_policies WHERE org_id = $1`, orgID).
		Scan(&p.OrgID, &p.MinLength, &p.MaxLength, &p.RequireUpper, &p.RequireLower,
			&p.RequireDigit, &p.RequireSpecial, &p.MinSpecialCount, &p.MaxRunLength,
			&p.HistoryDepth, &p.MaxFailedAttempts, &lockoutSec, &p.ExpiryDays,
			&disallowed, &p.ForbidUserInfo, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.LockoutDuration = time.Duration(lockoutSec) * time.Second
	if disallowed.Valid && disallowed.String != "" {
		p.DisallowedPasswords = strings.Split(disallowed.String, "\n")
	}
	return &p, nil
}

// Upsert creates or replaces the org's policy row.
func (r *PostgresRepository) Upsert(ctx context.Context, p *domain.Policy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_policies (org_id, min_length, max_length, require_upper,
			require_lower, require_digit, require_special, min_special_count,
			max_run_length, history_depth, max_failed_attempts, lockout_seconds,
			expiry_days, disallowed_passwords, forbid_user_info, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (org_id) DO UPDATE SET
			min_length = EXCLUDED.min_length, max_length = EXCLUDED.max_length,
			require_upper = EXCLUDED.require_upper, require_lower = EXCLUDED.require_lower,
			require_digit = EXCLUDED.require_digit, require_special = EXCLUDED.require_special,
			min_special_count = EXCLUDED.min_special_count, max_run_length = EXCLUDED.max_run_length,
			history_depth = EXCLUDED.history_depth, max_failed_attempts = EXCLUDED.max_failed_attempts,
			lockout_seconds = EXCLUDED.lockout_seconds, expiry_days = EXCLUDED.expiry_days,
			disallowed_passwords = EXCLUDED.disallowed_passwords,
			forbid_user_info = EXCLUDED.forbid_user_info, active = EXCLUDED.active,
			updated_at = EXCLUDED.updated_at`,
		p.OrgID, p.MinLength, p.MaxLength, p.RequireUpper, p.RequireLower, p.RequireDigit,
		p.RequireSpecial, p.MinSpecialCount, p.MaxRunLength, p.HistoryDepth,
		p.MaxFailedAttempts, int64(p.LockoutDuration/time.Second), p.ExpiryDays,
		strings.Join(p.DisallowedPasswords, "\n"), p.ForbidUserInfo, p.Active,
		p.CreatedAt, p.UpdatedAt)
	return err
}
