package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"saas-control-plane/backend/internal/session/domain"
)

const sessionColumns = `id, user_id, org_id, device_name, user_agent, ip_address,
	created_at, last_seen_at, expires_at, active, revoked_at, refresh_jti, refresh_token_hash`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = $1`, id)
	return scanSession(row)
}

// FindActive returns the active session for id, additionally filtered by org when orgID
// is non-empty. Missing, revoked, and wrong-org sessions all return (nil, nil).
func (r *PostgresRepository) FindActive(ctx context.Context, id, orgID string) (*domain.Session, error) {
	q := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND active`
	args := []interface{}{id}
	if orgID != "" {
		q += ` AND org_id = $2`
		args = append(args, orgID)
	}
	row := r.db.QueryRowContext(ctx, q, args...)
	return scanSession(row)
}

// Create persists the session to the database. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		s.ID, s.UserID, s.OrgID, s.DeviceName, s.UserAgent, s.IPAddress,
		s.CreatedAt, s.LastSeenAt, s.ExpiresAt, s.Active, s.RevokedAt,
		nullString(s.RefreshJti), nullString(s.RefreshTokenHash),
	)
	return err
}

// Deactivate marks the session inactive with the given timestamp. The `AND active`
// guard makes concurrent duplicate deactivations a no-op rather than an error.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET active = false, revoked_at = $2 WHERE id = $1 AND active`,
		id, at,
	)
	return err
}

// Revoke marks the session with the given id as revoked.
func (r *PostgresRepository) Revoke(ctx context.Context, id string, at time.Time) error {
	return r.Deactivate(ctx, id, at)
}

// RevokeAllByUser revokes all active sessions for the given user across orgs.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET active = false, revoked_at = $2 WHERE user_id = $1 AND active`,
		userID, at,
	)
	return err
}

// UpdateLastSeen sets the session's last-seen timestamp for the given id.
func (r *PostgresRepository) UpdateLastSeen(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET last_seen_at = $2 WHERE id = $1`, id, at)
	return err
}

// UpdateRefreshToken sets the session's current refresh token jti and hash for rotation.
func (r *PostgresRepository) UpdateRefreshToken(ctx context.Context, sessionID, jti, refreshTokenHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET refresh_jti = $2, refresh_token_hash = $3 WHERE id = $1`,
		sessionID, nullString(jti), nullString(refreshTokenHash))
	return err
}

// ListByUserAndOrg returns all sessions for the given user and org.
func (r *PostgresRepository) ListByUserAndOrg(ctx context.Context, userID, orgID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = $1 AND org_id = $2 ORDER BY created_at DESC`,
		userID, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Session
	for rows.Next() {
		s, err := scanSessionRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteInactiveBefore hard-deletes inactive sessions of the org revoked before cutoff.
func (r *PostgresRepository) DeleteInactiveBefore(ctx context.Context, orgID string, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE org_id = $1 AND NOT active AND revoked_at < $2`,
		orgID, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFields(s *domain.Session) (fields []interface{}, jti, hash *sql.NullString) {
	jti = &sql.NullString{}
	hash = &sql.NullString{}
	fields = []interface{}{
		&s.ID, &s.UserID, &s.OrgID, &s.DeviceName, &s.UserAgent, &s.IPAddress,
		&s.CreatedAt, &s.LastSeenAt, &s.ExpiresAt, &s.Active, &s.RevokedAt, jti, hash,
	}
	return fields, jti, hash
}

func scanSession(row *sql.Row) (*domain.Session, error) {
	var s domain.Session
	fields, jti, hash := scanFields(&s)
	if err := row.Scan(fields...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.RefreshJti = jti.String
	s.RefreshTokenHash = hash.String
	return &s, nil
}

func scanSessionRows(rows *sql.Rows) (*domain.Session, error) {
	var s domain.Session
	fields, jti, hash := scanFields(&s)
	if err := rows.Scan(fields...); err != nil {
		return nil, err
	}
	s.RefreshJti = jti.String
	s.RefreshTokenHash = hash.String
	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
