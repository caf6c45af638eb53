package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"saas-control-plane/backend/internal/loginintent/domain"
)

const intentColumns = `id, user_id, org_id, device_name, user_agent, ip_address, expires_at, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a login intent repository that uses the given db.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the intent. The intent must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Intent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO login_intents (`+intentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		i.ID, i.UserID, i.OrgID, i.DeviceName, i.UserAgent, i.IPAddress,
		i.ExpiresAt, i.CreatedAt)
	return err
}

// GetByID returns the intent for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Intent, error) {
	return scanIntent(r.db.QueryRowContext(ctx,
		`SELECT `+intentColumns+` FROM login_intents WHERE id = $1`, id))
}

// Consume deletes the intent and returns it in one statement so two concurrent
// completions cannot both succeed.
func (r *PostgresRepository) Consume(ctx context.Context, id string) (*domain.Intent, error) {
	return scanIntent(r.db.QueryRowContext(ctx,
		`DELETE FROM login_intents WHERE id = $1 RETURNING `+intentColumns, id))
}

// DeleteExpired prunes intents whose deadline is before cutoff.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM login_intents WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanIntent(row *sql.Row) (*domain.Intent, error) {
	var i domain.Intent
	err := row.Scan(&i.ID, &i.UserID, &i.OrgID, &i.DeviceName, &i.UserAgent,
		&i.IPAddress, &i.ExpiresAt, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}
