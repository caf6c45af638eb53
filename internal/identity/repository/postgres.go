package repository

import (
	"context"
	"database/sql"
	"errors"

	"saas-control-plane/backend/internal/identity/domain"
)

const identityColumns = `id, user_id, provider, provider_id, password_hash, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an identity repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the identity for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	return scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id))
}

// GetByUserAndProvider returns the user's identity for the provider, or nil if not found.
func (r *PostgresRepository) GetByUserAndProvider(ctx context.Context, userID string, provider domain.IdentityProvider) (*domain.Identity, error) {
	return scanIdentity(r.db.QueryRowContext(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE user_id = $1 AND provider = $2`,
		userID, provider))
}

// Create persists the identity.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO identities (`+identityColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.UserID, i.Provider, i.ProviderID, nullable(i.PasswordHash),
		i.CreatedAt, i.UpdatedAt)
	return err
}

// UpdatePasswordHash replaces the stored password hash for a local identity.
func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE identities SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash)
	return err
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanIdentity(row *sql.Row) (*domain.Identity, error) {
	var i domain.Identity
	var hash sql.NullString
	err := row.Scan(&i.ID, &i.UserID, &i.Provider, &i.ProviderID, &hash,
		&i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	i.PasswordHash = hash.String
	return &i, nil
}
