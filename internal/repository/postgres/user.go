package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// UserRepository implements user persistence using PostgreSQL.
type UserRepository struct {
	pool database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool database.DBTX) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, external_uid, email, name, picture, admin, headline, bio, city,
	worker_rating_count, worker_rating_sum, worker_rating_avg, worker_bayes_score,
	created_at, updated_at`

// UpsertByExternalUID creates a user row on first authenticated request, or
// refreshes the identity fields (email, name, picture) on subsequent logins.
// Profile fields and rating aggregates are never touched by the upsert.
func (r *UserRepository) UpsertByExternalUID(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, external_uid, email, name, picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (external_uid) DO UPDATE
		SET email = EXCLUDED.email,
		    name = EXCLUDED.name,
		    picture = EXCLUDED.picture,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + userColumns

	saved, err := scanUserRow(r.pool.QueryRow(ctx, query,
		u.ID,
		u.ExternalUID,
		u.Email,
		u.Name,
		u.Picture,
		u.CreatedAt,
		u.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	return saved, nil
}

// GetByID retrieves a user by their internal row ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUserRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByExternalUID retrieves a user by their identity provider UID.
func (r *UserRepository) GetByExternalUID(ctx context.Context, uid string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_uid = $1`

	u, err := scanUserRow(r.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", uid)
		}
		return nil, fmt.Errorf("get user by external uid: %w", err)
	}
	return u, nil
}

// UpdateProfile modifies the user-editable worker profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET headline = $1, bio = $2, city = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query, u.Headline, u.Bio, u.City, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("user", u.ID)
	}

	return nil
}

// scanUserRow scans a full user row from a pgx.Row.
func scanUserRow(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.ExternalUID,
		&u.Email,
		&u.Name,
		&u.Picture,
		&u.Admin,
		&u.Headline,
		&u.Bio,
		&u.City,
		&u.Rating.Count,
		&u.Rating.Sum,
		&u.Rating.Average,
		&u.Rating.BayesScore,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
