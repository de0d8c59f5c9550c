package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// ReviewRepository implements review persistence operations using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *ReviewRepository) WithTx(tx pgx.Tx) *ReviewRepository {
	return &ReviewRepository{pool: tx}
}

const reviewColumns = `id, author_id, target_type, target_id, rating, comment, is_hidden, created_at, updated_at`

// Upsert inserts a review or, when the author already reviewed this target,
// overwrites the previous rating and comment. Resubmission clears the hidden
// flag so a moderated review that is re-posted becomes visible again.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	query := `
		INSERT INTO reviews (id, author_id, target_type, target_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (author_id, target_type, target_id) DO UPDATE
		SET rating = EXCLUDED.rating,
		    comment = EXCLUDED.comment,
		    is_hidden = FALSE,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + reviewColumns

	var saved domain.Review
	err := r.pool.QueryRow(ctx, query,
		review.ID,
		review.AuthorID,
		review.TargetType,
		review.TargetID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(
		&saved.ID,
		&saved.AuthorID,
		&saved.TargetType,
		&saved.TargetID,
		&saved.Rating,
		&saved.Comment,
		&saved.IsHidden,
		&saved.CreatedAt,
		&saved.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert review: %w", err)
	}

	return &saved, nil
}

// GetByID returns a single review by its primary key.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.AuthorID,
		&rv.TargetType,
		&rv.TargetID,
		&rv.Rating,
		&rv.Comment,
		&rv.IsHidden,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("review", id)
		}
		return nil, fmt.Errorf("get review: %w", err)
	}

	return &rv, nil
}

// Delete removes a review by ID. Returns the number of rows deleted so the
// caller can treat an already-missing review as an idempotent no-op.
func (r *ReviewRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete review: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AggregateByTarget recomputes the review count and rating sum for a target
// from scratch. Hidden reviews are excluded from the aggregate.
func (r *ReviewRepository) AggregateByTarget(ctx context.Context, targetType domain.TargetType, targetID string) (count, sum int, err error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(rating), 0)
		FROM reviews
		WHERE target_type = $1 AND target_id = $2 AND NOT is_hidden`

	if err := r.pool.QueryRow(ctx, query, targetType, targetID).Scan(&count, &sum); err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return count, sum, nil
}

// ListByTarget returns paginated visible reviews for a target, newest first,
// along with the total count.
func (r *ReviewRepository) ListByTarget(ctx context.Context, targetType domain.TargetType, targetID string, limit, offset int) ([]domain.Review, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + reviewColumns + `,
		       count(*) OVER() AS total_count
		FROM reviews
		WHERE target_type = $1 AND target_id = $2 AND NOT is_hidden
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, targetType, targetID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.AuthorID,
			&rv.TargetType,
			&rv.TargetID,
			&rv.Rating,
			&rv.Comment,
			&rv.IsHidden,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// ListByTargetWithAuthors is ListByTarget with the author's display name and
// picture joined in for public listings.
func (r *ReviewRepository) ListByTargetWithAuthors(ctx context.Context, targetType domain.TargetType, targetID string, limit, offset int) ([]domain.ReviewWithAuthor, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT r.id, r.author_id, r.target_type, r.target_id, r.rating, r.comment,
		       r.is_hidden, r.created_at, r.updated_at,
		       u.name AS author_name, u.picture AS author_picture,
		       count(*) OVER() AS total_count
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.target_type = $1 AND r.target_id = $2 AND NOT r.is_hidden
		ORDER BY r.created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, targetType, targetID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews with authors: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.ReviewWithAuthor
		totalCount int
	)

	for rows.Next() {
		var rv domain.ReviewWithAuthor
		if err := rows.Scan(
			&rv.ID,
			&rv.AuthorID,
			&rv.TargetType,
			&rv.TargetID,
			&rv.Rating,
			&rv.Comment,
			&rv.IsHidden,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.AuthorName,
			&rv.AuthorPicture,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.ReviewWithAuthor{}
	}

	return reviews, totalCount, nil
}

// DeleteByTarget removes all reviews for a target. Used when the target itself
// is being deleted in the same transaction.
func (r *ReviewRepository) DeleteByTarget(ctx context.Context, targetType domain.TargetType, targetID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM reviews WHERE target_type = $1 AND target_id = $2`, targetType, targetID)
	if err != nil {
		return 0, fmt.Errorf("delete reviews by target: %w", err)
	}
	return tag.RowsAffected(), nil
}
