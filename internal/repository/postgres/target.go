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

// TargetRepository operates on the denormalized rating columns that every
// reviewable table (jobs, companies, users) carries. Users hold their
// as-worker aggregates in a worker_* column set.
type TargetRepository struct {
	pool database.DBTX
}

// NewTargetRepository creates a new PostgreSQL-backed target repository.
func NewTargetRepository(pool database.DBTX) *TargetRepository {
	return &TargetRepository{pool: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TargetRepository) WithTx(tx pgx.Tx) *TargetRepository {
	return &TargetRepository{pool: tx}
}

// Lock acquires a row lock on the target, serializing concurrent aggregate
// recomputes for the same target. Returns NotFound when the target row does
// not exist, which aborts the surrounding transaction.
func (r *TargetRepository) Lock(ctx context.Context, targetType domain.TargetType, targetID string) error {
	table, err := targetType.Table()
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 FOR UPDATE`, table)

	var id string
	if err := r.pool.QueryRow(ctx, query, targetID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound(string(targetType), targetID)
		}
		return fmt.Errorf("lock %s: %w", table, err)
	}
	return nil
}

// UpdateAggregate writes the recomputed rating columns onto the target row.
// The caller must hold the row lock acquired by Lock within the same
// transaction.
func (r *TargetRepository) UpdateAggregate(ctx context.Context, targetType domain.TargetType, targetID string, agg domain.RatingAggregate) error {
	table, err := targetType.Table()
	if err != nil {
		return apperrors.InvalidInput(err.Error())
	}

	prefix := targetType.RatingColumnPrefix()
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]srating_count = $2,
		    %[2]srating_sum = $3,
		    %[2]srating_avg = $4,
		    %[2]sbayes_score = $5,
		    updated_at = NOW()
		WHERE id = $1`, table, prefix)

	tag, err := r.pool.Exec(ctx, query, targetID, agg.Count, agg.Sum, agg.Average, agg.BayesScore)
	if err != nil {
		return fmt.Errorf("update %s aggregate: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(string(targetType), targetID)
	}
	return nil
}
