package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// ContactLogRepository persists contact form submissions and their anti-spam
// verdicts.
type ContactLogRepository struct {
	pool database.DBTX
}

// NewContactLogRepository creates a new PostgreSQL-backed contact log repository.
func NewContactLogRepository(pool database.DBTX) *ContactLogRepository {
	return &ContactLogRepository{pool: pool}
}

const contactLogColumns = `id, name, email, subject, message, outcome, spam_reason,
	client_ip, user_agent, created_at, deleted_at`

// Insert records a contact form submission. Logging failures must never block
// the contact pipeline, so callers treat errors as non-fatal.
func (r *ContactLogRepository) Insert(ctx context.Context, l *domain.ContactMessageLog) error {
	query := `
		INSERT INTO contact_message_logs (id, name, email, subject, message, outcome, spam_reason, client_ip, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		l.ID,
		l.Name,
		l.Email,
		l.Subject,
		l.Message,
		l.Outcome,
		l.SpamReason,
		l.ClientIP,
		l.UserAgent,
		l.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact log: %w", err)
	}

	return nil
}

// List returns contact logs matching the filter, newest first, with the total count.
func (r *ContactLogRepository) List(ctx context.Context, filter repository.ContactLogFilter) ([]domain.ContactMessageLog, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Deleted {
		conditions = append(conditions, "deleted_at IS NOT NULL")
	} else {
		conditions = append(conditions, "deleted_at IS NULL")
	}

	if filter.Outcome != nil {
		conditions = append(conditions, fmt.Sprintf("outcome = $%d", argIndex))
		args = append(args, *filter.Outcome)
		argIndex++
	}

	if filter.Email != nil {
		conditions = append(conditions, fmt.Sprintf("email ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.Email+"%")
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			`(client_ip ILIKE $%d OR name ILIKE $%d OR email ILIKE $%d
			  OR message ILIKE $%d OR spam_reason ILIKE $%d)`,
			argIndex, argIndex, argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	query := fmt.Sprintf(`
		SELECT `+contactLogColumns+`,
		       count(*) OVER() AS total_count
		FROM contact_message_logs
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		strings.Join(conditions, " AND "), argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact logs: %w", err)
	}
	defer rows.Close()

	var (
		logs       []domain.ContactMessageLog
		totalCount int
	)

	for rows.Next() {
		var l domain.ContactMessageLog
		if err := rows.Scan(
			&l.ID,
			&l.Name,
			&l.Email,
			&l.Subject,
			&l.Message,
			&l.Outcome,
			&l.SpamReason,
			&l.ClientIP,
			&l.UserAgent,
			&l.CreatedAt,
			&l.DeletedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan contact log row: %w", err)
		}
		logs = append(logs, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact log rows: %w", err)
	}

	if logs == nil {
		logs = []domain.ContactMessageLog{}
	}

	return logs, totalCount, nil
}

// SoftDelete marks a contact log as deleted without removing the row.
func (r *ContactLogRepository) SoftDelete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE contact_message_logs SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("soft delete contact log: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact log", id)
	}
	return nil
}

// Restore clears the deleted marker from a soft-deleted contact log.
func (r *ContactLogRepository) Restore(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE contact_message_logs SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("restore contact log: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact log", id)
	}
	return nil
}

// SoftDeleteOlderThan soft-deletes all live logs created before the cutoff.
// Returns the number of rows affected.
func (r *ContactLogRepository) SoftDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`UPDATE contact_message_logs SET deleted_at = NOW() WHERE created_at < $1 AND deleted_at IS NULL`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("soft delete old contact logs: %w", err)
	}
	return ct.RowsAffected(), nil
}

// SoftDeleteByOutcomes soft-deletes live logs with one of the given outcomes
// created before the cutoff. Returns the number of rows affected.
func (r *ContactLogRepository) SoftDeleteByOutcomes(ctx context.Context, cutoff time.Time, outcomes []domain.ContactOutcome) (int64, error) {
	values := make([]string, len(outcomes))
	for i, o := range outcomes {
		values[i] = string(o)
	}

	ct, err := r.pool.Exec(ctx,
		`UPDATE contact_message_logs SET deleted_at = NOW()
		 WHERE created_at < $1 AND deleted_at IS NULL AND outcome = ANY($2)`,
		cutoff, values)
	if err != nil {
		return 0, fmt.Errorf("soft delete contact logs by outcome: %w", err)
	}
	return ct.RowsAffected(), nil
}

// HardDeleteOlderThan permanently removes soft-deleted logs whose deletion
// happened before the cutoff. Returns the number of rows removed.
func (r *ContactLogRepository) HardDeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM contact_message_logs WHERE deleted_at IS NOT NULL AND deleted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("hard delete contact logs: %w", err)
	}
	return ct.RowsAffected(), nil
}
