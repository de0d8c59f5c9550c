package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// JobRepository implements job posting persistence using PostgreSQL.
type JobRepository struct {
	pool database.DBTX
}

// NewJobRepository creates a new PostgreSQL-backed job repository.
func NewJobRepository(pool database.DBTX) *JobRepository {
	return &JobRepository{pool: pool}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *JobRepository) WithTx(tx pgx.Tx) *JobRepository {
	return &JobRepository{pool: tx}
}

const jobColumns = `id, owner_id, company_id, company_name, title, description, city, remote,
	salary_min, salary_max, currency, tags, contact_url, status,
	rating_count, rating_sum, rating_avg, bayes_score, created_at, updated_at`

// Create inserts a new job posting.
func (r *JobRepository) Create(ctx context.Context, j *domain.Job) error {
	query := `
		INSERT INTO jobs (id, owner_id, company_id, company_name, title, description, city, remote,
		                  salary_min, salary_max, currency, tags, contact_url, status,
		                  rating_count, rating_sum, rating_avg, bayes_score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := r.pool.Exec(ctx, query,
		j.ID,
		j.OwnerID,
		j.CompanyID,
		j.CompanyName,
		j.Title,
		j.Description,
		j.City,
		j.Remote,
		j.SalaryMin,
		j.SalaryMax,
		j.Currency,
		j.Tags,
		j.ContactURL,
		j.Status,
		j.Rating.Count,
		j.Rating.Sum,
		j.Rating.Average,
		j.Rating.BayesScore,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by its ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return r.scanJob(ctx, query, id)
}

// List returns jobs matching the given filter with the total count.
func (r *JobRepository) List(ctx context.Context, filter repository.JobFilter) ([]domain.Job, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.City != nil {
		conditions = append(conditions, fmt.Sprintf("city ILIKE $%d", argIndex))
		args = append(args, "%"+*filter.City+"%")
		argIndex++
	}

	if filter.Remote != nil {
		conditions = append(conditions, fmt.Sprintf("remote = $%d", argIndex))
		args = append(args, *filter.Remote)
		argIndex++
	}

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIndex))
		args = append(args, *filter.OwnerID)
		argIndex++
	}

	if filter.Search != nil {
		conditions = append(conditions, fmt.Sprintf(
			`(title ILIKE $%d OR description ILIKE $%d OR company_name ILIKE $%d
			  OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $%d))`,
			argIndex, argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Sort column comes from the whitelist only; raw user input never reaches
	// the ORDER BY clause.
	sortCol, ok := repository.JobSortKeys[filter.Sort]
	if !ok {
		sortCol = "created_at"
	}
	direction := "ASC"
	if filter.Desc || filter.Sort == "" {
		direction = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT `+jobColumns+`,
		       count(*) OVER() AS total_count
		FROM jobs
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		whereClause, sortCol, direction, argIndex, argIndex+1,
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
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var (
		jobs       []domain.Job
		totalCount int
	)

	for rows.Next() {
		var j domain.Job
		if err := scanJobRow(rows, &j, &totalCount); err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate job rows: %w", err)
	}

	if jobs == nil {
		jobs = []domain.Job{}
	}

	return jobs, totalCount, nil
}

// Update modifies an existing job posting.
func (r *JobRepository) Update(ctx context.Context, j *domain.Job) error {
	j.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE jobs
		SET company_id = $1, company_name = $2, title = $3, description = $4, city = $5,
		    remote = $6, salary_min = $7, salary_max = $8, currency = $9, tags = $10,
		    contact_url = $11, status = $12, updated_at = $13
		WHERE id = $14`

	ct, err := r.pool.Exec(ctx, query,
		j.CompanyID,
		j.CompanyName,
		j.Title,
		j.Description,
		j.City,
		j.Remote,
		j.SalaryMin,
		j.SalaryMax,
		j.Currency,
		j.Tags,
		j.ContactURL,
		j.Status,
		j.UpdatedAt,
		j.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("job", j.ID)
	}

	return nil
}

// Delete removes a job posting by its ID.
func (r *JobRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("job", id)
	}

	return nil
}

// scanJob is a helper that executes a query expected to return a single job row.
func (r *JobRepository) scanJob(ctx context.Context, query string, args ...any) (*domain.Job, error) {
	var j domain.Job
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&j.ID,
		&j.OwnerID,
		&j.CompanyID,
		&j.CompanyName,
		&j.Title,
		&j.Description,
		&j.City,
		&j.Remote,
		&j.SalaryMin,
		&j.SalaryMax,
		&j.Currency,
		&j.Tags,
		&j.ContactURL,
		&j.Status,
		&j.Rating.Count,
		&j.Rating.Sum,
		&j.Rating.Average,
		&j.Rating.BayesScore,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}

	return &j, nil
}

// scanJobRow scans a job row that includes the count(*) OVER() column.
func scanJobRow(rows pgx.Rows, j *domain.Job, totalCount *int) error {
	if err := rows.Scan(
		&j.ID,
		&j.OwnerID,
		&j.CompanyID,
		&j.CompanyName,
		&j.Title,
		&j.Description,
		&j.City,
		&j.Remote,
		&j.SalaryMin,
		&j.SalaryMax,
		&j.Currency,
		&j.Tags,
		&j.ContactURL,
		&j.Status,
		&j.Rating.Count,
		&j.Rating.Sum,
		&j.Rating.Average,
		&j.Rating.BayesScore,
		&j.CreatedAt,
		&j.UpdatedAt,
		totalCount,
	); err != nil {
		return fmt.Errorf("scan job row: %w", err)
	}
	return nil
}
