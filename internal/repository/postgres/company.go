package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// CompanyRepository implements company persistence using PostgreSQL.
type CompanyRepository struct {
	pool database.DBTX
}

// NewCompanyRepository creates a new PostgreSQL-backed company repository.
func NewCompanyRepository(pool database.DBTX) *CompanyRepository {
	return &CompanyRepository{pool: pool}
}

const companyColumns = `id, owner_id, name, description, website, city,
	rating_count, rating_sum, rating_avg, bayes_score, created_at, updated_at`

// Create inserts a new company profile.
func (r *CompanyRepository) Create(ctx context.Context, c *domain.Company) error {
	query := `
		INSERT INTO companies (id, owner_id, name, description, website, city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.OwnerID,
		c.Name,
		c.Description,
		c.Website,
		c.City,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("company", "name", c.Name)
		}
		return fmt.Errorf("insert company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by its ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	var c domain.Company
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Description,
		&c.Website,
		&c.City,
		&c.Rating.Count,
		&c.Rating.Sum,
		&c.Rating.Average,
		&c.Rating.BayesScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("company", id)
		}
		return nil, fmt.Errorf("get company: %w", err)
	}

	return &c, nil
}

// GetByName retrieves a company by its unique name.
func (r *CompanyRepository) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1`

	var c domain.Company
	err := r.pool.QueryRow(ctx, query, name).Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Description,
		&c.Website,
		&c.City,
		&c.Rating.Count,
		&c.Rating.Sum,
		&c.Rating.Average,
		&c.Rating.BayesScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("company", name)
		}
		return nil, fmt.Errorf("get company by name: %w", err)
	}

	return &c, nil
}

// List returns companies ordered by Bayesian score, best first.
func (r *CompanyRepository) List(ctx context.Context, limit, offset int) ([]domain.Company, int, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT ` + companyColumns + `,
		       count(*) OVER() AS total_count
		FROM companies
		ORDER BY bayes_score DESC, created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var (
		companies  []domain.Company
		totalCount int
	)

	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(
			&c.ID,
			&c.OwnerID,
			&c.Name,
			&c.Description,
			&c.Website,
			&c.City,
			&c.Rating.Count,
			&c.Rating.Sum,
			&c.Rating.Average,
			&c.Rating.BayesScore,
			&c.CreatedAt,
			&c.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan company row: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate company rows: %w", err)
	}

	if companies == nil {
		companies = []domain.Company{}
	}

	return companies, totalCount, nil
}

// Update modifies an existing company profile.
func (r *CompanyRepository) Update(ctx context.Context, c *domain.Company) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE companies
		SET name = $1, description = $2, website = $3, city = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		c.Name,
		c.Description,
		c.Website,
		c.City,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("company", "name", c.Name)
		}
		return fmt.Errorf("update company: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("company", c.ID)
	}

	return nil
}
