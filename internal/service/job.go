package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/event"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// maxJobsPerPage caps the job listing page size.
const maxJobsPerPage = 100

// JobInput holds the parameters for creating or updating a job posting.
type JobInput struct {
	CompanyName string
	Title       string
	Description string
	City        string
	Remote      bool
	SalaryMin   *int
	SalaryMax   *int
	Currency    string
	Tags        []string
	ContactURL  string
	Status      string
}

// JobService implements the business logic for job posting operations.
type JobService struct {
	db        database.TxStarter
	jobs      *postgres.JobRepository
	companies *postgres.CompanyRepository
	reviews   *postgres.ReviewRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewJobService creates a new job service.
func NewJobService(
	db database.TxStarter,
	jobs *postgres.JobRepository,
	companies *postgres.CompanyRepository,
	reviews *postgres.ReviewRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *JobService {
	return &JobService{
		db:        db,
		jobs:      jobs,
		companies: companies,
		reviews:   reviews,
		producer:  producer,
		logger:    logger,
	}
}

// ListJobs returns a filtered, paginated public job listing.
func (s *JobService) ListJobs(ctx context.Context, filter repository.JobFilter) ([]domain.Job, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > maxJobsPerPage {
		filter.PerPage = maxJobsPerPage
	}

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list jobs: %w", err)
	}

	return jobs, total, nil
}

// GetJob retrieves a job posting by its ID.
func (s *JobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	return job, nil
}

// CreateJob creates a new job posting owned by the caller. An optional
// company name is resolved to an existing company or creates one owned by
// the caller.
func (s *JobService) CreateJob(ctx context.Context, ownerID string, input *JobInput) (*domain.Job, error) {
	if err := validateJobInput(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		CompanyName: strings.TrimSpace(input.CompanyName),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		City:        strings.TrimSpace(input.City),
		Remote:      input.Remote,
		SalaryMin:   input.SalaryMin,
		SalaryMax:   input.SalaryMax,
		Currency:    strings.ToUpper(input.Currency),
		Tags:        normalizeTags(input.Tags),
		ContactURL:  input.ContactURL,
		Status:      domain.JobStatusActive,
		Rating:      domain.NewRatingAggregate(0, 0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Status != "" {
		job.Status = domain.JobStatus(input.Status)
	}
	// Remote postings carry no city.
	if job.Remote {
		job.City = ""
	}

	if job.CompanyName != "" {
		companyID, err := s.resolveCompany(ctx, ownerID, job.CompanyName)
		if err != nil {
			return nil, err
		}
		job.CompanyID = &companyID
	}

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	if err := s.producer.PublishJobCreated(ctx, job); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish job.created event",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "job created",
		slog.String("job_id", job.ID),
		slog.String("owner_id", ownerID),
		slog.String("title", job.Title),
	)

	return job, nil
}

// UpdateJob modifies an existing job posting. Only the owner may update.
func (s *JobService) UpdateJob(ctx context.Context, id, callerID string, input *JobInput) (*domain.Job, error) {
	if err := validateJobInput(input); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get job for update: %w", err)
	}
	if job.OwnerID != callerID {
		return nil, apperrors.Forbidden("only the owner can update a job")
	}

	job.CompanyName = strings.TrimSpace(input.CompanyName)
	job.Title = strings.TrimSpace(input.Title)
	job.Description = input.Description
	job.City = strings.TrimSpace(input.City)
	job.Remote = input.Remote
	job.SalaryMin = input.SalaryMin
	job.SalaryMax = input.SalaryMax
	job.Currency = strings.ToUpper(input.Currency)
	job.Tags = normalizeTags(input.Tags)
	job.ContactURL = input.ContactURL
	if input.Status != "" {
		job.Status = domain.JobStatus(input.Status)
	}
	if job.Remote {
		job.City = ""
	}

	if job.CompanyName != "" {
		companyID, err := s.resolveCompany(ctx, callerID, job.CompanyName)
		if err != nil {
			return nil, err
		}
		job.CompanyID = &companyID
	} else {
		job.CompanyID = nil
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	s.logger.InfoContext(ctx, "job updated",
		slog.String("job_id", job.ID),
		slog.String("owner_id", callerID),
	)

	return job, nil
}

// DeleteJob removes a job posting and its reviews in one transaction. Only
// the owner may delete.
func (s *JobService) DeleteJob(ctx context.Context, id, callerID string) error {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get job for delete: %w", err)
	}
	if job.OwnerID != callerID {
		return apperrors.Forbidden("only the owner can delete a job")
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := s.reviews.WithTx(tx).DeleteByTarget(ctx, domain.TargetJob, id); err != nil {
		return err
	}
	if err := s.jobs.WithTx(tx).Delete(ctx, id); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.logger.InfoContext(ctx, "job deleted",
		slog.String("job_id", id),
		slog.String("owner_id", callerID),
	)

	return nil
}

// ListMyJobs returns the caller's own jobs regardless of status.
func (s *JobService) ListMyJobs(ctx context.Context, ownerID string, filter repository.JobFilter) ([]domain.Job, int, error) {
	filter.OwnerID = &ownerID
	return s.ListJobs(ctx, filter)
}

// resolveCompany finds a company by name or creates one owned by the caller.
func (s *JobService) resolveCompany(ctx context.Context, ownerID, name string) (string, error) {
	company, err := s.companies.GetByName(ctx, name)
	if err == nil {
		return company.ID, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("resolve company: %w", err)
	}

	now := time.Now().UTC()
	company = &domain.Company{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      name,
		Rating:    domain.NewRatingAggregate(0, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.companies.Create(ctx, company); err != nil {
		// A concurrent request may have created the same company.
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			existing, getErr := s.companies.GetByName(ctx, name)
			if getErr != nil {
				return "", fmt.Errorf("resolve company after conflict: %w", getErr)
			}
			return existing.ID, nil
		}
		return "", fmt.Errorf("create company: %w", err)
	}

	s.logger.InfoContext(ctx, "company created",
		slog.String("company_id", company.ID),
		slog.String("name", name),
	)

	return company.ID, nil
}

func validateJobInput(input *JobInput) error {
	title := strings.TrimSpace(input.Title)
	if len([]rune(title)) < 3 {
		return apperrors.InvalidInput("title must be at least 3 characters")
	}
	if input.SalaryMin != nil && input.SalaryMax != nil && *input.SalaryMax < *input.SalaryMin {
		return apperrors.InvalidInput("salary_max must be greater than or equal to salary_min")
	}
	if input.Status != "" && !domain.JobStatus(input.Status).Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("invalid status %q", input.Status))
	}
	if input.Currency != "" && len(input.Currency) != 3 {
		return apperrors.InvalidInput("currency must be a 3-letter ISO code")
	}
	return nil
}

// normalizeTags trims, lowercases and deduplicates tags.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
