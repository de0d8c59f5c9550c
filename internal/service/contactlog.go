package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// Retention defaults for the scheduled cleanup.
const (
	defaultRetentionDays   = 90
	defaultHardDeleteGrace = 30 * 24 * time.Hour
)

// cleanableOutcomes are the only outcomes the manual cleanup may target.
// Delivered messages and delivery errors are kept until the retention sweep.
var cleanableOutcomes = map[domain.ContactOutcome]bool{
	domain.ContactOutcomeSpam:        true,
	domain.ContactOutcomeRateLimited: true,
}

// CleanupInput holds the parameters for a manual contact log cleanup.
type CleanupInput struct {
	Days     int      `json:"days" validate:"required,gte=1"`
	Statuses []string `json:"statuses" validate:"required,min=1"`
}

// CronCleanupResult reports what the scheduled sweep removed.
type CronCleanupResult struct {
	SoftDeleted int64 `json:"soft_deleted"`
	HardDeleted int64 `json:"hard_deleted"`
}

// ContactLogService implements the admin console over the contact log.
type ContactLogService struct {
	logs   *postgres.ContactLogRepository
	logger *slog.Logger

	retentionDays   int
	hardDeleteGrace time.Duration
	nowFunc         func() time.Time
}

// NewContactLogService creates a new contact log admin service.
func NewContactLogService(logs *postgres.ContactLogRepository, logger *slog.Logger) *ContactLogService {
	return &ContactLogService{
		logs:            logs,
		logger:          logger,
		retentionDays:   defaultRetentionDays,
		hardDeleteGrace: defaultHardDeleteGrace,
		nowFunc:         time.Now,
	}
}

// ListLogs returns contact logs matching the filter. The synthetic status
// "DELETED" selects soft-deleted rows.
func (s *ContactLogService) ListLogs(ctx context.Context, status, search string, page, perPage int) ([]domain.ContactMessageLog, int, error) {
	filter := repository.ContactLogFilter{
		Page:    page,
		PerPage: perPage,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	switch status {
	case "", "ALL":
	case "DELETED":
		filter.Deleted = true
	default:
		outcome := domain.ContactOutcome(status)
		if !outcome.Valid() {
			return nil, 0, apperrors.InvalidInput(fmt.Sprintf("unknown status %q", status))
		}
		filter.Outcome = &outcome
	}

	if search != "" {
		filter.Search = &search
	}

	logs, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact logs: %w", err)
	}

	return logs, total, nil
}

// DeleteLog soft-deletes a contact log entry.
func (s *ContactLogService) DeleteLog(ctx context.Context, id string) error {
	if err := s.logs.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("soft delete contact log: %w", err)
	}

	s.logger.InfoContext(ctx, "contact log soft-deleted",
		slog.String("log_id", id),
	)

	return nil
}

// RestoreLog clears the deleted marker from a soft-deleted entry.
func (s *ContactLogService) RestoreLog(ctx context.Context, id string) error {
	if err := s.logs.Restore(ctx, id); err != nil {
		return fmt.Errorf("restore contact log: %w", err)
	}

	s.logger.InfoContext(ctx, "contact log restored",
		slog.String("log_id", id),
	)

	return nil
}

// Cleanup soft-deletes spam and rate-limit entries older than the given
// number of days. Returns the number of entries removed.
func (s *ContactLogService) Cleanup(ctx context.Context, input *CleanupInput) (int64, error) {
	if input.Days < 1 {
		return 0, apperrors.InvalidInput("days must be at least 1")
	}
	if len(input.Statuses) == 0 {
		return 0, apperrors.InvalidInput("at least one status is required")
	}

	outcomes := make([]domain.ContactOutcome, 0, len(input.Statuses))
	for _, raw := range input.Statuses {
		outcome := domain.ContactOutcome(raw)
		if !cleanableOutcomes[outcome] {
			return 0, apperrors.InvalidInput(fmt.Sprintf("status %q cannot be cleaned up", raw))
		}
		outcomes = append(outcomes, outcome)
	}

	cutoff := s.nowFunc().UTC().AddDate(0, 0, -input.Days)
	n, err := s.logs.SoftDeleteByOutcomes(ctx, cutoff, outcomes)
	if err != nil {
		return 0, fmt.Errorf("cleanup contact logs: %w", err)
	}

	s.logger.InfoContext(ctx, "contact log cleanup",
		slog.Int64("soft_deleted", n),
		slog.Int("days", input.Days),
	)

	return n, nil
}

// CronCleanup is the scheduled sweep: entries older than the retention window
// are soft-deleted, and soft-deleted entries past the grace period are
// removed for good.
func (s *ContactLogService) CronCleanup(ctx context.Context) (*CronCleanupResult, error) {
	now := s.nowFunc().UTC()

	softDeleted, err := s.logs.SoftDeleteOlderThan(ctx, now.AddDate(0, 0, -s.retentionDays))
	if err != nil {
		return nil, fmt.Errorf("retention sweep: %w", err)
	}

	hardDeleted, err := s.logs.HardDeleteOlderThan(ctx, now.Add(-s.hardDeleteGrace))
	if err != nil {
		return nil, fmt.Errorf("hard delete sweep: %w", err)
	}

	s.logger.InfoContext(ctx, "scheduled contact log cleanup",
		slog.Int64("soft_deleted", softDeleted),
		slog.Int64("hard_deleted", hardDeleted),
	)

	return &CronCleanupResult{
		SoftDeleted: softDeleted,
		HardDeleted: hardDeleted,
	}, nil
}
