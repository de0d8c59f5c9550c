package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/event"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	"github.com/eternalinsky-max/proponujeprace/pkg/database"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// maxCommentRunes caps review comment length.
const maxCommentRunes = 3000

// maxReviewsPerPage caps the public review listing page size.
const maxReviewsPerPage = 50

// UpsertReviewInput holds the parameters for creating or replacing a review.
type UpsertReviewInput struct {
	AuthorID   string
	TargetType string
	TargetID   string
	Rating     int
	Comment    string
}

// ReviewResult pairs a review with the target's aggregate after recomputation.
type ReviewResult struct {
	Review    *domain.Review         `json:"review"`
	Aggregate domain.RatingAggregate `json:"aggregate"`
}

// ReviewListResult contains public reviews for a target with pagination info.
type ReviewListResult struct {
	Reviews    []domain.ReviewWithAuthor `json:"reviews"`
	TotalCount int                       `json:"total_count"`
	Page       int                       `json:"page"`
	PerPage    int                       `json:"per_page"`
}

// ReviewService implements the review lifecycle: upsert and delete both
// recompute the target's denormalized rating aggregate in the same
// transaction that mutates the review row.
type ReviewService struct {
	db       database.TxStarter
	reviews  *postgres.ReviewRepository
	targets  *postgres.TargetRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	db database.TxStarter,
	reviews *postgres.ReviewRepository,
	targets *postgres.TargetRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		db:       db,
		reviews:  reviews,
		targets:  targets,
		producer: producer,
		logger:   logger,
	}
}

// UpsertReview creates a review or replaces the author's existing review of
// the same target, then recomputes the target's aggregate. The whole
// operation runs in one READ COMMITTED transaction; the FOR UPDATE lock taken
// on the target row serializes concurrent recomputes for the same target, so
// the last writer always sees a complete set of reviews.
func (s *ReviewService) UpsertReview(ctx context.Context, input *UpsertReviewInput) (*ReviewResult, error) {
	targetType, err := domain.ParseTargetType(input.TargetType)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if input.TargetID == "" {
		return nil, apperrors.InvalidInput("target_id is required")
	}
	if input.AuthorID == "" {
		return nil, apperrors.InvalidInput("author_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if utf8.RuneCountInString(input.Comment) > maxCommentRunes {
		return nil, apperrors.InvalidInput(fmt.Sprintf("comment must not exceed %d characters", maxCommentRunes))
	}

	now := time.Now().UTC()
	review := &domain.Review{
		ID:         uuid.New().String(),
		AuthorID:   input.AuthorID,
		TargetType: targetType,
		TargetID:   input.TargetID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var (
		saved *domain.Review
		agg   domain.RatingAggregate
	)

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		// Lock first: checks the target exists and serializes concurrent
		// recomputes for the same target.
		if err := s.targets.WithTx(tx).Lock(ctx, targetType, input.TargetID); err != nil {
			return err
		}

		saved, err = s.reviews.WithTx(tx).Upsert(ctx, review)
		if err != nil {
			return err
		}

		agg, err = s.recomputeAggregate(ctx, tx, targetType, input.TargetID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishReviewUpserted(ctx, saved, agg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.upserted event",
			slog.String("review_id", saved.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "review upserted",
		slog.String("review_id", saved.ID),
		slog.String("target_type", string(targetType)),
		slog.String("target_id", input.TargetID),
		slog.Int("rating", saved.Rating),
		slog.Float64("bayes_score", agg.BayesScore),
	)

	return &ReviewResult{Review: saved, Aggregate: agg}, nil
}

// DeleteReview removes the caller's review and recomputes the target's
// aggregate. Deleting a review that no longer exists is an idempotent
// success; deleting someone else's review is forbidden.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, callerID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.DebugContext(ctx, "delete of absent review treated as success",
				slog.String("review_id", reviewID),
			)
			return nil
		}
		return fmt.Errorf("get review for delete: %w", err)
	}

	if review.AuthorID != callerID {
		return apperrors.Forbidden("only the author can delete a review")
	}

	var agg domain.RatingAggregate

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.targets.WithTx(tx).Lock(ctx, review.TargetType, review.TargetID); err != nil {
			return err
		}

		if _, err := s.reviews.WithTx(tx).Delete(ctx, reviewID); err != nil {
			return err
		}

		agg, err = s.recomputeAggregate(ctx, tx, review.TargetType, review.TargetID)
		return err
	})
	if err != nil {
		return err
	}

	if err := s.producer.PublishReviewDeleted(ctx, review, agg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
			slog.String("review_id", reviewID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", reviewID),
		slog.String("target_type", string(review.TargetType)),
		slog.String("target_id", review.TargetID),
	)

	return nil
}

// ListReviews returns public reviews for a target, newest first, with the
// author's display identity joined in.
func (s *ReviewService) ListReviews(ctx context.Context, targetTypeRaw, targetID string, page, perPage int) (*ReviewListResult, error) {
	targetType, err := domain.ParseTargetType(targetTypeRaw)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if targetID == "" {
		return nil, apperrors.InvalidInput("target_id is required")
	}

	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > maxReviewsPerPage {
		perPage = maxReviewsPerPage
	}

	reviews, total, err := s.reviews.ListByTargetWithAuthors(ctx, targetType, targetID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	return &ReviewListResult{
		Reviews:    reviews,
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// recomputeAggregate recounts the target's visible reviews from scratch and
// writes the derived aggregate onto the target row. Must run inside the
// transaction that holds the target row lock.
func (s *ReviewService) recomputeAggregate(ctx context.Context, tx pgx.Tx, targetType domain.TargetType, targetID string) (domain.RatingAggregate, error) {
	count, sum, err := s.reviews.WithTx(tx).AggregateByTarget(ctx, targetType, targetID)
	if err != nil {
		return domain.RatingAggregate{}, err
	}

	agg := domain.NewRatingAggregate(count, sum)
	if err := s.targets.WithTx(tx).UpdateAggregate(ctx, targetType, targetID, agg); err != nil {
		return domain.RatingAggregate{}, err
	}
	return agg, nil
}

// withTx runs fn inside a READ COMMITTED transaction, rolling back on error.
func (s *ReviewService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
