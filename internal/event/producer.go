package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	pkgkafka "github.com/eternalinsky-max/proponujeprace/pkg/kafka"
)

// Kafka topic constants for job board domain events.
const (
	TopicReviewUpserted  = "jobboard.review.upserted"
	TopicReviewDeleted   = "jobboard.review.deleted"
	TopicJobCreated      = "jobboard.job.created"
	TopicUserRegistered  = "jobboard.user.registered"
	TopicContactReceived = "jobboard.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypeReview  = "review"
	AggregateTypeJob     = "job"
	AggregateTypeUser    = "user"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from this API.
const SourceJobBoardAPI = "jobboard-api"

// ReviewUpsertedData is the payload for a review.upserted event. It carries
// the review plus the target's freshly recomputed aggregate so consumers do
// not need to query back.
type ReviewUpsertedData struct {
	ReviewID   string  `json:"review_id"`
	AuthorID   string  `json:"author_id"`
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Rating     int     `json:"rating"`
	Count      int     `json:"count"`
	Sum        int     `json:"sum"`
	Average    float64 `json:"average"`
	BayesScore float64 `json:"bayes_score"`
}

// ReviewDeletedData is the payload for a review.deleted event.
type ReviewDeletedData struct {
	ReviewID   string  `json:"review_id"`
	TargetType string  `json:"target_type"`
	TargetID   string  `json:"target_id"`
	Count      int     `json:"count"`
	Sum        int     `json:"sum"`
	BayesScore float64 `json:"bayes_score"`
}

// JobCreatedData is the payload for a job.created event.
type JobCreatedData struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	City        string `json:"city"`
	Remote      bool   `json:"remote"`
	Status      string `json:"status"`
}

// UserRegisteredData is the payload for a user.registered event, emitted on
// the first authenticated request that creates the user row.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	LogID     string    `json:"log_id"`
	Email     string    `json:"email"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// Producer publishes job board domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the job board API.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewUpserted publishes a review.upserted event with the recomputed
// target aggregate.
func (p *Producer) PublishReviewUpserted(ctx context.Context, review *domain.Review, agg domain.RatingAggregate) error {
	data := ReviewUpsertedData{
		ReviewID:   review.ID,
		AuthorID:   review.AuthorID,
		TargetType: string(review.TargetType),
		TargetID:   review.TargetID,
		Rating:     review.Rating,
		Count:      agg.Count,
		Sum:        agg.Sum,
		Average:    agg.Average,
		BayesScore: agg.BayesScore,
	}

	event, err := pkgkafka.NewEvent(TopicReviewUpserted, review.ID, AggregateTypeReview, SourceJobBoardAPI, data)
	if err != nil {
		return fmt.Errorf("create review.upserted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewUpserted, event); err != nil {
		return fmt.Errorf("publish review.upserted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.upserted event",
		slog.String("review_id", review.ID),
		slog.String("target_type", string(review.TargetType)),
		slog.String("target_id", review.TargetID),
	)

	return nil
}

// PublishReviewDeleted publishes a review.deleted event.
func (p *Producer) PublishReviewDeleted(ctx context.Context, review *domain.Review, agg domain.RatingAggregate) error {
	data := ReviewDeletedData{
		ReviewID:   review.ID,
		TargetType: string(review.TargetType),
		TargetID:   review.TargetID,
		Count:      agg.Count,
		Sum:        agg.Sum,
		BayesScore: agg.BayesScore,
	}

	event, err := pkgkafka.NewEvent(TopicReviewDeleted, review.ID, AggregateTypeReview, SourceJobBoardAPI, data)
	if err != nil {
		return fmt.Errorf("create review.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewDeleted, event); err != nil {
		return fmt.Errorf("publish review.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.deleted event",
		slog.String("review_id", review.ID),
		slog.String("target_id", review.TargetID),
	)

	return nil
}

// PublishJobCreated publishes a job.created event.
func (p *Producer) PublishJobCreated(ctx context.Context, job *domain.Job) error {
	data := JobCreatedData{
		ID:          job.ID,
		OwnerID:     job.OwnerID,
		CompanyName: job.CompanyName,
		Title:       job.Title,
		City:        job.City,
		Remote:      job.Remote,
		Status:      string(job.Status),
	}

	event, err := pkgkafka.NewEvent(TopicJobCreated, job.ID, AggregateTypeJob, SourceJobBoardAPI, data)
	if err != nil {
		return fmt.Errorf("create job.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicJobCreated, event); err != nil {
		return fmt.Errorf("publish job.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published job.created event",
		slog.String("job_id", job.ID),
		slog.String("owner_id", job.OwnerID),
	)

	return nil
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceJobBoardAPI, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, log *domain.ContactMessageLog) error {
	data := ContactReceivedData{
		LogID:     log.ID,
		Email:     log.Email,
		Outcome:   string(log.Outcome),
		CreatedAt: log.CreatedAt,
	}

	event, err := pkgkafka.NewEvent(TopicContactReceived, log.ID, AggregateTypeContact, SourceJobBoardAPI, data)
	if err != nil {
		return fmt.Errorf("create contact.received event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicContactReceived, event); err != nil {
		return fmt.Errorf("publish contact.received event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.received event",
		slog.String("log_id", log.ID),
		slog.String("outcome", string(log.Outcome)),
	)

	return nil
}
