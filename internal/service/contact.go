package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/eternalinsky-max/proponujeprace/internal/antispam"
	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/event"
	"github.com/eternalinsky-max/proponujeprace/internal/mailer"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	"github.com/eternalinsky-max/proponujeprace/pkg/validator"
)

// Time-trap bounds: forms submitted faster than a human can type or held
// open longer than a session plausibly lasts are treated as spam.
const (
	minFormRoundTrip = 5 * time.Second
	maxFormRoundTrip = 2 * time.Hour
)

// ContactInput holds a contact form submission plus the request metadata the
// anti-spam pipeline needs.
type ContactInput struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,min=10,max=5000"`

	// Website is a honeypot: hidden in the form, so any value means a bot.
	Website string `json:"website"`
	// StartedAt is the unix millisecond timestamp the form was rendered at.
	StartedAt int64 `json:"started_at"`

	ClientIP  string `json:"-"`
	UserAgent string `json:"-"`
}

// ContactResult is the outcome reported back to the submitter. Spam is not
// revealed to the caller beyond the flag used by tests; the HTTP layer
// replies 200 either way so bots learn nothing.
type ContactResult struct {
	OK   bool `json:"ok"`
	Spam bool `json:"-"`
}

// RateLimitError carries the limiter verdict so the HTTP layer can set
// Retry-After and X-RateLimit-* headers.
type RateLimitError struct {
	Verdict antispam.Verdict
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.Verdict.RetryAfter)
}

// ContactService runs the contact form pipeline: rate limit, validate,
// honeypot, time-trap, deliver. Every attempt is recorded in the contact log
// regardless of outcome.
type ContactService struct {
	limiter  *antispam.Limiter
	mail     *mailer.Mailer
	logs     *postgres.ContactLogRepository
	producer *event.Producer
	to       string
	logger   *slog.Logger

	nowFunc func() time.Time
}

// NewContactService creates a new contact service delivering to the given
// recipient address.
func NewContactService(
	limiter *antispam.Limiter,
	mail *mailer.Mailer,
	logs *postgres.ContactLogRepository,
	producer *event.Producer,
	to string,
	logger *slog.Logger,
) *ContactService {
	return &ContactService{
		limiter:  limiter,
		mail:     mail,
		logs:     logs,
		producer: producer,
		to:       to,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// Submit runs a contact form submission through the pipeline.
func (s *ContactService) Submit(ctx context.Context, input *ContactInput) (*ContactResult, error) {
	verdict := s.limiter.Allow(ctx, input.ClientIP)
	if !verdict.Allowed {
		s.record(ctx, input, domain.ContactOutcomeRateLimited, "sliding window exceeded")
		return nil, &RateLimitError{Verdict: verdict}
	}

	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	if reason := s.spamReason(input); reason != "" {
		s.record(ctx, input, domain.ContactOutcomeSpam, reason)
		s.logger.InfoContext(ctx, "contact submission classified as spam",
			slog.String("reason", reason),
			slog.String("client_ip", input.ClientIP),
		)
		// Bots get the same answer as humans.
		return &ContactResult{OK: true, Spam: true}, nil
	}

	err := s.mail.Send(ctx, &mailer.Message{
		FromName: input.Name,
		ReplyTo:  input.Email,
		To:       s.to,
		Subject:  subjectOrDefault(input.Subject),
		Text:     input.Message,
	})
	if err != nil {
		s.record(ctx, input, domain.ContactOutcomeError, err.Error())
		return nil, fmt.Errorf("deliver contact message: %w", err)
	}

	s.record(ctx, input, domain.ContactOutcomeOK, "")

	s.logger.InfoContext(ctx, "contact message delivered",
		slog.String("email", input.Email),
	)

	return &ContactResult{OK: true}, nil
}

// spamReason returns a non-empty reason when the submission trips the
// honeypot or the time-trap.
func (s *ContactService) spamReason(input *ContactInput) string {
	if input.Website != "" {
		return "honeypot"
	}

	if input.StartedAt > 0 {
		elapsed := s.nowFunc().Sub(time.UnixMilli(input.StartedAt))
		if elapsed < minFormRoundTrip {
			return "form submitted too fast"
		}
		if elapsed > maxFormRoundTrip {
			return "form expired"
		}
	}

	return ""
}

// record writes the attempt to the contact log and publishes the event.
// Neither may fail the request.
func (s *ContactService) record(ctx context.Context, input *ContactInput, outcome domain.ContactOutcome, reason string) {
	log := &domain.ContactMessageLog{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Email:      input.Email,
		Subject:    input.Subject,
		Message:    input.Message,
		Outcome:    outcome,
		SpamReason: reason,
		ClientIP:   input.ClientIP,
		UserAgent:  input.UserAgent,
		CreatedAt:  s.nowFunc().UTC(),
	}

	if err := s.logs.Insert(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "failed to record contact log",
			slog.String("outcome", string(outcome)),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.producer.PublishContactReceived(ctx, log); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("log_id", log.ID),
			slog.String("error", err.Error()),
		)
	}
}

func subjectOrDefault(subject string) string {
	if subject == "" {
		return "Contact form message"
	}
	return subject
}
