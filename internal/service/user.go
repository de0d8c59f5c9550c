package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/event"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
	apperrors "github.com/eternalinsky-max/proponujeprace/pkg/errors"
)

// recentReviewCount is how many reviews a public profile embeds.
const recentReviewCount = 5

// IdentityInput carries the verified token claims used to resolve a local user.
type IdentityInput struct {
	ExternalUID string
	Email       string
	Name        string
	Picture     string
}

// ProfileInput holds the user-editable worker profile fields.
type ProfileInput struct {
	Headline string
	Bio      string
	City     string
}

// UserService implements identity resolution and worker profile operations.
type UserService struct {
	users    *postgres.UserRepository
	reviews  *postgres.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(
	users *postgres.UserRepository,
	reviews *postgres.ReviewRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:    users,
		reviews:  reviews,
		producer: producer,
		logger:   logger,
	}
}

// ResolveIdentity maps a verified external identity to a local user row,
// creating it on first sight and refreshing the identity fields otherwise.
func (s *UserService) ResolveIdentity(ctx context.Context, input *IdentityInput) (*domain.User, error) {
	if input.ExternalUID == "" {
		return nil, apperrors.Unauthorized("token carries no subject")
	}

	now := time.Now().UTC()
	candidate := &domain.User{
		ID:          uuid.New().String(),
		ExternalUID: input.ExternalUID,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Name:        strings.TrimSpace(input.Name),
		Picture:     input.Picture,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	user, err := s.users.UpsertByExternalUID(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	// The upsert keeps the original row ID on conflict, so a returned ID that
	// matches the candidate means the row was just created.
	if user.ID == candidate.ID {
		if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "user registered",
			slog.String("user_id", user.ID),
		)
	}

	return user, nil
}

// GetUser retrieves a user by their internal row ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// GetPublicProfile returns a user's public worker profile with the rating
// aggregate and the most recent visible reviews.
func (s *UserService) GetPublicProfile(ctx context.Context, id string) (*domain.PublicProfile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user for profile: %w", err)
	}

	reviews, _, err := s.reviews.ListByTargetWithAuthors(ctx, domain.TargetUser, id, recentReviewCount, 0)
	if err != nil {
		return nil, fmt.Errorf("list profile reviews: %w", err)
	}

	return &domain.PublicProfile{
		User:    user.Public(),
		Reviews: reviews,
	}, nil
}

// UpdateProfile modifies the caller's worker profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input *ProfileInput) (*domain.User, error) {
	if utf8.RuneCountInString(input.Headline) > 200 {
		return nil, apperrors.InvalidInput("headline must not exceed 200 characters")
	}
	if utf8.RuneCountInString(input.Bio) > 3000 {
		return nil, apperrors.InvalidInput("bio must not exceed 3000 characters")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user for profile update: %w", err)
	}

	user.Headline = strings.TrimSpace(input.Headline)
	user.Bio = input.Bio
	user.City = strings.TrimSpace(input.City)

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", userID),
	)

	return user, nil
}
