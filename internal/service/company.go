package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/eternalinsky-max/proponujeprace/internal/domain"
	"github.com/eternalinsky-max/proponujeprace/internal/repository/postgres"
)

// CompanyProfile is a company joined with its most recent visible reviews.
type CompanyProfile struct {
	Company *domain.Company           `json:"company"`
	Reviews []domain.ReviewWithAuthor `json:"recent_reviews"`
}

// CompanyService implements public company listing and profile operations.
type CompanyService struct {
	companies *postgres.CompanyRepository
	reviews   *postgres.ReviewRepository
	logger    *slog.Logger
}

// NewCompanyService creates a new company service.
func NewCompanyService(companies *postgres.CompanyRepository, reviews *postgres.ReviewRepository, logger *slog.Logger) *CompanyService {
	return &CompanyService{
		companies: companies,
		reviews:   reviews,
		logger:    logger,
	}
}

// ListCompanies returns companies ordered by blended rating, best first.
func (s *CompanyService) ListCompanies(ctx context.Context, page, perPage int) ([]domain.Company, int, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	companies, total, err := s.companies.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}

	return companies, total, nil
}

// GetCompanyProfile returns a company with its rating aggregate and the most
// recent visible reviews.
func (s *CompanyService) GetCompanyProfile(ctx context.Context, id string) (*CompanyProfile, error) {
	company, err := s.companies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}

	reviews, _, err := s.reviews.ListByTargetWithAuthors(ctx, domain.TargetCompany, id, recentReviewCount, 0)
	if err != nil {
		return nil, fmt.Errorf("list company reviews: %w", err)
	}

	return &CompanyProfile{
		Company: company,
		Reviews: reviews,
	}, nil
}
