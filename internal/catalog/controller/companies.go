package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/gartstein/catalog/internal/catalog/models"
	"go.uber.org/zap"
)

// CompanyRepository defines the storage interface for Company objects.
type CompanyRepository interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	UpsertCompaniesByName(ctx context.Context, names []string) ([]models.Company, error)
}

// CompanyService exposes read access to companies and the idempotent seeding
// used to bootstrap a fresh database.
type CompanyService struct {
	repo   CompanyRepository
	logger *zap.Logger
}

func NewCompanyService(repo CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{
		repo:   repo,
		logger: logger.Named("company_service"),
	}
}

// ListCompanies returns every company, without filtering or pagination.
func (s *CompanyService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}

// SeedCompanies makes sure a company exists for every non-blank name.
// Existing companies are left untouched.
func (s *CompanyService) SeedCompanies(ctx context.Context, names []string) ([]models.Company, error) {
	wanted := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		wanted = append(wanted, name)
	}
	if len(wanted) == 0 {
		return []models.Company{}, nil
	}

	companies, err := s.repo.UpsertCompaniesByName(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("failed to seed companies: %w", err)
	}
	for _, c := range companies {
		s.logger.Info("Company ready",
			zap.String("company_id", c.ID.String()),
			zap.String("name", c.Name),
		)
	}
	return companies, nil
}
