package db

import (
	"context"
	"strings"

	rows "github.com/gartstein/catalog/internal/catalog/db/models"
	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
)

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	row := rows.CompanyFromDomain(company)
	result := r.db.WithContext(ctx).Create(&row)
	if result.Error != nil {
		return translateError(result.Error)
	}
	company.CreatedAt = row.CreatedAt
	company.UpdatedAt = row.UpdatedAt
	return nil
}

// ListCompanies returns all companies ordered by name.
func (r *Repository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var found []rows.Company
	result := r.db.WithContext(ctx).Order("name ASC").Find(&found)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	companies := make([]models.Company, 0, len(found))
	for _, row := range found {
		companies = append(companies, row.ToDomain())
	}
	return companies, nil
}

// UpsertCompanyByName returns the company called name, creating it when absent.
// An existing company is returned untouched.
func (r *Repository) UpsertCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var row rows.Company
	result := r.db.WithContext(ctx).
		Where(rows.Company{Name: name}).
		Attrs(rows.Company{ID: uuid.New()}).
		FirstOrCreate(&row)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	company := row.ToDomain()
	return &company, nil
}

// UpsertCompaniesByName upserts every non-blank name in a single transaction.
func (r *Repository) UpsertCompaniesByName(ctx context.Context, names []string) ([]models.Company, error) {
	companies := make([]models.Company, 0, len(names))
	err := r.WithTransaction(ctx, func(tx *Repository) error {
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			company, err := tx.UpsertCompanyByName(ctx, name)
			if err != nil {
				return err
			}
			companies = append(companies, *company)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return companies, nil
}
