package db

import (
	"context"

	rows "github.com/gartstein/catalog/internal/catalog/db/models"
	e "github.com/gartstein/catalog/internal/catalog/errors"
	"github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateProduct inserts product and fills in its store-managed timestamps.
// An unknown CompanyID yields ErrConstraintViolation.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	row := rows.ProductFromDomain(product)
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row)
	if result.Error != nil {
		return translateError(result.Error)
	}
	product.CreatedAt = row.CreatedAt
	product.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *Repository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row rows.Product
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}
	product := row.ToDomain()
	return &product, nil
}

// ListProducts returns every product in creation order with the owning
// company's id and name preloaded.
func (r *Repository) ListProducts(ctx context.Context) ([]models.ProductWithCompany, error) {
	var found []rows.Product
	result := r.db.WithContext(ctx).
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Order("created_at ASC").
		Order("id ASC").
		Find(&found)
	if result.Error != nil {
		return nil, translateError(result.Error)
	}

	products := make([]models.ProductWithCompany, 0, len(found))
	for _, row := range found {
		products = append(products, row.ToDomainWithCompany())
	}
	return products, nil
}

// UpdateProduct writes the supplied fields of update. It returns ErrNotFound
// when no row matched the id.
func (r *Repository) UpdateProduct(ctx context.Context, update *models.ProductUpdate) error {
	columns := rows.ProductUpdateColumns(update)
	if len(columns) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&rows.Product{}).
		Where("id = ?", update.ID).
		Updates(columns)

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&rows.Product{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
