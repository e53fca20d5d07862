package models

import (
	"time"

	domain "github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a product row. CompanyID is a foreign key to companies;
// a company that still owns products cannot be removed.
type Product struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"size:255;not null"`
	SKU       string          `gorm:"column:sku;size:32;not null;index"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CompanyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Company   Company         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToDomain converts the row into a domain Product.
func (p Product) ToDomain() domain.Product {
	return domain.Product{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		CompanyID: p.CompanyID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToDomainWithCompany converts the row and its preloaded company projection.
func (p Product) ToDomainWithCompany() domain.ProductWithCompany {
	return domain.ProductWithCompany{
		Product: p.ToDomain(),
		Company: p.Company.Ref(),
	}
}

// ProductFromDomain builds a row from a domain Product. The Company
// association is left empty; only CompanyID is persisted.
func ProductFromDomain(p *domain.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		SKU:       p.SKU,
		Price:     p.Price,
		CompanyID: p.CompanyID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ProductUpdateColumns maps the supplied fields of an update to column values.
func ProductUpdateColumns(u *domain.ProductUpdate) map[string]interface{} {
	columns := make(map[string]interface{}, 4)
	if u.Name != nil {
		columns["name"] = *u.Name
	}
	if u.SKU != nil {
		columns["sku"] = *u.SKU
	}
	if u.Price != nil {
		columns["price"] = *u.Price
	}
	if u.CompanyID != nil {
		columns["company_id"] = *u.CompanyID
	}
	return columns
}
