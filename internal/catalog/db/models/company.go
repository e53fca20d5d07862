// Package models contains the persistence rows of the catalog,
// configured to work using GORM as the ORM, and their conversion
// to and from the domain models.
package models

import (
	"time"

	domain "github.com/gartstein/catalog/internal/catalog/models"
	"github.com/google/uuid"
)

// Company represents a company entity in the database.
// It uses a UUID as the primary key and includes standard timestamp fields.
// Companies are never deleted, so there is no DeletedAt column.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToDomain converts the row into a domain Company.
func (c Company) ToDomain() domain.Company {
	return domain.Company{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Ref returns the {id, name} projection of the row.
func (c Company) Ref() domain.CompanyRef {
	return domain.CompanyRef{ID: c.ID, Name: c.Name}
}

// CompanyFromDomain builds a row from a domain Company.
func CompanyFromDomain(c *domain.Company) Company {
	return Company{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
