// Package models defines the core domain models of the catalog:
// companies, the products they own and the inputs used to change them.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Company defines the domain model for a company entity.
type Company struct {
	// ID is the unique identifier for the company.
	ID uuid.UUID `json:"id"`
	// Name is the company’s unique name.
	Name string `json:"name"`
	// CreatedAt records the timestamp when the company was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt records the timestamp when the company was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyRef is the partial company projection embedded in product listings.
type CompanyRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
