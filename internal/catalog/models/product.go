package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product defines the domain model for a catalog product.
type Product struct {
	// ID is the unique identifier for the product.
	ID uuid.UUID `json:"id"`
	// Name is the display name of the product.
	Name string `json:"name"`
	// SKU is the stock keeping unit, e.g. "LP-001".
	SKU string `json:"sku"`
	// Price is the non-negative unit price with at most two fractional digits.
	Price decimal.Decimal `json:"price"`
	// CompanyID references the owning company.
	CompanyID uuid.UUID `json:"companyId"`
	// CreatedAt records the timestamp when the product was created.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt records the timestamp when the product was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductWithCompany is a product together with its owner's {id, name} projection.
type ProductWithCompany struct {
	Product
	Company CompanyRef `json:"company"`
}

// ProductInput carries the fields required to create a product.
type ProductInput struct {
	Name      string
	SKU       string
	Price     decimal.Decimal
	CompanyID uuid.UUID
}

// ProductUpdate represents the fields that can be updated for a Product.
// Pointer types are used to allow partial updates.
type ProductUpdate struct {
	// ID is the unique identifier for the product to update.
	ID        uuid.UUID
	Name      *string
	SKU       *string
	Price     *decimal.Decimal
	CompanyID *uuid.UUID
}

// IsEmpty reports whether the update carries no field changes.
func (u *ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.SKU == nil && u.Price == nil && u.CompanyID == nil
}

// DeleteResult acknowledges a successful deletion.
type DeleteResult struct {
	OK bool `json:"ok"`
}
