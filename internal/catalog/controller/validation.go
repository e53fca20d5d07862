package controller

import (
	"regexp"
	"strings"

	e "github.com/gartstein/catalog/internal/catalog/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of fractional digits a price may carry.
const PriceScale = 2

// MaxPrice is the largest price the decimal(12,2) price column holds.
var MaxPrice = decimal.RequireFromString("9999999999.99")

var skuPattern = regexp.MustCompile(`^[A-Z0-9-]{2,32}$`)

func validateName(v *e.ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		v.Add("name", "must not be empty")
	}
}

func validateSKU(v *e.ValidationError, sku string) {
	if !skuPattern.MatchString(sku) {
		v.Add("sku", "must match "+skuPattern.String())
	}
}

func validatePrice(v *e.ValidationError, price decimal.Decimal) {
	if price.IsNegative() {
		v.Add("price", "must not be negative")
	}
	if price.GreaterThan(MaxPrice) {
		v.Add("price", "must not exceed "+MaxPrice.StringFixed(PriceScale))
	}
	if !price.Equal(price.Truncate(PriceScale)) {
		v.Add("price", "must have at most 2 decimal places")
	}
}

func validateCompanyID(v *e.ValidationError, id uuid.UUID) {
	if id == uuid.Nil {
		v.Add("companyId", "must be a valid UUID")
	}
}
