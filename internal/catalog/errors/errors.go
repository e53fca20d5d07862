// Package errors declares the error taxonomy shared by the repository,
// service and transport layers.
package errors

import (
	"fmt"
	"strings"
)

var (
	ErrNotFound            = fmt.Errorf("not found")
	ErrDuplicateName       = fmt.Errorf("duplicate name")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrConstraintViolation = fmt.Errorf("constraint violation")

	// ErrProductNotFound is returned by product lookups and mutations on a missing id.
	ErrProductNotFound = fmt.Errorf("%w: PRODUCT_NOT_FOUND", ErrNotFound)
)

// FieldViolation describes a single invalid input field.
type FieldViolation struct {
	Field       string
	Description string
}

// ValidationError collects field-level input problems. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Violations []FieldViolation
}

// Add records a violation for field.
func (v *ValidationError) Add(field, description string) {
	v.Violations = append(v.Violations, FieldViolation{Field: field, Description: description})
}

// OrNil returns v as an error when it holds violations, nil otherwise.
func (v *ValidationError) OrNil() error {
	if v == nil || len(v.Violations) == 0 {
		return nil
	}
	return v
}

func (v *ValidationError) Error() string {
	parts := make([]string, 0, len(v.Violations))
	for _, fv := range v.Violations {
		parts = append(parts, fv.Field+": "+fv.Description)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput, strings.Join(parts, "; "))
}

func (v *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
