package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Run("empty is nil", func(t *testing.T) {
		v := &ValidationError{}
		assert.NoError(t, v.OrNil())

		var nilErr *ValidationError
		assert.NoError(t, nilErr.OrNil())
	})

	t.Run("violations unwrap to invalid input", func(t *testing.T) {
		v := &ValidationError{}
		v.Add("name", "must not be empty")
		v.Add("sku", "must match ^[A-Z0-9-]{2,32}$")

		err := v.OrNil()
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidInput))
		assert.Equal(t, "invalid input: name: must not be empty; sku: must match ^[A-Z0-9-]{2,32}$", err.Error())

		var target *ValidationError
		assert.True(t, errors.As(err, &target))
		assert.Len(t, target.Violations, 2)
	})

}

func TestProductNotFound(t *testing.T) {
	assert.True(t, errors.Is(ErrProductNotFound, ErrNotFound))
	assert.Equal(t, "not found: PRODUCT_NOT_FOUND", ErrProductNotFound.Error())
}
