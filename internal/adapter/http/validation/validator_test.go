package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/core/model/request"
)

func TestFormatValidationErrors(t *testing.T) {
	t.Run("should use json names and english messages", func(t *testing.T) {
		price := "ten"

		err := Validator.Struct(request.ProductRequest{Name: "Lamp", Price: &price, CategoryID: "nope"})
		require.Error(t, err)

		errs := FormatValidationErrors(err)

		fields := map[string]string{}
		for _, e := range errs {
			fields[e.Field] = e.Message
		}

		assert.Equal(t, "Price is not a number", fields["price"])
		assert.Equal(t, "Category is not a valid identifier", fields["category_id"])
	})

	t.Run("should report long values", func(t *testing.T) {
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'a'
		}

		err := Validator.Struct(request.CategoryRequest{Name: string(long)})
		errs := FormatValidationErrors(err)

		require.Len(t, errs, 1)
		assert.Equal(t, "name", errs[0].Field)
		assert.Equal(t, "Name is too long (maximum is 255 characters)", errs[0].Message)
	})

	t.Run("should accept an empty signup so the account validator sees it", func(t *testing.T) {
		assert.NoError(t, Validator.Struct(request.SignUpRequest{}))
	})

	t.Run("should wrap non validator errors as body errors", func(t *testing.T) {
		errs := FormatValidationErrors(errors.New("unexpected EOF"))

		require.Len(t, errs, 1)
		assert.Equal(t, "body", errs[0].Field)
	})

	t.Run("should return nothing for nil", func(t *testing.T) {
		assert.Nil(t, FormatValidationErrors(nil))
	})
}
