package commands

import (
	"errors"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/basket/internal/core/catalog"
)

func TestCatalogAddInput_Product(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := CatalogAddInput{SKU: "fruit/apple", Name: "Apple", Price: "0.5"}

		got, err := in.Product()
		require.NoError(t, err)
		assert.Equal(t, catalog.Product{SKU: "fruit/apple", Name: "Apple", Price: 50}, got)
	})

	tests := []struct {
		name       string
		in         CatalogAddInput
		wantFields []string
	}{
		{
			name:       "bad sku",
			in:         CatalogAddInput{SKU: "!apple", Name: "Apple", Price: "1"},
			wantFields: []string{"sku"},
		},
		{
			name:       "blank name",
			in:         CatalogAddInput{SKU: "apple", Name: "  ", Price: "1"},
			wantFields: []string{"name"},
		},
		{
			name:       "negative price",
			in:         CatalogAddInput{SKU: "apple", Name: "Apple", Price: "-1"},
			wantFields: []string{"price"},
		},
		{
			name:       "everything wrong",
			in:         CatalogAddInput{Price: "abc"},
			wantFields: []string{"sku", "name", "price"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Product()

			var fieldErrs criterio.FieldErrors
			require.True(t, errors.As(err, &fieldErrs), "expected criterio.FieldErrors, got %v", err)

			fields := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				fields[i] = fe.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}
