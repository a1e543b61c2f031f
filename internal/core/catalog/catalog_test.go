package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter(t *testing.T) {
	products := []Product{
		{SKU: "fruit/apple", Name: "Apple", Price: 100},
		{SKU: "fruit/pear", Name: "Pear", Price: 120},
		{SKU: "bakery/bread", Name: "Bread", Price: 350},
		{SKU: "BRD-1", Name: "Baguette", Price: 300},
	}

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{name: "empty matches all", pattern: "", want: []string{"fruit/apple", "fruit/pear", "bakery/bread", "BRD-1"}},
		{name: "single segment", pattern: "fruit/*", want: []string{"fruit/apple", "fruit/pear"}},
		{name: "double star", pattern: "**/bread", want: []string{"bakery/bread"}},
		{name: "prefix", pattern: "BRD-*", want: []string{"BRD-1"}},
		{name: "alternatives", pattern: "{fruit/pear,BRD-1}", want: []string{"fruit/pear", "BRD-1"}},
		{name: "no match", pattern: "dairy/*", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(products, tt.pattern)
			require.NoError(t, err)

			var skus []string
			for _, p := range got {
				skus = append(skus, p.SKU)
			}
			assert.Equal(t, tt.want, skus)
		})
	}

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := Filter(products, "fruit/[")
		assert.Error(t, err)
	})
}
