// Package catalog defines product reference data used to fill in line items.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/hay-kot/basket/internal/core/cart"
)

// ErrNotFound is returned when a product is not in the catalog.
var ErrNotFound = errors.New("product not found")

// Product is a purchasable item with a fixed price.
type Product struct {
	SKU   string     `json:"sku"`
	Name  string     `json:"name"`
	Price cart.Money `json:"price"`
}

// Store defines persistence operations for the catalog.
type Store interface {
	// List returns all products ordered by SKU.
	List(ctx context.Context) ([]Product, error)
	// Get returns a product by SKU. Returns ErrNotFound if not found.
	Get(ctx context.Context, sku string) (Product, error)
	// Save creates or replaces a product.
	Save(ctx context.Context, p Product) error
}

// Filter returns the products whose SKU matches the glob pattern. An empty
// pattern matches everything.
func Filter(products []Product, pattern string) ([]Product, error) {
	if pattern == "" {
		return products, nil
	}

	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	var out []Product
	for _, p := range products {
		ok, err := doublestar.Match(pattern, p.SKU)
		if err != nil {
			return nil, fmt.Errorf("match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}
