// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hay-kot/basket/internal/core/cart"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)

// SKU validates a product identifier: letters, digits, '.', '_', '/' and '-',
// starting with a letter or digit.
func SKU(sku string) error {
	if sku == "" {
		return fmt.Errorf("sku is required")
	}
	if !skuPattern.MatchString(sku) {
		return fmt.Errorf("sku %q contains invalid characters", sku)
	}
	return nil
}

// ProductName validates a product name is non-empty after trimming whitespace.
func ProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required")
	}
	return nil
}

// Quantity validates a quantity is positive and within cart.MaxQuantity.
func Quantity(n int) error {
	if n <= 0 {
		return fmt.Errorf("quantity must be positive, got %d", n)
	}
	if n > cart.MaxQuantity {
		return fmt.Errorf("quantity must be at most %d, got %d", cart.MaxQuantity, n)
	}
	return nil
}
