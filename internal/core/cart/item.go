// Package cart defines the cart aggregate, its line items and the immutable
// snapshots used to version it.
package cart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a line item is not in the cart.
	ErrNotFound = errors.New("item not found")
	// ErrInvalidArgument is returned when a mutation is rejected at the boundary.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Money is an amount in minor currency units (cents).
type Money int64

// String formats the amount with two decimal places, e.g. 1050 -> "10.50".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// ParseMoney parses a decimal amount such as "10", "10.5" or "10.50" into
// minor units. More than two fractional digits is an error.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty amount", ErrInvalidArgument)
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (len(frac) == 0 || len(frac) > 2) {
		return 0, fmt.Errorf("%w: amount %q must have one or two decimal places", ErrInvalidArgument, s)
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q: %v", ErrInvalidArgument, s, err)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: amount %q: %v", ErrInvalidArgument, s, err)
		}
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

// LineItem is a single entry in the cart. Items with the same ID are the
// same logical item.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// ExtendedPrice returns Quantity x UnitPrice.
func (li LineItem) ExtendedPrice() Money {
	return Money(int64(li.Quantity) * int64(li.UnitPrice))
}
