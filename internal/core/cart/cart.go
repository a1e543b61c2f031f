package cart

import (
	"fmt"
	"time"

	"github.com/hay-kot/basket/pkg/randid"
)

// Upper bounds for a single line. Together they keep ExtendedPrice well
// inside int64.
const (
	MaxQuantity  = 1_000_000
	MaxUnitPrice = Money(1_000_000_000_000)
)

// Cart is an insertion-ordered collection of line items keyed by ID.
//
// A Cart is not safe for concurrent use.
type Cart struct {
	items []LineItem
	index map[string]int // id -> position in items
	now   func() time.Time
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{
		index: make(map[string]int),
		now:   time.Now,
	}
}

// WithClock sets the clock used to timestamp snapshots.
func (c *Cart) WithClock(now func() time.Time) *Cart {
	c.now = now
	return c
}

// Add inserts a new line item, or increases the quantity of an existing one.
// The name and price of an existing item are kept.
func (c *Cart) Add(id, name string, quantity int, unitPrice Money) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidArgument)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidArgument, quantity)
	}

	if quantity > MaxQuantity {
		return fmt.Errorf("%w: quantity must be at most %d, got %d", ErrInvalidArgument, MaxQuantity, quantity)
	}

	if i, ok := c.index[id]; ok {
		if c.items[i].Quantity > MaxQuantity-quantity {
			return fmt.Errorf("%w: %q would exceed %d units", ErrInvalidArgument, id, MaxQuantity)
		}
		c.items[i].Quantity += quantity
		return nil
	}

	if unitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative, got %s", ErrInvalidArgument, unitPrice)
	}
	if unitPrice > MaxUnitPrice {
		return fmt.Errorf("%w: unit price must be at most %s, got %s", ErrInvalidArgument, MaxUnitPrice, unitPrice)
	}

	c.index[id] = len(c.items)
	c.items = append(c.items, LineItem{
		ID:        id,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	})
	return nil
}

// Remove decrements the quantity of an item. A quantity <= 0, or one that
// meets or exceeds the current quantity, deletes the item.
func (c *Cart) Remove(id string, quantity int) error {
	i, ok := c.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	if quantity <= 0 || quantity >= c.items[i].Quantity {
		c.items = append(c.items[:i], c.items[i+1:]...)
		c.reindex()
		return nil
	}

	c.items[i].Quantity -= quantity
	return nil
}

// Clear removes every item.
func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

// Snapshot returns an immutable copy of the cart's current entries.
func (c *Cart) Snapshot() *Snapshot {
	return &Snapshot{
		id:        randid.Generate(6),
		entries:   cloneItems(c.items),
		createdAt: c.now(),
	}
}

// Restore replaces the cart's entries with a copy of the snapshot's entries.
func (c *Cart) Restore(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: snapshot is nil", ErrInvalidArgument)
	}

	c.items = cloneItems(s.entries)
	c.reindex()
	return nil
}

// Get returns a copy of the item with the given ID.
func (c *Cart) Get(id string) (LineItem, bool) {
	i, ok := c.index[id]
	if !ok {
		return LineItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the entries in insertion order.
func (c *Cart) Items() []LineItem {
	return cloneItems(c.items)
}

// Len returns the number of distinct entries.
func (c *Cart) Len() int {
	return len(c.items)
}

// ItemCount returns the sum of all quantities.
func (c *Cart) ItemCount() int {
	return itemCount(c.items)
}

// Total returns the sum of all extended prices.
func (c *Cart) Total() Money {
	return total(c.items)
}

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, it := range c.items {
		c.index[it.ID] = i
	}
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

func itemCount(items []LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func total(items []LineItem) Money {
	var sum Money
	for _, it := range items {
		sum += it.ExtendedPrice()
	}
	return sum
}
