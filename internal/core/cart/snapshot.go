package cart

import "time"

// Snapshot is a point-in-time copy of a cart. It is produced only by
// Cart.Snapshot and never changes after construction.
type Snapshot struct {
	id        string
	entries   []LineItem
	createdAt time.Time
}

// ID returns a short identifier for display.
func (s *Snapshot) ID() string {
	return s.id
}

// Entries returns a copy of the stored entries.
func (s *Snapshot) Entries() []LineItem {
	return cloneItems(s.entries)
}

// CreatedAt returns when the snapshot was taken.
func (s *Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

// Len returns the number of distinct entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// ItemCount returns the sum of all quantities in the snapshot.
func (s *Snapshot) ItemCount() int {
	return itemCount(s.entries)
}

// Total returns the sum of all extended prices in the snapshot.
func (s *Snapshot) Total() Money {
	return total(s.entries)
}
