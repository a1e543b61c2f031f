// Package basket orchestrates a cart and its undo/redo history.
package basket

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/catalog"
	"github.com/hay-kot/basket/internal/core/history"
)

var (
	// ErrBatchOpen is returned when an operation is not allowed while a batch
	// is open.
	ErrBatchOpen = errors.New("a batch is open; commit or rollback first")
	// ErrNoBatch is returned by Commit and Rollback when no batch is open.
	ErrNoBatch = errors.New("no batch is open")
)

// AddOptions configures Service.Add. When Name is empty or Price is nil the
// missing values are looked up in the catalog by ID.
type AddOptions struct {
	ID       string
	Name     string
	Quantity int
	Price    *cart.Money
}

// Status summarises the history state.
type Status struct {
	UndoDepth int  `json:"undo_depth"`
	RedoDepth int  `json:"redo_depth"`
	Capacity  int  `json:"capacity"`
	Evicted   int  `json:"evicted"`
	BatchOpen bool `json:"batch_open"`
}

// Totals summarises the cart contents.
type Totals struct {
	Lines int        `json:"lines"`
	Items int        `json:"items"`
	Total cart.Money `json:"total"`
}

// HistoryEntry describes one snapshot for display.
type HistoryEntry struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	Lines     int        `json:"lines"`
	Items     int        `json:"items"`
	Total     cart.Money `json:"total"`
	Current   bool       `json:"current"`
}

// Service owns one cart and its history. Every mutation is followed by a
// save unless a batch is open, in which case the batch is saved as a single
// history entry on Commit.
//
// A Service is not safe for concurrent use.
type Service struct {
	cart    *cart.Cart
	history *history.Manager[*cart.Snapshot]
	catalog catalog.Store
	log     zerolog.Logger
	batch   bool
}

// New creates a Service with an empty cart and saves it as the baseline.
// catalogStore may be nil, in which case Add requires a name and price.
func New(capacity int, catalogStore catalog.Store, log zerolog.Logger) (*Service, error) {
	h, err := history.New[*cart.Snapshot](capacity)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cart:    cart.New(),
		history: h,
		catalog: catalogStore,
		log:     log,
	}
	s.history.Save(s.cart)

	s.log.Debug().Int("capacity", capacity).Msg("history initialised")
	return s, nil
}

// Add adds a line item, filling in missing details from the catalog.
func (s *Service) Add(ctx context.Context, opts AddOptions) error {
	name, price := opts.Name, opts.Price

	if _, exists := s.cart.Get(opts.ID); !exists && (name == "" || price == nil) {
		p, err := s.lookup(ctx, opts.ID)
		switch {
		case err == nil:
			if name == "" {
				name = p.Name
			}
			if price == nil {
				price = &p.Price
			}
		case price == nil:
			return err
		case s.catalog != nil && !errors.Is(err, catalog.ErrNotFound):
			// A given price only covers for a missing product, not a broken catalog.
			return err
		}
	}

	var unitPrice cart.Money
	if price != nil {
		unitPrice = *price
	}

	if err := s.cart.Add(opts.ID, name, opts.Quantity, unitPrice); err != nil {
		return fmt.Errorf("add %q: %w", opts.ID, err)
	}

	s.log.Debug().Str("id", opts.ID).Int("quantity", opts.Quantity).Msg("item added")
	s.commitChange()
	return nil
}

// Remove removes quantity units of an item; quantity <= 0 removes it entirely.
func (s *Service) Remove(_ context.Context, id string, quantity int) error {
	if err := s.cart.Remove(id, quantity); err != nil {
		return fmt.Errorf("remove %q: %w", id, err)
	}

	s.log.Debug().Str("id", id).Int("quantity", quantity).Msg("item removed")
	s.commitChange()
	return nil
}

// Clear empties the cart.
func (s *Service) Clear(_ context.Context) error {
	s.cart.Clear()

	s.log.Debug().Msg("cart cleared")
	s.commitChange()
	return nil
}

// Undo restores the previous saved state.
func (s *Service) Undo() error {
	if s.batch {
		return ErrBatchOpen
	}
	if err := s.history.Undo(s.cart); err != nil {
		return err
	}

	s.log.Debug().Int("undo_depth", s.history.Depth()).Int("redo_depth", s.history.RedoDepth()).Msg("undo")
	return nil
}

// Redo reapplies the most recently undone state.
func (s *Service) Redo() error {
	if s.batch {
		return ErrBatchOpen
	}
	if err := s.history.Redo(s.cart); err != nil {
		return err
	}

	s.log.Debug().Int("undo_depth", s.history.Depth()).Int("redo_depth", s.history.RedoDepth()).Msg("redo")
	return nil
}

// ResetHistory discards all undo and redo entries and saves the current cart
// as the new baseline.
func (s *Service) ResetHistory() error {
	if s.batch {
		return ErrBatchOpen
	}

	dropped := s.history.Depth() - 1 + s.history.RedoDepth()
	s.history.Clear()
	s.history.Save(s.cart)

	s.log.Info().Int("dropped", dropped).Msg("history reset")
	return nil
}

// Begin opens a batch. Mutations made until Commit are saved as one entry.
func (s *Service) Begin() error {
	if s.batch {
		return ErrBatchOpen
	}
	s.batch = true
	s.log.Debug().Msg("batch opened")
	return nil
}

// Commit closes the batch and saves its mutations as one history entry.
func (s *Service) Commit() error {
	if !s.batch {
		return ErrNoBatch
	}
	s.batch = false
	s.save()
	s.log.Debug().Msg("batch committed")
	return nil
}

// Rollback closes the batch and restores the last saved state.
func (s *Service) Rollback() error {
	if !s.batch {
		return ErrNoBatch
	}
	s.batch = false

	current, ok := s.history.Current()
	if !ok {
		return fmt.Errorf("rollback: %w", history.ErrNothingToUndo)
	}
	if err := s.cart.Restore(current); err != nil {
		return fmt.Errorf("rollback: %w", err)
	}

	s.log.Debug().Msg("batch rolled back")
	return nil
}

// Batch runs fn inside a batch. If fn returns an error the batch is rolled
// back and the error returned; otherwise it is committed.
func (s *Service) Batch(fn func() error) error {
	if err := s.Begin(); err != nil {
		return err
	}

	if err := fn(); err != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return s.Commit()
}

// Items returns a copy of the cart's line items.
func (s *Service) Items() []cart.LineItem {
	return s.cart.Items()
}

// Totals returns the cart's derived totals.
func (s *Service) Totals() Totals {
	return Totals{
		Lines: s.cart.Len(),
		Items: s.cart.ItemCount(),
		Total: s.cart.Total(),
	}
}

// Status returns the history state.
func (s *Service) Status() Status {
	return Status{
		UndoDepth: s.history.Depth(),
		RedoDepth: s.history.RedoDepth(),
		Capacity:  s.history.Capacity(),
		Evicted:   s.history.Evicted(),
		BatchOpen: s.batch,
	}
}

// History returns the undo stack oldest first, and the redo stack with the
// next redo first.
func (s *Service) History() (undo []HistoryEntry, redo []HistoryEntry) {
	entries := s.history.Entries()
	undo = make([]HistoryEntry, len(entries))
	for i, snap := range entries {
		undo[i] = toEntry(snap)
	}
	if len(undo) > 0 {
		undo[len(undo)-1].Current = true
	}

	for _, snap := range s.history.RedoEntries() {
		redo = append(redo, toEntry(snap))
	}

	return undo, redo
}

// SearchCatalog returns catalog products whose SKU matches the glob pattern.
func (s *Service) SearchCatalog(ctx context.Context, pattern string) ([]catalog.Product, error) {
	if s.catalog == nil {
		return nil, nil
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}

	return catalog.Filter(products, pattern)
}

func (s *Service) lookup(ctx context.Context, id string) (catalog.Product, error) {
	if s.catalog == nil {
		return catalog.Product{}, fmt.Errorf("add %q: no price given and no catalog configured: %w", id, cart.ErrInvalidArgument)
	}

	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return catalog.Product{}, fmt.Errorf("add %q: no price given: %w", id, err)
		}
		return catalog.Product{}, fmt.Errorf("lookup %q: %w", id, err)
	}
	return p, nil
}

// commitChange saves the cart unless a batch is open.
func (s *Service) commitChange() {
	if s.batch {
		return
	}
	s.save()
}

func (s *Service) save() {
	evicted := s.history.Evicted()
	s.history.Save(s.cart)

	if n := s.history.Evicted() - evicted; n > 0 {
		s.log.Debug().Int("evicted", n).Int("capacity", s.history.Capacity()).Msg("oldest history entry evicted")
	}
}

func toEntry(snap *cart.Snapshot) HistoryEntry {
	return HistoryEntry{
		ID:        snap.ID(),
		CreatedAt: snap.CreatedAt(),
		Lines:     snap.Len(),
		Items:     snap.ItemCount(),
		Total:     snap.Total(),
	}
}
