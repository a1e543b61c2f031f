package basket

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/basket/internal/core/cart"
	"github.com/hay-kot/basket/internal/core/catalog"
	"github.com/hay-kot/basket/internal/core/history"
)

// mockCatalog implements catalog.Store for testing.
type mockCatalog struct {
	products map[string]catalog.Product
	err      error
}

func newMockCatalog(products ...catalog.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[string]catalog.Product)}
	for _, p := range products {
		m.products[p.SKU] = p
	}
	return m
}

func (m *mockCatalog) List(_ context.Context) ([]catalog.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []catalog.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalog) Get(_ context.Context, sku string) (catalog.Product, error) {
	if m.err != nil {
		return catalog.Product{}, m.err
	}
	p, ok := m.products[sku]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return p, nil
}

func (m *mockCatalog) Save(_ context.Context, p catalog.Product) error {
	m.products[p.SKU] = p
	return nil
}

func newTestService(t *testing.T, capacity int, store catalog.Store) *Service {
	t.Helper()
	svc, err := New(capacity, store, zerolog.Nop())
	require.NoError(t, err)
	return svc
}

func price(m cart.Money) *cart.Money { return &m }

func add(t *testing.T, svc *Service, id string, qty int, p cart.Money) {
	t.Helper()
	require.NoError(t, svc.Add(context.Background(), AddOptions{ID: id, Name: id, Quantity: qty, Price: price(p)}))
}

func TestNew(t *testing.T) {
	t.Run("saves baseline", func(t *testing.T) {
		svc := newTestService(t, 5, nil)

		st := svc.Status()
		assert.Equal(t, Status{UndoDepth: 1, RedoDepth: 0, Capacity: 5}, st)
		assert.ErrorIs(t, svc.Undo(), history.ErrNothingToUndo)
	})

	t.Run("rejects invalid capacity", func(t *testing.T) {
		_, err := New(0, nil, zerolog.Nop())
		assert.ErrorIs(t, err, history.ErrInvalidCapacity)
	})
}

func TestService_MutationsSave(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 10, nil)

	add(t, svc, "A", 2, 1000)
	add(t, svc, "B", 1, 500)
	require.NoError(t, svc.Remove(ctx, "A", 1))
	require.NoError(t, svc.Clear(ctx))

	assert.Equal(t, 5, svc.Status().UndoDepth)

	require.NoError(t, svc.Undo())
	assert.Equal(t, Totals{Lines: 2, Items: 2, Total: 1500}, svc.Totals())
}

func TestService_FailedMutationDoesNotSave(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 10, nil)
	add(t, svc, "A", 2, 1000)

	err := svc.Remove(ctx, "missing", 1)
	require.ErrorIs(t, err, cart.ErrNotFound)

	err = svc.Add(ctx, AddOptions{ID: "A", Quantity: 0, Price: price(1)})
	require.ErrorIs(t, err, cart.ErrInvalidArgument)

	assert.Equal(t, 2, svc.Status().UndoDepth)
	assert.Equal(t, []cart.LineItem{{ID: "A", Name: "A", Quantity: 2, UnitPrice: 1000}}, svc.Items())
}

func TestService_AddUsesCatalog(t *testing.T) {
	ctx := context.Background()
	store := newMockCatalog(catalog.Product{SKU: "APL", Name: "Apple", Price: 120})

	t.Run("fills name and price", func(t *testing.T) {
		svc := newTestService(t, 10, store)
		require.NoError(t, svc.Add(ctx, AddOptions{ID: "APL", Quantity: 3}))

		assert.Equal(t, []cart.LineItem{{ID: "APL", Name: "Apple", Quantity: 3, UnitPrice: 120}}, svc.Items())
	})

	t.Run("explicit price wins", func(t *testing.T) {
		svc := newTestService(t, 10, store)
		require.NoError(t, svc.Add(ctx, AddOptions{ID: "APL", Quantity: 1, Price: price(99)}))

		assert.Equal(t, []cart.LineItem{{ID: "APL", Name: "Apple", Quantity: 1, UnitPrice: 99}}, svc.Items())
	})

	t.Run("unknown sku without price", func(t *testing.T) {
		svc := newTestService(t, 10, store)
		err := svc.Add(ctx, AddOptions{ID: "NOPE", Quantity: 1})

		require.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Equal(t, 1, svc.Status().UndoDepth)
	})

	t.Run("unknown sku with price", func(t *testing.T) {
		svc := newTestService(t, 10, store)
		require.NoError(t, svc.Add(ctx, AddOptions{ID: "NEW", Quantity: 1, Price: price(10)}))
		assert.Equal(t, 1, svc.Totals().Lines)
	})

	t.Run("existing item merges without lookup", func(t *testing.T) {
		failing := &mockCatalog{err: errors.New("catalog down")}
		svc := newTestService(t, 10, failing)

		require.NoError(t, svc.Add(ctx, AddOptions{ID: "X", Name: "X", Quantity: 1, Price: price(5)}))
		require.NoError(t, svc.Add(ctx, AddOptions{ID: "X", Quantity: 2}))

		assert.Equal(t, 3, svc.Totals().Items)
	})

	t.Run("catalog failure with price", func(t *testing.T) {
		failing := &mockCatalog{err: errors.New("parse catalog file: unexpected EOF")}
		svc := newTestService(t, 10, failing)

		err := svc.Add(ctx, AddOptions{ID: "Y", Quantity: 1, Price: price(5)})
		require.EqualError(t, err, `lookup "Y": parse catalog file: unexpected EOF`)
		assert.Empty(t, svc.Items())
		assert.Equal(t, 1, svc.Status().UndoDepth)
	})

	t.Run("no catalog with price", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		require.NoError(t, svc.Add(ctx, AddOptions{ID: "Y", Quantity: 1, Price: price(5)}))
		assert.Equal(t, []cart.LineItem{{ID: "Y", Quantity: 1, UnitPrice: 5}}, svc.Items())
	})

	t.Run("no catalog and no price", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		err := svc.Add(ctx, AddOptions{ID: "APL", Quantity: 1})
		require.ErrorIs(t, err, cart.ErrInvalidArgument)
	})
}

func TestService_UndoRedo(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, 10, nil)

	add(t, svc, "A", 2, 1000)
	add(t, svc, "B", 1, 500)
	before := svc.Items()

	require.NoError(t, svc.Undo())
	require.NoError(t, svc.Redo())
	assert.Equal(t, before, svc.Items())

	require.NoError(t, svc.Undo())
	add(t, svc, "C", 1, 1)

	assert.ErrorIs(t, svc.Redo(), history.ErrNothingToRedo)
	require.NoError(t, svc.Remove(ctx, "C", 0))
}

func TestService_Eviction(t *testing.T) {
	svc := newTestService(t, 3, nil)

	for _, id := range []string{"A", "B", "C", "D"} {
		add(t, svc, id, 1, 100)
	}

	st := svc.Status()
	assert.Equal(t, 3, st.UndoDepth)
	assert.Equal(t, 2, st.Evicted)

	undo, redo := svc.History()
	require.Len(t, undo, 3)
	assert.Empty(t, redo)
	assert.Equal(t, []int{2, 3, 4}, []int{undo[0].Lines, undo[1].Lines, undo[2].Lines})
	assert.True(t, undo[2].Current)
	assert.False(t, undo[0].Current)

	require.NoError(t, svc.Undo())
	require.NoError(t, svc.Undo())
	assert.ErrorIs(t, svc.Undo(), history.ErrNothingToUndo)
	assert.Equal(t, 2, svc.Totals().Lines)

	_, redo = svc.History()
	require.Len(t, redo, 2)
	assert.Equal(t, 3, redo[0].Lines, "next redo first")
}

func TestService_ResetHistory(t *testing.T) {
	svc := newTestService(t, 10, nil)
	add(t, svc, "A", 1, 100)
	add(t, svc, "B", 1, 100)
	require.NoError(t, svc.Undo())

	require.NoError(t, svc.ResetHistory())

	st := svc.Status()
	assert.Equal(t, 1, st.UndoDepth)
	assert.Equal(t, 0, st.RedoDepth)
	assert.ErrorIs(t, svc.Undo(), history.ErrNothingToUndo)
	assert.Equal(t, 1, svc.Totals().Lines, "cart is kept as the new baseline")
}

func TestService_Batch(t *testing.T) {
	ctx := context.Background()

	t.Run("commit saves one entry", func(t *testing.T) {
		svc := newTestService(t, 10, nil)

		err := svc.Batch(func() error {
			add(t, svc, "A", 1, 100)
			add(t, svc, "B", 1, 100)
			return svc.Remove(ctx, "A", 0)
		})
		require.NoError(t, err)

		assert.Equal(t, 2, svc.Status().UndoDepth)
		require.NoError(t, svc.Undo())
		assert.Equal(t, 0, svc.Totals().Lines)
	})

	t.Run("error rolls back", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		add(t, svc, "A", 1, 100)

		err := svc.Batch(func() error {
			add(t, svc, "B", 1, 100)
			return svc.Remove(ctx, "missing", 1)
		})
		require.ErrorIs(t, err, cart.ErrNotFound)

		assert.Equal(t, []cart.LineItem{{ID: "A", Name: "A", Quantity: 1, UnitPrice: 100}}, svc.Items())
		assert.Equal(t, 2, svc.Status().UndoDepth)
		assert.False(t, svc.Status().BatchOpen)
	})

	t.Run("history locked while open", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		add(t, svc, "A", 1, 100)
		require.NoError(t, svc.Begin())

		assert.ErrorIs(t, svc.Undo(), ErrBatchOpen)
		assert.ErrorIs(t, svc.Redo(), ErrBatchOpen)
		assert.ErrorIs(t, svc.ResetHistory(), ErrBatchOpen)
		assert.ErrorIs(t, svc.Begin(), ErrBatchOpen)
		assert.True(t, svc.Status().BatchOpen)

		require.NoError(t, svc.Rollback())
		require.NoError(t, svc.Undo())
	})

	t.Run("commit without batch", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		assert.ErrorIs(t, svc.Commit(), ErrNoBatch)
		assert.ErrorIs(t, svc.Rollback(), ErrNoBatch)
	})
}

func TestService_SearchCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by glob", func(t *testing.T) {
		store := newMockCatalog(
			catalog.Product{SKU: "fruit/apple", Name: "Apple"},
			catalog.Product{SKU: "bakery/bread", Name: "Bread"},
		)
		svc := newTestService(t, 10, store)

		got, err := svc.SearchCatalog(ctx, "fruit/*")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Apple", got[0].Name)
	})

	t.Run("no catalog", func(t *testing.T) {
		svc := newTestService(t, 10, nil)
		got, err := svc.SearchCatalog(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("store error", func(t *testing.T) {
		svc := newTestService(t, 10, &mockCatalog{err: errors.New("boom")})
		_, err := svc.SearchCatalog(ctx, "")
		assert.Error(t, err)
	})
}
