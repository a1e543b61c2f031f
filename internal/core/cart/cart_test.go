package cart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_Add(t *testing.T) {
	t.Run("inserts new items in order", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "Apple", 2, 1000))
		require.NoError(t, c.Add("B", "Bread", 1, 500))

		assert.Equal(t, []LineItem{
			{ID: "A", Name: "Apple", Quantity: 2, UnitPrice: 1000},
			{ID: "B", Name: "Bread", Quantity: 1, UnitPrice: 500},
		}, c.Items())
	})

	t.Run("merges existing id", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "Apple", 2, 1000))
		require.NoError(t, c.Add("A", "Other name", 3, 9999))

		assert.Equal(t, 1, c.Len())
		got, ok := c.Get("A")
		require.True(t, ok)
		assert.Equal(t, LineItem{ID: "A", Name: "Apple", Quantity: 5, UnitPrice: 1000}, got)
	})

	rejected := []struct {
		name     string
		id       string
		quantity int
		price    Money
	}{
		{"zero quantity", "A", 0, 100},
		{"negative quantity", "A", -1, 100},
		{"empty id", "", 1, 100},
		{"negative price", "Z", 1, -1},
		{"quantity above limit", "Z", MaxQuantity + 1, 100},
		{"max int quantity", "Z", math.MaxInt, 100},
		{"price above limit", "Z", 1, MaxUnitPrice + 1},
		{"merge past limit", "A", MaxQuantity - 1, 1000},
	}

	for _, tt := range rejected {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.Add("A", "Apple", 2, 1000))
			before := c.Items()

			err := c.Add(tt.id, "x", tt.quantity, tt.price)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Equal(t, before, c.Items())
		})
	}
}

func TestCart_AddAtLimit(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("A", "Apple", MaxQuantity-1, MaxUnitPrice))
	require.NoError(t, c.Add("A", "Apple", 1, MaxUnitPrice))

	err := c.Add("A", "Apple", 1, MaxUnitPrice)
	require.ErrorIs(t, err, ErrInvalidArgument)

	got, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, MaxQuantity, got.Quantity)
	assert.Positive(t, int64(c.Total()))
}

func TestCart_Remove(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     []LineItem
	}{
		{
			name:     "partial decrement",
			quantity: 1,
			want: []LineItem{
				{ID: "A", Quantity: 2, UnitPrice: 100},
				{ID: "B", Quantity: 1, UnitPrice: 50},
			},
		},
		{
			name:     "exact quantity deletes",
			quantity: 3,
			want:     []LineItem{{ID: "B", Quantity: 1, UnitPrice: 50}},
		},
		{
			name:     "more than quantity deletes",
			quantity: 10,
			want:     []LineItem{{ID: "B", Quantity: 1, UnitPrice: 50}},
		},
		{
			name:     "zero deletes",
			quantity: 0,
			want:     []LineItem{{ID: "B", Quantity: 1, UnitPrice: 50}},
		},
		{
			name:     "negative deletes",
			quantity: -4,
			want:     []LineItem{{ID: "B", Quantity: 1, UnitPrice: 50}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			require.NoError(t, c.Add("A", "", 3, 100))
			require.NoError(t, c.Add("B", "", 1, 50))

			require.NoError(t, c.Remove("A", tt.quantity))
			assert.Equal(t, tt.want, c.Items())
		})
	}

	t.Run("unknown id", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "", 3, 100))

		err := c.Remove("missing", 1)
		require.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("index stays consistent after delete", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "", 1, 100))
		require.NoError(t, c.Add("B", "", 1, 100))
		require.NoError(t, c.Add("C", "", 1, 100))

		require.NoError(t, c.Remove("A", 0))
		require.NoError(t, c.Add("C", "", 2, 0))

		got, ok := c.Get("C")
		require.True(t, ok)
		assert.Equal(t, 3, got.Quantity)
		assert.Equal(t, 2, c.Len())
	})
}

func TestCart_Totals(t *testing.T) {
	c := New()
	assert.Equal(t, Money(0), c.Total())
	assert.Equal(t, 0, c.ItemCount())

	require.NoError(t, c.Add("A", "", 2, 1000))
	require.NoError(t, c.Add("B", "", 1, 500))
	require.NoError(t, c.Add("C", "", 4, 100))

	assert.Equal(t, Money(2900), c.Total())
	assert.Equal(t, 7, c.ItemCount())
	assert.Equal(t, 3, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, Money(0), c.Total())
}

func TestCart_SnapshotIsolation(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("A", "Apple", 2, 1000))

	snap := c.Snapshot()
	want := c.Items()

	require.NoError(t, c.Add("A", "", 5, 0))
	require.NoError(t, c.Add("B", "Bread", 1, 500))
	require.NoError(t, c.Remove("A", 1))

	assert.Equal(t, want, snap.Entries())

	c.Clear()
	assert.Equal(t, want, snap.Entries())
}

func TestCart_Restore(t *testing.T) {
	t.Run("restores entries", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "Apple", 2, 1000))
		snap := c.Snapshot()

		require.NoError(t, c.Add("B", "Bread", 1, 500))
		require.NoError(t, c.Restore(snap))

		assert.Equal(t, snap.Entries(), c.Items())
	})

	t.Run("mutating after restore leaves snapshot intact", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "Apple", 2, 1000))
		snap := c.Snapshot()

		require.NoError(t, c.Restore(snap))
		require.NoError(t, c.Add("A", "", 10, 0))

		assert.Equal(t, 2, snap.Entries()[0].Quantity)
	})

	t.Run("nil snapshot", func(t *testing.T) {
		c := New()
		require.NoError(t, c.Add("A", "Apple", 2, 1000))

		err := c.Restore(nil)
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.Equal(t, 1, c.Len())
	})
}

func TestSnapshot_Entries(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	c := New().WithClock(func() time.Time { return now })
	require.NoError(t, c.Add("A", "Apple", 2, 1000))

	snap := c.Snapshot()

	entries := snap.Entries()
	entries[0].Quantity = 99

	assert.Equal(t, 2, snap.Entries()[0].Quantity, "Entries must return a copy")
	assert.Equal(t, now, snap.CreatedAt())
	assert.Len(t, snap.ID(), 6)
	assert.Equal(t, Money(2000), snap.Total())
	assert.Equal(t, 2, snap.ItemCount())
	assert.Equal(t, 1, snap.Len())
}

func TestMoney(t *testing.T) {
	tests := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{"10", 1000, false},
		{"10.5", 1050, false},
		{"10.50", 1050, false},
		{"0.07", 7, false},
		{".25", 25, false},
		{"-3.10", -310, false},
		{"", 0, true},
		{"1.234", 0, true},
		{"1.", 0, true},
		{"abc", 0, true},
		{"1.x", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "10.50", Money(1050).String())
	assert.Equal(t, "0.07", Money(7).String())
	assert.Equal(t, "-3.10", Money(-310).String())
}
