package domain

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "github.com/jcmexdev/maison-storefront/internal/catalog/domain"
)

func product(id int, price int64) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     "Product",
		Price:    price,
		Category: "Rings",
		Images:   []string{"/img/a.jpg", "/img/b.jpg"},
	}
}

func TestAdd_SameProductIncrementsByOne(t *testing.T) {
	c := New(nil)
	p := product(7, 1000)

	c.Add(p)
	c.Add(p)

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "/img/a.jpg", lines[0].Image)
}

func TestEndToEnd_AddTwiceThenZeroQuantity(t *testing.T) {
	c := New(nil)
	p := product(1, 1000)

	c.Add(p)
	c.Add(p)
	assert.Equal(t, Totals{Count: 2, Subtotal: 2000, Shipping: 25, Total: 2025}, c.Totals())

	c.SetQuantity(1, 0)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0, c.Count())
}

func TestShippingThreshold(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{0, 25},
		{1, 25},
		{499, 25},
		{500, 25},
		{501, 0},
		{10000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShippingFor(tt.subtotal), "subtotal %d", tt.subtotal)
	}

	c := New(nil)
	c.Add(product(1, 250))
	c.Add(product(1, 250))
	assert.Equal(t, int64(500), c.Subtotal())
	assert.Equal(t, int64(25), c.Shipping())
	assert.Equal(t, int64(525), c.Total())
}

func TestSetQuantity(t *testing.T) {
	c := New(nil)
	c.Add(product(1, 10))
	c.Add(product(2, 20))

	c.SetQuantity(2, 5)
	l, ok := c.Line(2)
	require.True(t, ok)
	assert.Equal(t, 5, l.Quantity)

	c.SetQuantity(1, -3)
	_, ok = c.Line(1)
	assert.False(t, ok)

	// unknown products are not inserted
	c.SetQuantity(99, 4)
	_, ok = c.Line(99)
	assert.False(t, ok)
}

func TestRemoveAndClear(t *testing.T) {
	c := New(nil)
	c.Add(product(1, 10))
	c.Add(product(2, 20))
	c.Add(product(3, 30))

	assert.True(t, c.Remove(2))
	assert.False(t, c.Remove(2))

	ids := []int{}
	for _, l := range c.Lines() {
		ids = append(ids, l.ProductID)
	}
	assert.Equal(t, []int{1, 3}, ids, "insertion order is kept")

	c.Clear()
	assert.True(t, c.IsEmpty())
}

func TestLinesSnapshotProductFields(t *testing.T) {
	c := New(nil)
	p := product(1, 100)
	c.Add(p)

	p.Name = "Renamed"
	p.Price = 999
	c.Add(p)

	l, _ := c.Line(1)
	assert.Equal(t, "Product", l.Name)
	assert.Equal(t, int64(100), l.Price)
	assert.Equal(t, 2, l.Quantity)
}

func TestNew_NormalizesPersistedLines(t *testing.T) {
	c := New([]Line{
		{ProductID: 1, Price: 10, Quantity: 2},
		{ProductID: 2, Price: 10, Quantity: 0},
		{ProductID: 1, Price: 10, Quantity: 1},
		{ProductID: 3, Price: 10, Quantity: -1},
	})

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	c := New(nil)

	for i := 0; i < 2000; i++ {
		id := rng.Intn(6) + 1
		switch rng.Intn(3) {
		case 0:
			c.Add(product(id, int64(id*100)))
		case 1:
			c.Remove(id)
		case 2:
			c.SetQuantity(id, rng.Intn(7)-2)
		}

		sum := 0
		seen := map[int]bool{}
		for _, l := range c.Lines() {
			require.GreaterOrEqual(t, l.Quantity, 1)
			require.False(t, seen[l.ProductID], "duplicate line for %d", l.ProductID)
			seen[l.ProductID] = true
			sum += l.Quantity
		}
		require.Equal(t, sum, c.Count())
		require.Equal(t, c.Subtotal()+c.Shipping(), c.Total())
	}
}
