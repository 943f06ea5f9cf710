package cart

import (
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

var size7 = domain.SelectedVariant{Size: "7"}

func TestAddSameSlotIncrements(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", Variant: size7, UnitPrice: 500, Quantity: 1})
	s.AddItem(domain.CartLineItem{ProductID: "A", Variant: size7, UnitPrice: 500, Quantity: 1})

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(1000), s.TotalPrice())
	assert.Equal(t, 2, s.TotalItems())

	s.UpdateQuantity("A", 0, size7)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
}

func TestAddMergesQuantitiesAndFreezesPrice(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", Variant: size7, UnitPrice: 500, Quantity: 1})
	merged := s.AddItem(domain.CartLineItem{ProductID: "A", Variant: size7, UnitPrice: 900, Quantity: 2})

	assert.Equal(t, 3, merged.Quantity)
	assert.Equal(t, int64(500), merged.UnitPrice)
	assert.Len(t, s.Items(), 1)
}

func TestDistinctVariantsAreDistinctSlots(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", Variant: size7, UnitPrice: 500})
	s.AddItem(domain.CartLineItem{ProductID: "A", Variant: domain.SelectedVariant{Size: "8"}, UnitPrice: 500})
	s.AddItem(domain.CartLineItem{ProductID: "A", UnitPrice: 500})

	assert.Len(t, s.Items(), 3)
	assert.Equal(t, 3, s.TotalItems())
}

func TestAddDefaultsQuantity(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", UnitPrice: 100, Quantity: -3})
	assert.Equal(t, 1, s.TotalItems())
}

func TestUpdateAndRemove(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", UnitPrice: 100})
	s.AddItem(domain.CartLineItem{ProductID: "B", UnitPrice: 250})

	s.UpdateQuantity("B", 4, domain.SelectedVariant{})
	assert.Equal(t, int64(1100), s.TotalPrice())

	s.UpdateQuantity("missing", 4, domain.SelectedVariant{})
	s.RemoveItem("missing", domain.SelectedVariant{})
	s.UpdateQuantity("A", -1, domain.SelectedVariant{})
	assert.Equal(t, []string{"B"}, productIDs(s.Items()))

	s.Clear()
	assert.Equal(t, int64(0), s.TotalPrice())
}

func TestItemsIsACopy(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "A", UnitPrice: 100})
	items := s.Items()
	items[0].Quantity = 50
	assert.Equal(t, 1, s.TotalItems())
}

func TestVisibility(t *testing.T) {
	s := NewStore()
	assert.False(t, s.IsOpen())
	s.Open()
	assert.True(t, s.IsOpen())
	assert.False(t, s.Toggle())
	s.Close()
	assert.False(t, s.IsOpen())
}

func TestTotalsMatchSlotsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	products := []string{"A", "B", "C"}
	variants := []domain.SelectedVariant{{}, size7, {Length: `20"`}}
	prices := map[string]int64{"A": 500, "B": 1299, "C": 7}

	s := NewStore()
	for i := 0; i < 500; i++ {
		id := products[rng.Intn(len(products))]
		v := variants[rng.Intn(len(variants))]
		switch rng.Intn(4) {
		case 0, 1:
			s.AddItem(domain.CartLineItem{ProductID: id, Variant: v, UnitPrice: prices[id], Quantity: rng.Intn(4)})
		case 2:
			s.UpdateQuantity(id, rng.Intn(6)-1, v)
		case 3:
			s.RemoveItem(id, v)
		}

		var wantPrice int64
		wantItems := 0
		for _, it := range s.Items() {
			require.GreaterOrEqual(t, it.Quantity, 1)
			wantPrice += it.UnitPrice * int64(it.Quantity)
			wantItems += it.Quantity
		}
		require.Equal(t, wantPrice, s.TotalPrice())
		require.Equal(t, wantItems, s.TotalItems())
	}
}

func TestQuantityIsCapped(t *testing.T) {
	s := NewStore()
	s.AddItem(domain.CartLineItem{ProductID: "chains:1", UnitPrice: 50000, Quantity: 1})
	s.UpdateQuantity("chains:1", math.MaxInt64/1000, domain.SelectedVariant{})

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, domain.MaxLineQuantity, items[0].Quantity)
	assert.Equal(t, int64(50000*domain.MaxLineQuantity), s.TotalPrice())

	merged := s.AddItem(domain.CartLineItem{ProductID: "chains:1", UnitPrice: 50000, Quantity: 5})
	assert.Equal(t, domain.MaxLineQuantity, merged.Quantity)

	fresh := s.AddItem(domain.CartLineItem{ProductID: "rings:2", UnitPrice: 10, Quantity: 5000})
	assert.Equal(t, domain.MaxLineQuantity, fresh.Quantity)
}

func TestSubtotalSaturates(t *testing.T) {
	items := []domain.CartLineItem{
		{ProductID: "A", UnitPrice: math.MaxInt64 / 2, Quantity: 3},
	}
	_, ok := CheckedSubtotal(items)
	assert.False(t, ok)
	assert.Equal(t, int64(math.MaxInt64), Subtotal(items))

	items = []domain.CartLineItem{
		{ProductID: "A", UnitPrice: math.MaxInt64 - 1, Quantity: 1},
		{ProductID: "B", UnitPrice: 2, Quantity: 1},
	}
	_, ok = CheckedSubtotal(items)
	assert.False(t, ok)

	total, ok := CheckedSubtotal([]domain.CartLineItem{{ProductID: "A", UnitPrice: 250, Quantity: 4}})
	assert.True(t, ok)
	assert.Equal(t, int64(1000), total)
}

func TestConcurrentAdds(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(domain.CartLineItem{ProductID: "A", UnitPrice: 10})
		}()
	}
	wg.Wait()
	assert.Len(t, s.Items(), 1)
	assert.Equal(t, 20, s.TotalItems())
}

func productIDs(items []domain.CartLineItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ProductID)
	}
	return out
}
