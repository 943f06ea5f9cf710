// Package cart holds the per-session line item collection.
package cart

import (
	"math"
	"sync"

	"storefront/internal/domain"
)

// Store is one shopper's cart. Operations are total: bad quantities are
// normalized, never rejected. A mutex serializes callers from concurrent
// HTTP requests on the same session.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartLineItem
	open  bool
}

func NewStore() *Store {
	return &Store{}
}

// AddItem merges draft into the slot for (productId, variant), or appends a
// new slot. Quantities below 1 count as 1 and a slot never holds more than
// domain.MaxLineQuantity. The unit price of an existing slot is never changed.
func (s *Store) AddItem(draft domain.CartLineItem) domain.CartLineItem {
	qty := min(max(draft.Quantity, 1), domain.MaxLineQuantity)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].SameSlot(draft.ProductID, draft.Variant) {
			s.items[i].Quantity = min(s.items[i].Quantity+qty, domain.MaxLineQuantity)
			return s.items[i]
		}
	}
	draft.Quantity = qty
	s.items = append(s.items, draft)
	return draft
}

// UpdateQuantity sets the slot's quantity, capped at domain.MaxLineQuantity;
// below 1 removes it.
func (s *Store) UpdateQuantity(productID string, quantity int, variant domain.SelectedVariant) {
	if quantity < 1 {
		s.RemoveItem(productID, variant)
		return
	}
	quantity = min(quantity, domain.MaxLineQuantity)
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(productID, variant); i >= 0 {
		s.items[i].Quantity = quantity
	}
}

// RemoveItem deletes the slot; absent slots are a no-op.
func (s *Store) RemoveItem(productID string, variant domain.SelectedVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.find(productID, variant); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

func (s *Store) find(productID string, variant domain.SelectedVariant) int {
	for i := range s.items {
		if s.items[i].SameSlot(productID, variant) {
			return i
		}
	}
	return -1
}

// Items returns a copy of the slots in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// TotalPrice is the sum of line totals in cents.
func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Subtotal(s.items)
}

// Subtotal sums unit price times quantity over items, saturating at
// math.MaxInt64.
func Subtotal(items []domain.CartLineItem) int64 {
	total, ok := CheckedSubtotal(items)
	if !ok {
		return math.MaxInt64
	}
	return total
}

// CheckedSubtotal is Subtotal that reports false instead of saturating.
func CheckedSubtotal(items []domain.CartLineItem) (int64, bool) {
	var total int64
	for _, it := range items {
		line, ok := it.CheckedLineTotal()
		if !ok || total > math.MaxInt64-line {
			return 0, false
		}
		total += line
	}
	return total, true
}

// Open, Close and Toggle drive the cart drawer; they carry no business rule.
func (s *Store) Open()  { s.setOpen(true) }
func (s *Store) Close() { s.setOpen(false) }

func (s *Store) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

func (s *Store) setOpen(v bool) {
	s.mu.Lock()
	s.open = v
	s.mu.Unlock()
}
