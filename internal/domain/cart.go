package domain

import "math"

// MaxLineQuantity caps the quantity of one cart slot.
const MaxLineQuantity = 999

// SelectedVariant is the shopper's choice for a line item. Length carries the
// product's variant dimension value whatever its kind.
type SelectedVariant struct {
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Length string `json:"length,omitempty"`
}

// IsZero reports whether no variant attribute was chosen.
func (v SelectedVariant) IsZero() bool {
	return v == SelectedVariant{}
}

// Dimension tags the length field with the product's dimension kind.
func (v SelectedVariant) Dimension(kind DimensionKind) VariantDimension {
	return VariantDimension{Kind: kind, Value: v.Length}
}

// CartLineItem is one slot of the cart. UnitPrice is frozen at insertion.
type CartLineItem struct {
	ProductID        string          `json:"productId"`
	Name             string          `json:"name"`
	ImageURL         string          `json:"imageUrl,omitempty"`
	UnitPrice        int64           `json:"unitPrice"`
	ProcessorPriceID string          `json:"processorPriceId,omitempty"`
	Variant          SelectedVariant `json:"selectedVariant"`
	Quantity         int             `json:"quantity"`
}

// SameSlot reports whether the item occupies the slot for productID and variant.
func (i CartLineItem) SameSlot(productID string, variant SelectedVariant) bool {
	return i.ProductID == productID && i.Variant == variant
}

// LineTotal is the unit price times the quantity. It saturates at
// math.MaxInt64 instead of wrapping.
func (i CartLineItem) LineTotal() int64 {
	total, ok := i.CheckedLineTotal()
	if !ok {
		return math.MaxInt64
	}
	return total
}

// CheckedLineTotal reports false when the product does not fit in int64 or
// either factor is negative.
func (i CartLineItem) CheckedLineTotal() (int64, bool) {
	if i.UnitPrice < 0 || i.Quantity < 0 {
		return 0, false
	}
	if i.Quantity == 0 {
		return 0, true
	}
	qty := int64(i.Quantity)
	if i.UnitPrice > math.MaxInt64/qty {
		return 0, false
	}
	return i.UnitPrice * qty, true
}
