// Package pricing resolves the effective price of a product for a shopper's
// variant selection.
package pricing

import (
	"storefront/internal/domain"
)

// Resolution is the outcome of pricing a product for one selection.
type Resolution struct {
	Price            int64
	ProcessorPriceID string
	// Selected is false while a variant product has no concrete choice; Price
	// then carries the "starting from" base price.
	Selected    bool
	Purchasable bool
	Dimension   domain.VariantDimension
}

// Resolve prices product for sel. It never fails; use ResolveForPurchase to
// gate add-to-cart.
func Resolve(product domain.ProductRecord, sel domain.SelectedVariant) Resolution {
	if !product.HasVariants() {
		return Resolution{
			Price:            product.BasePrice,
			ProcessorPriceID: product.ProcessorPriceID,
			Selected:         true,
			Purchasable:      product.ProcessorPriceID != "",
		}
	}

	dim := sel.Dimension(product.Dimension)
	res := Resolution{
		Price:            product.BasePrice,
		ProcessorPriceID: product.ProcessorPriceID,
		Dimension:        dim,
	}
	if dim.IsZero() {
		return res
	}
	opt, ok := product.Option(dim.Value)
	if !ok {
		return res
	}
	res.Price = opt.Price
	res.ProcessorPriceID = opt.ProcessorPriceID
	res.Selected = true
	res.Purchasable = opt.ProcessorPriceID != ""
	return res
}

// ResolveForPurchase is Resolve with the add-to-cart checks applied: a variant
// product needs a selection matching one of its options, and the result must
// carry a processor price id.
func ResolveForPurchase(product domain.ProductRecord, sel domain.SelectedVariant) (Resolution, error) {
	res := Resolve(product, sel)
	if product.HasVariants() && !res.Selected {
		if res.Dimension.IsZero() {
			return res, domain.NewValidationError(domain.ErrSelectionRequired, string(product.Dimension), selectionPrompt(product.Dimension))
		}
		return res, domain.NewValidationError(domain.ErrVariantUnavailable, string(product.Dimension), "That option is not available for this item")
	}
	if !res.Purchasable {
		return res, domain.NewNotPurchasableError()
	}
	return res, nil
}

func selectionPrompt(kind domain.DimensionKind) string {
	switch kind {
	case domain.DimensionCaratWeight:
		return "Please select a carat weight"
	case domain.DimensionToothCount:
		return "Please select the number of teeth"
	default:
		return "Please select a length"
	}
}
