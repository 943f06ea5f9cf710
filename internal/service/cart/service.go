package cart

import (
	"context"
	"strings"

	"go.uber.org/zap"

	cartstore "storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/pricing"
)

type productLookup interface {
	Lookup(ctx context.Context, productID string) (domain.ProductRecord, error)
}

// Service prices products for add-to-cart and applies cart update actions.
type Service struct {
	products productLookup
	logger   *zap.Logger
}

func New(products productLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{products: products, logger: logger}
}

type UpdateInput struct {
	Actions []UpdateAction `json:"actions"`
}

type UpdateAction struct {
	Action          string                 `json:"action"`
	ProductID       string                 `json:"productId,omitempty"`
	SelectedVariant domain.SelectedVariant `json:"selectedVariant"`
	Quantity        int                    `json:"quantity,omitempty"`
}

// Summary is the cart as shown to the shopper.
type Summary struct {
	Items      []domain.CartLineItem
	TotalItems int
	TotalPrice int64
	Open       bool
}

func Summarize(store *cartstore.Store) Summary {
	items := store.Items()
	return Summary{
		Items:      items,
		TotalItems: store.TotalItems(),
		TotalPrice: cartstore.Subtotal(items),
		Open:       store.IsOpen(),
	}
}

// Quote prices a product for a selection without touching any cart.
func (s *Service) Quote(ctx context.Context, productID string, sel domain.SelectedVariant) (domain.ProductRecord, pricing.Resolution, error) {
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		return domain.ProductRecord{}, pricing.Resolution{}, err
	}
	return product, pricing.Resolve(product, normalizeVariant(sel)), nil
}

// AddItem resolves the current price of the selection and adds it to store.
// The price is frozen in the cart from here on.
func (s *Service) AddItem(ctx context.Context, store *cartstore.Store, productID string, sel domain.SelectedVariant, quantity int) (domain.CartLineItem, error) {
	draft, err := s.draft(ctx, productID, sel, quantity)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	return store.AddItem(draft), nil
}

// draft prices a would-be line item without touching any cart.
func (s *Service) draft(ctx context.Context, productID string, sel domain.SelectedVariant, quantity int) (domain.CartLineItem, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return domain.CartLineItem{}, domain.NewValidationError(domain.ErrInvalidInput, "productId", "productId required")
	}
	product, err := s.products.Lookup(ctx, productID)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	sel = normalizeVariant(sel)
	res, err := pricing.ResolveForPurchase(product, sel)
	if err != nil {
		s.logger.Debug("add to cart blocked", zap.String("product", productID), zap.Error(err))
		return domain.CartLineItem{}, err
	}
	return domain.CartLineItem{
		ProductID:        product.CompoundKey(),
		Name:             product.Name,
		ImageURL:         product.ImageURL,
		UnitPrice:        res.Price,
		ProcessorPriceID: res.ProcessorPriceID,
		Variant:          sel,
		Quantity:         quantity,
	}, nil
}

// Update applies actions in order. Every action is checked and every add is
// priced before the store changes, so a failing batch leaves the cart as it
// was.
func (s *Service) Update(ctx context.Context, store *cartstore.Store, in UpdateInput) (Summary, error) {
	if len(in.Actions) == 0 {
		return Summary{}, domain.NewValidationError(domain.ErrInvalidInput, "actions", "actions required")
	}
	steps := make([]func(), 0, len(in.Actions))
	for _, action := range in.Actions {
		sel := normalizeVariant(action.SelectedVariant)
		productID := strings.TrimSpace(action.ProductID)
		qty := action.Quantity
		switch strings.ToLower(strings.TrimSpace(action.Action)) {
		case "addlineitem":
			draft, err := s.draft(ctx, productID, sel, qty)
			if err != nil {
				return Summary{}, err
			}
			steps = append(steps, func() { store.AddItem(draft) })
		case "changelineitemquantity":
			if productID == "" {
				return Summary{}, domain.NewValidationError(domain.ErrInvalidInput, "productId", "productId required")
			}
			steps = append(steps, func() { store.UpdateQuantity(productID, qty, sel) })
		case "removelineitem":
			if productID == "" {
				return Summary{}, domain.NewValidationError(domain.ErrInvalidInput, "productId", "productId required")
			}
			steps = append(steps, func() { store.RemoveItem(productID, sel) })
		case "clear":
			steps = append(steps, store.Clear)
		case "open":
			steps = append(steps, store.Open)
		case "close":
			steps = append(steps, store.Close)
		case "toggle":
			steps = append(steps, func() { store.Toggle() })
		default:
			return Summary{}, domain.NewValidationError(domain.ErrInvalidInput, "action", "unsupported action")
		}
	}
	for _, step := range steps {
		step()
	}
	return Summarize(store), nil
}

func normalizeVariant(v domain.SelectedVariant) domain.SelectedVariant {
	return domain.SelectedVariant{
		Size:   strings.TrimSpace(v.Size),
		Color:  strings.TrimSpace(v.Color),
		Length: strings.TrimSpace(v.Length),
	}
}
