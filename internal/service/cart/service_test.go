package cart

import (
	"context"
	"errors"
	"testing"

	cartstore "storefront/internal/cart"
	"storefront/internal/domain"
)

type stubProducts struct {
	products map[string]domain.ProductRecord
	err      error
	lastID   string
}

func (s *stubProducts) Lookup(_ context.Context, productID string) (domain.ProductRecord, error) {
	s.lastID = productID
	if s.err != nil {
		return domain.ProductRecord{}, s.err
	}
	p, ok := s.products[productID]
	if !ok {
		return domain.ProductRecord{}, domain.ErrNotFound
	}
	return p, nil
}

func fixtures() *stubProducts {
	return &stubProducts{products: map[string]domain.ProductRecord{
		"chains:1": {
			ID: "1", SourceTable: "chains", SourceID: "1", Name: "Cuban",
			BasePrice: 10000, Dimension: domain.DimensionLength,
			VariantOptions: []domain.VariantOption{
				{VariantKey: `18"`, Price: 10000, ProcessorPriceID: "price_18"},
				{VariantKey: `20"`, Price: 12000, ProcessorPriceID: "price_20"},
			},
		},
		"rings:7":   {ID: "7", SourceTable: "rings", SourceID: "7", Name: "Pinky", BasePrice: 500, ProcessorPriceID: "price_ring"},
		"glasses:3": {ID: "3", SourceTable: "glasses", SourceID: "3", Name: "Frames", BasePrice: 900},
	}}
}

func TestAddItemResolvesVariantPrice(t *testing.T) {
	svc := New(fixtures(), nil)
	store := cartstore.NewStore()

	item, err := svc.AddItem(context.Background(), store, "chains:1", domain.SelectedVariant{Length: ` 20" `}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.UnitPrice != 12000 || item.ProcessorPriceID != "price_20" || item.Quantity != 2 {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.Variant.Length != `20"` {
		t.Fatalf("expected trimmed variant, got %q", item.Variant.Length)
	}
	if store.TotalPrice() != 24000 {
		t.Fatalf("expected total 24000, got %d", store.TotalPrice())
	}
}

func TestAddItemBlocks(t *testing.T) {
	svc := New(fixtures(), nil)
	store := cartstore.NewStore()

	_, err := svc.AddItem(context.Background(), store, "chains:1", domain.SelectedVariant{}, 1)
	if !errors.Is(err, domain.ErrSelectionRequired) {
		t.Fatalf("expected selection required, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), store, "glasses:3", domain.SelectedVariant{}, 1)
	if !errors.Is(err, domain.ErrNotPurchasable) {
		t.Fatalf("expected not purchasable, got %v", err)
	}
	_, err = svc.AddItem(context.Background(), store, "rings:404", domain.SelectedVariant{}, 1)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if store.TotalItems() != 0 {
		t.Fatalf("expected untouched cart")
	}
}

func TestUpdateRequiresActions(t *testing.T) {
	svc := New(fixtures(), nil)
	_, err := svc.Update(context.Background(), cartstore.NewStore(), UpdateInput{})
	if err == nil || err.Error() != "actions required" {
		t.Fatalf("expected actions error, got %v", err)
	}
}

func TestUpdateActions(t *testing.T) {
	svc := New(fixtures(), nil)
	store := cartstore.NewStore()
	length18 := domain.SelectedVariant{Length: `18"`}

	sum, err := svc.Update(context.Background(), store, UpdateInput{Actions: []UpdateAction{
		{Action: "addLineItem", ProductID: "rings:7", Quantity: 1},
		{Action: "addLineItem", ProductID: "rings:7"},
		{Action: "addLineItem", ProductID: "chains:1", SelectedVariant: length18, Quantity: 1},
		{Action: "changeLineItemQuantity", ProductID: "chains:1", SelectedVariant: length18, Quantity: 3},
		{Action: "open"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sum.Items) != 2 || sum.TotalItems != 5 || sum.TotalPrice != 31000 || !sum.Open {
		t.Fatalf("unexpected summary %+v", sum)
	}

	sum, err = svc.Update(context.Background(), store, UpdateInput{Actions: []UpdateAction{
		{Action: "changeLineItemQuantity", ProductID: "chains:1", SelectedVariant: length18, Quantity: 0},
		{Action: "removeLineItem", ProductID: "missing"},
		{Action: "toggle"},
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sum.Items) != 1 || sum.TotalPrice != 1000 || sum.Open {
		t.Fatalf("unexpected summary %+v", sum)
	}

	_, err = svc.Update(context.Background(), store, UpdateInput{Actions: []UpdateAction{{Action: "explode"}}})
	if err == nil || err.Error() != "unsupported action" {
		t.Fatalf("expected unsupported action, got %v", err)
	}

	sum, err = svc.Update(context.Background(), store, UpdateInput{Actions: []UpdateAction{{Action: "clear"}}})
	if err != nil || sum.TotalItems != 0 {
		t.Fatalf("expected cleared cart, got %+v err=%v", sum, err)
	}
}

func TestQuoteShowsStartingPrice(t *testing.T) {
	svc := New(fixtures(), nil)
	p, res, err := svc.Quote(context.Background(), "chains:1", domain.SelectedVariant{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name != "Cuban" || res.Selected || res.Price != 10000 {
		t.Fatalf("unexpected quote %+v", res)
	}
}

func TestUpdateFailingBatchLeavesCartUnchanged(t *testing.T) {
	svc := New(fixtures(), nil)
	store := cartstore.NewStore()
	store.AddItem(domain.CartLineItem{ProductID: "rings:7", UnitPrice: 500, ProcessorPriceID: "price_ring", Quantity: 1})

	_, err := svc.Update(context.Background(), store, UpdateInput{Actions: []UpdateAction{
		{Action: "clear"},
		{Action: "addLineItem", ProductID: "chains:1", SelectedVariant: domain.SelectedVariant{Length: `18"`}, Quantity: 1},
		{Action: "addLineItem", ProductID: "chains:1"},
	}})
	if !errors.Is(err, domain.ErrSelectionRequired) {
		t.Fatalf("expected selection required, got %v", err)
	}
	items := store.Items()
	if len(items) != 1 || items[0].ProductID != "rings:7" || store.TotalPrice() != 500 {
		t.Fatalf("expected untouched cart, got %+v", items)
	}
}
