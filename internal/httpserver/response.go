package httpserver

import (
	"storefront/internal/domain"
	"storefront/internal/pricing"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
)

type productResponse struct {
	ID                     string            `json:"id"`
	SourceTable            string            `json:"sourceTable"`
	Name                   string            `json:"name"`
	Description            string            `json:"description,omitempty"`
	ImageURL               string            `json:"imageUrl,omitempty"`
	Category               domain.Category   `json:"category"`
	Dimension              string            `json:"dimension,omitempty"`
	Price                  int64             `json:"price"`
	PriceFormatted         string            `json:"priceFormatted"`
	OriginalPrice          *int64            `json:"originalPrice,omitempty"`
	OriginalPriceFormatted string            `json:"originalPriceFormatted,omitempty"`
	Variants               []variantResponse `json:"variants"`
	InStock                bool              `json:"inStock"`
	ShipsToday             bool              `json:"shipsToday"`
	Featured               bool              `json:"featured"`
	Purchasable            bool              `json:"purchasable"`
}

type variantResponse struct {
	Key            string `json:"key"`
	Price          int64  `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
	Available      bool   `json:"available"`
}

type productList struct {
	Count   int               `json:"count"`
	Results []productResponse `json:"results"`
}

type pageResponse struct {
	productList
	Next string `json:"next,omitempty"`
	Done bool   `json:"done"`
}

func toProductResponse(p domain.ProductRecord) productResponse {
	resp := productResponse{
		ID:             p.CompoundKey(),
		SourceTable:    p.SourceTable,
		Name:           p.Name,
		Description:    p.Description,
		ImageURL:       p.ImageURL,
		Category:       p.NormalizedCategory,
		Dimension:      string(p.Dimension),
		Price:          p.BasePrice,
		PriceFormatted: domain.FormatCents(p.BasePrice),
		OriginalPrice:  p.OriginalPrice,
		Variants:       make([]variantResponse, 0, len(p.VariantOptions)),
		InStock:        p.InStock,
		ShipsToday:     p.ShipsToday,
		Featured:       p.Featured,
		Purchasable:    !p.HasVariants() && p.ProcessorPriceID != "",
	}
	if p.OriginalPrice != nil {
		resp.OriginalPriceFormatted = domain.FormatCents(*p.OriginalPrice)
	}
	for _, v := range p.VariantOptions {
		available := v.ProcessorPriceID != ""
		resp.Variants = append(resp.Variants, variantResponse{
			Key:            v.VariantKey,
			Price:          v.Price,
			PriceFormatted: domain.FormatCents(v.Price),
			Available:      available,
		})
		if available {
			resp.Purchasable = true
		}
	}
	return resp
}

func toProductList(records []domain.ProductRecord) productList {
	out := productList{Count: len(records), Results: make([]productResponse, 0, len(records))}
	for _, p := range records {
		out.Results = append(out.Results, toProductResponse(p))
	}
	return out
}

type quoteResponse struct {
	ProductID        string                  `json:"productId"`
	Price            int64                   `json:"price"`
	PriceFormatted   string                  `json:"priceFormatted"`
	ProcessorPriceID string                  `json:"processorPriceId,omitempty"`
	Selected         bool                    `json:"selected"`
	Purchasable      bool                    `json:"purchasable"`
	Dimension        domain.VariantDimension `json:"dimension"`
}

func toQuoteResponse(p domain.ProductRecord, res pricing.Resolution) quoteResponse {
	return quoteResponse{
		ProductID:        p.CompoundKey(),
		Price:            res.Price,
		PriceFormatted:   domain.FormatCents(res.Price),
		ProcessorPriceID: res.ProcessorPriceID,
		Selected:         res.Selected,
		Purchasable:      res.Purchasable,
		Dimension:        res.Dimension,
	}
}

type lineItemResponse struct {
	ProductID          string                 `json:"productId"`
	Name               string                 `json:"name"`
	ImageURL           string                 `json:"imageUrl,omitempty"`
	SelectedVariant    domain.SelectedVariant `json:"selectedVariant"`
	Quantity           int                    `json:"quantity"`
	UnitPrice          int64                  `json:"unitPrice"`
	UnitPriceFormatted string                 `json:"unitPriceFormatted"`
	LineTotal          int64                  `json:"lineTotal"`
	LineTotalFormatted string                 `json:"lineTotalFormatted"`
}

type cartResponse struct {
	LineItems           []lineItemResponse `json:"lineItems"`
	TotalItems          int                `json:"totalItems"`
	TotalPrice          int64              `json:"totalPrice"`
	TotalPriceFormatted string             `json:"totalPriceFormatted"`
	IsOpen              bool               `json:"isOpen"`
}

func toLineItemResponse(item domain.CartLineItem) lineItemResponse {
	total := item.LineTotal()
	return lineItemResponse{
		ProductID:          item.ProductID,
		Name:               item.Name,
		ImageURL:           item.ImageURL,
		SelectedVariant:    item.Variant,
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		UnitPriceFormatted: domain.FormatCents(item.UnitPrice),
		LineTotal:          total,
		LineTotalFormatted: domain.FormatCents(total),
	}
}

func toCartResponse(s cartsvc.Summary) cartResponse {
	items := make([]lineItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, toLineItemResponse(item))
	}
	return cartResponse{
		LineItems:           items,
		TotalItems:          s.TotalItems,
		TotalPrice:          s.TotalPrice,
		TotalPriceFormatted: domain.FormatCents(s.TotalPrice),
		IsOpen:              s.Open,
	}
}

type totalsResponse struct {
	Subtotal                int64                    `json:"subtotal"`
	SubtotalFormatted       string                   `json:"subtotalFormatted"`
	DiscountAmount          int64                    `json:"discountAmount"`
	DiscountAmountFormatted string                   `json:"discountAmountFormatted"`
	FinalTotal              int64                    `json:"finalTotal"`
	FinalTotalFormatted     string                   `json:"finalTotalFormatted"`
	Promo                   *domain.PromoApplication `json:"promo,omitempty"`
}

func toTotalsResponse(subtotal, discount, final int64, promo *domain.PromoApplication) totalsResponse {
	return totalsResponse{
		Subtotal:                subtotal,
		SubtotalFormatted:       domain.FormatCents(subtotal),
		DiscountAmount:          discount,
		DiscountAmountFormatted: domain.FormatCents(discount),
		FinalTotal:              final,
		FinalTotalFormatted:     domain.FormatCents(final),
		Promo:                   promo,
	}
}

func previewResponse(t checkoutsvc.Totals) totalsResponse {
	return toTotalsResponse(t.Subtotal, t.DiscountAmount, t.FinalTotal, t.Promo)
}
