// Package checkout turns a cart and an optional confirmed promo into the
// payment session request and the totals shown before redirect.
package checkout

import (
	"strings"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

// ShippingAddress is where the order ships.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Customer is the contact and shipping form.
type Customer struct {
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	Shipping ShippingAddress `json:"shippingAddress"`
}

// SessionLineItem is one charge line as the payment processor expects it.
type SessionLineItem struct {
	ProcessorPriceID string `json:"price"`
	Quantity         int    `json:"quantity"`
}

// SessionRequest is the body sent to the payment session creator.
type SessionRequest struct {
	LineItems          []SessionLineItem `json:"lineItems"`
	CustomerEmail      string            `json:"customerEmail"`
	CustomerName       string            `json:"customerName"`
	ShippingAddress    ShippingAddress   `json:"shippingAddress"`
	PromoCode          string            `json:"promoCode,omitempty"`
	DiscountPercentage *int              `json:"discountPercentage,omitempty"`
}

// Assembly is a validated checkout: the exact request plus display totals.
type Assembly struct {
	Request        SessionRequest
	Subtotal       int64
	DiscountAmount int64
	FinalTotal     int64
}

// Assemble validates the cart and customer and shapes the session request.
// It performs no I/O. Validation failures are *domain.ValidationError.
func Assemble(items []domain.CartLineItem, promo *domain.PromoApplication, customer Customer) (Assembly, error) {
	if len(items) == 0 {
		return Assembly{}, domain.NewValidationError(domain.ErrEmptyCart, "items", "Your cart is empty")
	}
	lines := make([]SessionLineItem, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.ProcessorPriceID) == "" {
			return Assembly{}, domain.NewValidationError(domain.ErrMissingPriceID, "items",
				it.Name+" cannot be purchased right now. Please remove it from your cart")
		}
		lines = append(lines, SessionLineItem{ProcessorPriceID: it.ProcessorPriceID, Quantity: it.Quantity})
	}
	if field := missingContactField(customer); field != "" {
		return Assembly{}, domain.NewValidationError(domain.ErrIncompleteContact, field, "Please fill in all required contact and shipping fields")
	}

	subtotal, ok := cart.CheckedSubtotal(items)
	if !ok {
		return Assembly{}, domain.NewValidationError(domain.ErrTotalOutOfRange, "items",
			"Your cart total is too large to check out. Please reduce the quantities")
	}
	discount, final := Totals(subtotal, promo)
	req := SessionRequest{
		LineItems:       lines,
		CustomerEmail:   strings.TrimSpace(customer.Email),
		CustomerName:    strings.TrimSpace(customer.Name),
		ShippingAddress: trimAddress(customer.Shipping),
	}
	if promo != nil {
		pct := promo.DiscountPercentage
		req.PromoCode = promo.Code
		req.DiscountPercentage = &pct
	}
	return Assembly{
		Request:        req,
		Subtotal:       subtotal,
		DiscountAmount: discount,
		FinalTotal:     final,
	}, nil
}

// Totals applies an optional promo to a subtotal in cents. The discount is
// floored and never exceeds the subtotal.
func Totals(subtotal int64, promo *domain.PromoApplication) (discount, final int64) {
	if promo != nil {
		discount = Discount(subtotal, promo.DiscountPercentage)
	}
	return discount, subtotal - discount
}

// Discount is floor(subtotal * percentage / 100) with percentage clamped to [0,100].
func Discount(subtotal int64, percentage int) int64 {
	if subtotal <= 0 || percentage <= 0 {
		return 0
	}
	if percentage >= 100 {
		return subtotal
	}
	return subtotal/100*int64(percentage) + subtotal%100*int64(percentage)/100
}

func missingContactField(c Customer) string {
	required := []struct{ field, value string }{
		{"email", c.Email},
		{"name", c.Name},
		{"line1", c.Shipping.Line1},
		{"city", c.Shipping.City},
		{"postalCode", c.Shipping.PostalCode},
		{"country", c.Shipping.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return r.field
		}
	}
	return ""
}

func trimAddress(a ShippingAddress) ShippingAddress {
	return ShippingAddress{
		Line1:      strings.TrimSpace(a.Line1),
		Line2:      strings.TrimSpace(a.Line2),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}
