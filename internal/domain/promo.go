package domain

import "strings"

// PromoApplication is a confirmed promo code and its percentage discount.
type PromoApplication struct {
	Code               string `json:"code"`
	DiscountPercentage int    `json:"discountPercentage"`
}

// NewPromoApplication canonicalizes the code to upper case and clamps the
// percentage to [0,100].
func NewPromoApplication(code string, percentage int) PromoApplication {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return PromoApplication{
		Code:               CanonicalPromoCode(code),
		DiscountPercentage: percentage,
	}
}

// CanonicalPromoCode trims and upper-cases a promo code.
func CanonicalPromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
