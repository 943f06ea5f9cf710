package domain

import "github.com/shopspring/decimal"

// FormatCents renders an amount in the smallest currency unit with two decimals.
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
