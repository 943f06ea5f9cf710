package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func TestInferCategory(t *testing.T) {
	cases := []struct {
		raw, productType string
		want             domain.Category
	}{
		{"Moissanite Engagement Ring", "", domain.CategoryEngagementRings},
		{"engagement ring", "", domain.CategoryEngagementRings},
		{"Pinky Ring", "", domain.CategoryRings},
		{"Stud Earrings", "", domain.CategoryEarrings},
		{"Diamond Simulant", "", domain.CategoryDiamondSimulants},
		{"Lab Diamond", "", domain.CategoryDiamond},
		{"Cuban Chain", "", domain.CategoryChains},
		{"", "Tennis Bracelet", domain.CategoryBracelets},
		{"GRILLZ", "", domain.CategoryGrillz},
		{"Sunglasses", "", domain.CategoryGlasses},
		{"Custom Piece", "", domain.CategoryCustom},
		{"Iced Watch", "", domain.CategoryWatches},
		{"Cross Pendant", "", domain.CategoryPendants},
		{"misc", "", domain.CategoryUncategorized},
		{"", "", domain.CategoryUncategorized},
		// chain precedes pendant even when the label names both
		{"Pendant with chain", "", domain.CategoryChains},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferCategory(tc.raw, tc.productType), "raw=%q type=%q", tc.raw, tc.productType)
	}
}

func TestInferCategoryEngagementNeverRings(t *testing.T) {
	for _, raw := range []string{"Engagement Ring", "ring - engagement", "RING ENGAGEMENT set"} {
		assert.Equal(t, domain.CategoryEngagementRings, InferCategory(raw, ""))
	}
}
