package catalog

import (
	"strings"

	"storefront/internal/domain"
)

type categoryRule struct {
	needles  []string
	category domain.Category
}

// categoryRules is checked top to bottom and the first hit wins. "engagement"
// must precede "ring", "earring" must precede "ring", and the simulant rule
// must precede "diamond".
var categoryRules = []categoryRule{
	{needles: []string{"chain"}, category: domain.CategoryChains},
	{needles: []string{"bracelet"}, category: domain.CategoryBracelets},
	{needles: []string{"watch"}, category: domain.CategoryWatches},
	{needles: []string{"pendant"}, category: domain.CategoryPendants},
	{needles: []string{"earring"}, category: domain.CategoryEarrings},
	{needles: []string{"grill"}, category: domain.CategoryGrillz},
	{needles: []string{"glass"}, category: domain.CategoryGlasses},
	{needles: []string{"engagement"}, category: domain.CategoryEngagementRings},
	{needles: []string{"ring"}, category: domain.CategoryRings},
	{needles: []string{"simulant", "moissanite"}, category: domain.CategoryDiamondSimulants},
	{needles: []string{"diamond"}, category: domain.CategoryDiamond},
	{needles: []string{"custom"}, category: domain.CategoryCustom},
}

// InferCategory maps the free-text category and product type labels onto the
// fixed taxonomy.
func InferCategory(rawCategory, productType string) domain.Category {
	fields := []string{strings.ToLower(rawCategory), strings.ToLower(productType)}
	for _, rule := range categoryRules {
		for _, needle := range rule.needles {
			for _, f := range fields {
				if f != "" && strings.Contains(f, needle) {
					return rule.category
				}
			}
		}
	}
	return domain.CategoryUncategorized
}
