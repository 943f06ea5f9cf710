package domain

// Category is the fixed storefront taxonomy. It is always derived from the
// free-text source labels and never stored upstream.
type Category string

const (
	CategoryChains           Category = "chains"
	CategoryBracelets        Category = "bracelets"
	CategoryWatches          Category = "watches"
	CategoryPendants         Category = "pendants"
	CategoryEarrings         Category = "earrings"
	CategoryGrillz           Category = "grillz"
	CategoryGlasses          Category = "glasses"
	CategoryEngagementRings  Category = "engagement-rings"
	CategoryRings            Category = "rings"
	CategoryDiamondSimulants Category = "diamond-simulants"
	CategoryDiamond          Category = "diamond"
	CategoryCustom           Category = "custom"
	CategoryUncategorized    Category = "uncategorized"
)

// Categories lists the taxonomy in inference precedence order, followed by
// the fallback bucket.
var Categories = []Category{
	CategoryChains,
	CategoryBracelets,
	CategoryWatches,
	CategoryPendants,
	CategoryEarrings,
	CategoryGrillz,
	CategoryGlasses,
	CategoryEngagementRings,
	CategoryRings,
	CategoryDiamondSimulants,
	CategoryDiamond,
	CategoryCustom,
	CategoryUncategorized,
}

// ParseCategory matches a slug against the taxonomy.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// DimensionKind names what a product's variant key measures.
type DimensionKind string

const (
	DimensionNone        DimensionKind = ""
	DimensionLength      DimensionKind = "length"
	DimensionCaratWeight DimensionKind = "carat"
	DimensionToothCount  DimensionKind = "teeth"
)

// VariantDimension is the tagged value a shopper picks on a product page.
// The same selection field carries a length for chains, a carat weight for
// diamonds and a tooth count for grillz; the kind is fixed per product at
// normalization time.
type VariantDimension struct {
	Kind  DimensionKind `json:"kind"`
	Value string        `json:"value"`
}

func Length(v string) VariantDimension      { return VariantDimension{Kind: DimensionLength, Value: v} }
func CaratWeight(v string) VariantDimension { return VariantDimension{Kind: DimensionCaratWeight, Value: v} }
func ToothCount(v string) VariantDimension  { return VariantDimension{Kind: DimensionToothCount, Value: v} }

// IsZero reports whether nothing has been selected.
func (d VariantDimension) IsZero() bool {
	return d.Value == ""
}

// DimensionFor returns the variant dimension products of a category are keyed by.
func DimensionFor(c Category) DimensionKind {
	switch c {
	case CategoryGrillz:
		return DimensionToothCount
	case CategoryDiamond, CategoryDiamondSimulants, CategoryEngagementRings:
		return DimensionCaratWeight
	default:
		return DimensionLength
	}
}
