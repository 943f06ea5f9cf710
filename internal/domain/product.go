package domain

import "time"

// VariantOption is one purchasable choice of a product, keyed by the value of
// the product's variant dimension (a length, a carat weight or a tooth count).
type VariantOption struct {
	VariantKey       string `json:"variantKey"`
	Price            int64  `json:"price"`
	ProcessorPriceID string `json:"processorPriceId,omitempty"`
}

// ProductRecord is the canonical shape of a catalog row after normalization.
type ProductRecord struct {
	ID                 string          `json:"id"`
	SourceTable        string          `json:"sourceTable"`
	SourceID           string          `json:"sourceId"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	ImageURL           string          `json:"imageUrl,omitempty"`
	BasePrice          int64           `json:"basePrice"`
	OriginalPrice      *int64          `json:"originalPrice,omitempty"`
	RawCategory        string          `json:"rawCategory,omitempty"`
	ProductType        string          `json:"productType,omitempty"`
	NormalizedCategory Category        `json:"normalizedCategory"`
	Dimension          DimensionKind   `json:"dimension,omitempty"`
	VariantOptions     []VariantOption `json:"variantOptions,omitempty"`
	ProcessorProductID string          `json:"processorProductId,omitempty"`
	ProcessorPriceID   string          `json:"processorPriceId,omitempty"`
	InStock            bool            `json:"inStock"`
	ShipsToday         bool            `json:"shipsToday"`
	Featured           bool            `json:"featured"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CompoundKey identifies the record across every source table.
func (p ProductRecord) CompoundKey() string {
	return CompoundKey(p.SourceTable, p.SourceID)
}

// HasVariants reports whether the price depends on a variant selection.
func (p ProductRecord) HasVariants() bool {
	return len(p.VariantOptions) > 0
}

// Option returns the variant option with the given key.
func (p ProductRecord) Option(key string) (VariantOption, bool) {
	for _, opt := range p.VariantOptions {
		if opt.VariantKey == key {
			return opt, true
		}
	}
	return VariantOption{}, false
}

// CompoundKey joins a source table and a row id as "table:id".
func CompoundKey(sourceTable, sourceID string) string {
	return sourceTable + ":" + sourceID
}
