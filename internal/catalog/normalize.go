package catalog

import (
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

// Normalizer maps raw rows from any source table into ProductRecords.
// Malformed fields are coerced to safe defaults and logged; only rows without
// an id are rejected.
type Normalizer struct {
	logger *zap.Logger
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts one raw row. It returns domain.ErrMissingID when the row
// cannot be keyed.
func (n *Normalizer) Normalize(raw RawRecord, sourceTable string) (domain.ProductRecord, error) {
	id := raw.text("id")
	if id == "" {
		return domain.ProductRecord{}, fmt.Errorf("normalize %s row: %w", sourceTable, domain.ErrMissingID)
	}
	log := n.logger.With(zap.String("source_table", sourceTable), zap.String("id", id))

	p := domain.ProductRecord{
		ID:                 id,
		SourceTable:        sourceTable,
		SourceID:           id,
		Name:               raw.text("name", "title"),
		Description:        raw.text("description", "details"),
		ImageURL:           raw.text("image_url", "imageUrl", "image", "img"),
		RawCategory:        raw.text("category", "category_name"),
		ProductType:        raw.text("product_type", "productType", "type"),
		ProcessorProductID: raw.text("processor_product_id", "processorProductId", "stripe_product_id", "stripeProductId"),
		ProcessorPriceID:   raw.text("processor_price_id", "processorPriceId", "stripe_price_id", "stripePriceId", "price_id"),
		InStock:            raw.boolean(true, "in_stock", "inStock"),
		ShipsToday:         raw.boolean(false, "ships_today", "shipsToday"),
		Featured:           raw.boolean(false, "featured", "is_featured"),
		CreatedAt:          raw.timestamp("created_at", "createdAt"),
		UpdatedAt:          raw.timestamp("updated_at", "updatedAt"),
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	priceKeys := []string{"price", "base_price", "price_cents"}
	base, ok := raw.price(priceKeys...)
	if !ok {
		if _, _, present := raw.first(priceKeys...); present {
			log.Warn("coerced malformed price to 0", zap.String("field", "price"))
		}
	}
	p.BasePrice = base

	if orig, ok := raw.price("original_price", "originalPrice", "compare_at_price"); ok && orig >= p.BasePrice {
		p.OriginalPrice = &orig
	}

	p.NormalizedCategory = InferCategory(p.RawCategory, p.ProductType)

	opts, field, err := parseVariants(raw)
	if err != nil {
		log.Warn("dropped unparseable variant table", zap.String("field", field), zap.Error(err))
	}
	p.VariantOptions = opts
	if len(opts) > 0 {
		p.Dimension = domain.DimensionFor(p.NormalizedCategory)
	}

	return p, nil
}

// NormalizeAll normalizes a batch, filtering out rows that cannot be keyed.
func (n *Normalizer) NormalizeAll(rows []RawRecord, sourceTable string) []domain.ProductRecord {
	out := make([]domain.ProductRecord, 0, len(rows))
	for _, row := range rows {
		p, err := n.Normalize(row, sourceTable)
		if err != nil {
			n.logger.Warn("skipped catalog row", zap.String("source_table", sourceTable), zap.Error(err))
			continue
		}
		out = append(out, p)
	}
	return out
}
