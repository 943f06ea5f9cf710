// Package seed inserts demo catalog rows for manual testing.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storefront/internal/catalog"
)

type rowWriter interface {
	Upsert(ctx context.Context, sourceTable string, row catalog.RawRecord) error
}

type tableRow struct {
	table string
	row   catalog.RawRecord
}

// demoRows covers each variant dimension plus one product listed in two
// tables under the same processor product id.
func demoRows() []tableRow {
	return []tableRow{
		{"chains", catalog.RawRecord{
			"id":                "cuban-link",
			"name":              "Cuban Link Chain",
			"description":       "14k gold plated cuban link",
			"image_url":         "https://cdn.example.com/img/cuban.jpg",
			"price":             12000,
			"original_price":    15000,
			"category":          "Chains",
			"stripe_product_id": "prod_cuban",
			"featured":          true,
			"ships_today":       true,
			"length_prices": []any{
				map[string]any{"length": `18"`, "price": 12000, "stripe_price_id": "price_cuban_18"},
				map[string]any{"length": `20"`, "price": 13500, "stripe_price_id": "price_cuban_20"},
				map[string]any{"length": `24"`, "price": 16000, "stripe_price_id": "price_cuban_24"},
			},
		}},
		{"chains", catalog.RawRecord{
			"id":                "rope-chain",
			"name":              "Rope Chain",
			"price":             8000,
			"category":          "necklace",
			"stripe_product_id": "prod_rope",
			"stripe_price_id":   "price_rope",
		}},
		{"grillz", catalog.RawRecord{
			"id":                "classic-grillz",
			"name":              "Classic Grillz",
			"price":             20000,
			"category":          "grillz",
			"stripe_product_id": "prod_grillz",
			"teeth_prices": map[string]any{
				"6": map[string]any{"price": 20000, "stripe_price_id": "price_grillz_6"},
				"8": map[string]any{"price": 26000, "stripe_price_id": "price_grillz_8"},
			},
		}},
		{"engagement_rings", catalog.RawRecord{
			"id":                "solitaire",
			"name":              "Solitaire Engagement Ring",
			"price":             150000,
			"category":          "Engagement Rings",
			"stripe_product_id": "prod_solitaire",
			"carat_prices": []any{
				map[string]any{"carat": "1ct", "price": 150000, "stripe_price_id": "price_sol_1"},
				map[string]any{"carat": "2ct", "price": 310000, "stripe_price_id": "price_sol_2"},
			},
		}},
		{"simulants", catalog.RawRecord{
			"id":                "moissanite-stud",
			"name":              "Moissanite Stud",
			"price":             9000,
			"category":          "Moissanite",
			"stripe_product_id": "prod_moissanite_stud",
			"carat_prices": []any{
				map[string]any{"carat": "0.5ct", "price": 9000, "stripe_price_id": "price_moiss_05"},
				map[string]any{"carat": "1ct", "price": 14000, "stripe_price_id": ""},
			},
		}},
		{"earrings", catalog.RawRecord{
			"id":                "moissanite-stud-e",
			"name":              "Moissanite Stud Earrings",
			"price":             9500,
			"category":          "Earrings",
			"stripe_product_id": "prod_moissanite_stud",
			"stripe_price_id":   "price_moiss_earring",
		}},
	}
}

// Apply upserts the demo rows. It is idempotent: rows are keyed by id.
func Apply(ctx context.Context, w rowWriter, logger *zap.Logger) (int, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rows := demoRows()
	for _, r := range rows {
		if err := w.Upsert(ctx, r.table, r.row); err != nil {
			return 0, fmt.Errorf("seed %s/%v: %w", r.table, r.row["id"], err)
		}
		logger.Debug("seeded row", zap.String("table", r.table), zap.Any("id", r.row["id"]))
	}
	return len(rows), nil
}
