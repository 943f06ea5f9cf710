package category

import (
	"context"

	"storefront/internal/domain"
)

type snapshotter interface {
	Snapshot(ctx context.Context) ([]domain.ProductRecord, error)
}

// Count is one taxonomy bucket and how many catalog products fall in it.
type Count struct {
	Category  domain.Category      `json:"slug"`
	Dimension domain.DimensionKind `json:"dimension"`
	Products  int                  `json:"count"`
}

type Service struct {
	catalog snapshotter
}

func New(catalog snapshotter) *Service {
	return &Service{catalog: catalog}
}

// List returns every category in precedence order, empty ones included.
func (s *Service) List(ctx context.Context) ([]Count, error) {
	records, err := s.catalog.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.Category]int, len(domain.Categories))
	for _, p := range records {
		counts[p.NormalizedCategory]++
	}
	out := make([]Count, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		out = append(out, Count{Category: c, Dimension: domain.DimensionFor(c), Products: counts[c]})
	}
	return out, nil
}
