// Package catalog serves the aggregated, de-duplicated product catalog.
package catalog

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	catalogpkg "storefront/internal/catalog"
	"storefront/internal/domain"
	"storefront/internal/repository/catalogcache"
	"storefront/internal/repository/source"
)

type rowGetter interface {
	Get(ctx context.Context, sourceTable, id string) (catalogpkg.RawRecord, error)
}

// Service owns a warm index fed by full loads and by "load more" pages.
type Service struct {
	loader     *catalogpkg.Loader
	normalizer *catalogpkg.Normalizer
	rows       rowGetter
	cache      catalogcache.Cache
	logger     *zap.Logger

	mu     sync.RWMutex
	index  *catalogpkg.Index
	loaded bool
	group  singleflight.Group
}

func New(loader *catalogpkg.Loader, rows rowGetter, cache catalogcache.Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = catalogcache.Nop{}
	}
	return &Service{
		loader:     loader,
		normalizer: catalogpkg.NewNormalizer(logger),
		rows:       rows,
		cache:      cache,
		logger:     logger,
		index:      catalogpkg.NewIndex(),
	}
}

// Snapshot returns the full de-duplicated catalog, from memory, then the
// cache, then a concurrent load of every source table.
func (s *Service) Snapshot(ctx context.Context) ([]domain.ProductRecord, error) {
	s.mu.RLock()
	if s.loaded {
		idx := s.index
		s.mu.RUnlock()
		return idx.Records(), nil
	}
	s.mu.RUnlock()

	v, err, _ := s.group.Do("snapshot", func() (any, error) {
		return s.fill(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.ProductRecord), nil
}

// Refresh reloads every source table, bypassing the cache. Concurrent
// refreshes share one load and its report.
func (s *Service) Refresh(ctx context.Context) (catalogpkg.Report, error) {
	v, err, _ := s.group.Do("refresh", func() (any, error) {
		idx := catalogpkg.NewIndex()
		report := s.loader.LoadAll(ctx, idx)
		s.swap(ctx, idx, false)
		return report, nil
	})
	if err != nil {
		return catalogpkg.Report{}, err
	}
	return v.(catalogpkg.Report), nil
}

func (s *Service) fill(ctx context.Context) ([]domain.ProductRecord, error) {
	records, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	idx := catalogpkg.NewIndex()
	if ok {
		idx.Merge(records...)
		return s.install(idx, true), nil
	}
	report := s.loader.LoadAll(ctx, idx)
	if len(report.Failed) == report.Tables && report.Tables > 0 {
		return nil, errors.New("catalog unavailable: every source table failed")
	}
	return s.swap(ctx, idx, true), nil
}

// swap installs idx and writes it through to the cache.
func (s *Service) swap(ctx context.Context, idx *catalogpkg.Index, keepWarm bool) []domain.ProductRecord {
	records := s.install(idx, keepWarm)
	if err := s.cache.Set(ctx, records); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return records
}

// install makes idx the warm index. keepWarm folds in pages loaded before the
// first snapshot finished.
func (s *Service) install(idx *catalogpkg.Index, keepWarm bool) []domain.ProductRecord {
	s.mu.Lock()
	if keepWarm {
		idx.Merge(s.index.Records()...)
	}
	s.index = idx
	s.loaded = true
	s.mu.Unlock()
	return idx.Records()
}

// List returns the snapshot, optionally restricted to one category, featured
// products first and then by name.
func (s *Service) List(ctx context.Context, category domain.Category) ([]domain.ProductRecord, error) {
	all, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, p := range all {
		if category == "" || p.NormalizedCategory == category {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
			return an < bn
		}
		return a.CompoundKey() < b.CompoundKey()
	})
	return out, nil
}

// PageResult is one "load more" batch.
type PageResult struct {
	Records []domain.ProductRecord
	Next    string
	Done    bool
}

// Page loads the batch at cursor. The batch is also merged into the warm
// index, so repeated or overlapping calls are harmless.
func (s *Service) Page(ctx context.Context, cursor string) (PageResult, error) {
	cur, err := catalogpkg.ParseCursor(cursor)
	if err != nil {
		return PageResult{}, domain.NewValidationError(err, "cursor", "Invalid cursor")
	}
	batch := catalogpkg.NewIndex()
	page, err := s.loader.LoadPage(ctx, cur, batch)
	if err != nil {
		return PageResult{}, err
	}
	records := batch.Records()
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	idx.Merge(records...)
	return PageResult{Records: records, Next: page.Next.String(), Done: page.Done}, nil
}

// Lookup reads one product fresh from its source table. productID is the
// compound "table:id" key.
func (s *Service) Lookup(ctx context.Context, productID string) (domain.ProductRecord, error) {
	table, id, ok := strings.Cut(productID, ":")
	if !ok || table == "" || id == "" {
		return domain.ProductRecord{}, domain.ErrNotFound
	}
	raw, err := s.rows.Get(ctx, table, id)
	if err != nil {
		if errors.Is(err, source.ErrUnknownTable) {
			return domain.ProductRecord{}, domain.ErrNotFound
		}
		return domain.ProductRecord{}, err
	}
	p, err := s.normalizer.Normalize(raw, table)
	if err != nil {
		return domain.ProductRecord{}, domain.ErrNotFound
	}
	return p, nil
}
