package catalog

import (
	"sort"
	"strings"
	"sync"

	"storefront/internal/domain"
)

// DedupeKey picks the identity a record is merged under: the processor
// product id, else the processor price id, else the compound source key.
func DedupeKey(p domain.ProductRecord) string {
	if id := strings.ToLower(strings.TrimSpace(p.ProcessorProductID)); id != "" {
		return "product:" + id
	}
	if id := strings.ToLower(strings.TrimSpace(p.ProcessorPriceID)); id != "" {
		return "price:" + id
	}
	return "source:" + p.CompoundKey()
}

// supersedes reports whether candidate replaces held under the same key.
// Later updatedAt wins; equal timestamps fall back to the compound key so the
// merge is commutative; the same source row seen again replaces the older copy.
func supersedes(candidate, held domain.ProductRecord) bool {
	if !candidate.UpdatedAt.Equal(held.UpdatedAt) {
		return candidate.UpdatedAt.After(held.UpdatedAt)
	}
	return candidate.CompoundKey() >= held.CompoundKey()
}

// Dedupe merges records from every source table into a unique set, emitted
// in key order.
func Dedupe(records []domain.ProductRecord) []domain.ProductRecord {
	idx := NewIndex()
	idx.Merge(records...)
	return idx.Records()
}

// Index is an incremental de-duplicator. Merging batches as they arrive, in
// any order, yields the same set as one Dedupe over everything.
type Index struct {
	mu    sync.RWMutex
	byKey map[string]domain.ProductRecord
}

func NewIndex() *Index {
	return &Index{byKey: make(map[string]domain.ProductRecord)}
}

// Merge folds records into the index and returns how many keys changed.
func (x *Index) Merge(records ...domain.ProductRecord) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	changed := 0
	for _, r := range records {
		key := DedupeKey(r)
		held, ok := x.byKey[key]
		if ok && !supersedes(r, held) {
			continue
		}
		x.byKey[key] = r
		changed++
	}
	return changed
}

// Len is the number of unique products.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.byKey)
}

// Records returns the unique set ordered by dedupe key.
func (x *Index) Records() []domain.ProductRecord {
	x.mu.RLock()
	keys := make([]string, 0, len(x.byKey))
	for k := range x.byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]domain.ProductRecord, 0, len(keys))
	for _, k := range keys {
		out = append(out, x.byKey[k])
	}
	x.mu.RUnlock()
	return out
}
