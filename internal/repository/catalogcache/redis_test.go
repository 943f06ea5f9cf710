package catalogcache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func testCache(t *testing.T) Cache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := NewClient(addr)
	t.Cleanup(func() { _ = rdb.Close() })
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("redis unreachable: %v", err)
	}
	return NewRedis(rdb, time.Minute, nil)
}

func TestRedisSnapshotRoundTrip(t *testing.T) {
	c := testCache(t)
	ctx := context.Background()
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	orig := int64(20000)
	records := []domain.ProductRecord{{
		ID:                 "1",
		SourceTable:        "chains",
		SourceID:           "1",
		BasePrice:          15000,
		OriginalPrice:      &orig,
		NormalizedCategory: domain.CategoryChains,
		Dimension:          domain.DimensionLength,
		VariantOptions:     []domain.VariantOption{{VariantKey: `20"`, Price: 15000, ProcessorPriceID: "price_20"}},
		UpdatedAt:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	require.NoError(t, c.Set(ctx, records))

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, records, got)
}

func TestNopCache(t *testing.T) {
	var c Cache = Nop{}
	_, ok, err := c.Get(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(context.Background(), nil))
}
