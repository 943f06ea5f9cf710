package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "REDIS_ADDR", "KAFKA_BROKERS", "CATALOG_TABLES", "CATALOG_PAGE_SIZE", "SESSION_TTL_SECONDS"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, DefaultCatalogTables, cfg.CatalogTables)
	assert.Equal(t, 50, cfg.CatalogPageSize)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CATALOG_TABLES", "chains,grillz")
	t.Setenv("CATALOG_PAGE_SIZE", "-3")
	t.Setenv("CATALOG_CACHE_TTL_SECONDS", "60")
	cfg := FromEnv()
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"chains", "grillz"}, cfg.CatalogTables)
	assert.Equal(t, 50, cfg.CatalogPageSize)
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
}
