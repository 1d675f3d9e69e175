package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, "music_distribution", cfg.DBName)
	assert.Empty(t, cfg.RedisHost)
	assert.Empty(t, cfg.MinioEndpoint)
	assert.Equal(t, "payment-reports", cfg.MinioBucket)
	assert.Equal(t, 24*time.Hour, cfg.PublishCheckInterval)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORAGE_BACKEND", "mysql")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("PUBLISH_CHECK_INTERVAL", "15m")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "mysql", cfg.StorageBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 15*time.Minute, cfg.PublishCheckInterval)
}

func TestEnvHelpersFallBackOnBadValues(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("MINIO_USE_SSL", "definitely")
	t.Setenv("CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.MinioUseSSL)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}
