package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.Equal(t, 2, cfg.DB.MinConns)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Idempotency.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.Retention)
	assert.Equal(t, time.Minute, cfg.Idempotency.CacheSweepInterval)
	assert.Equal(t, "0 2 * * *", cfg.Idempotency.PurgeSchedule)
	assert.Equal(t, CacheBackendMemory, cfg.Idempotency.CacheBackend)
	assert.Equal(t, "0 7 * * *", cfg.Digest.Schedule)
	assert.Equal(t, 10, cfg.Digest.Threshold)
	assert.True(t, cfg.Digest.AttachPDF)
	assert.Equal(t, "admincode", cfg.Auth.AdminSecret)
	assert.Equal(t, "managercode", cfg.Auth.ManagerSecret)
	assert.Empty(t, cfg.Tracing.OTLPEndpoint)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "8080")
	v.Set("IDEMPOTENCY_CACHE_TTL", "30s")
	v.Set("IDEMPOTENCY_CACHE_BACKEND", "REDIS")
	v.Set("DIGEST_ATTACH_PDF", "false")
	v.Set("DIGEST_THRESHOLD", "abc")
	v.Set("LOG_LEVEL", "DEBUG")
	v.Set("DB_MIN_CONNS", "5")
	v.Set("DB_MAX_CONN_LIFETIME", "15m")

	cfg := fromViper(v)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Second, cfg.Idempotency.CacheTTL)
	assert.Equal(t, CacheBackendRedis, cfg.Idempotency.CacheBackend)
	assert.False(t, cfg.Digest.AttachPDF)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 5, cfg.DB.MinConns)
	assert.Equal(t, 15*time.Minute, cfg.DB.MaxConnLifetime)
	// valor no numérico: se conserva el default
	assert.Equal(t, 10, cfg.Digest.Threshold)
}

func TestFromViper_DuracionInvalidaUsaDefault(t *testing.T) {
	v := viper.New()
	v.Set("IDEMPOTENCY_RETENTION", "-1h")

	cfg := fromViper(v)

	assert.Equal(t, 24*time.Hour, cfg.Idempotency.Retention)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "ourhouse", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/ourhouse?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
