package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_FORMAT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("OMDB_API_KEY", "")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, "movies", cfg.MovieFileName)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.Metadata.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Metadata.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_FORMAT", "YAML")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/rental.db")
	t.Setenv("OMDB_API_KEY", "k")
	t.Setenv("OMDB_TIMEOUT", "750ms")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("RABBITMQ_URL", "amqp://u:p@mq:5672/")

	cfg := Load()
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "/tmp/rental.db", cfg.SQLitePath)
	assert.True(t, cfg.Metadata.Enabled())
	assert.Equal(t, 750*time.Millisecond, cfg.Metadata.Timeout)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.RabbitURL)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := Config{
		Format:         "json",
		StoreBackend:   BackendFile,
		DataDir:        "data",
		MovieFileName:  "movies",
		OrderFileName:  "orders",
		OrderStatsFile: "order_stats",
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = base
	bad.StoreBackend = "mongo"
	assert.Error(t, bad.Validate())

	bad = base
	bad.StoreBackend = BackendMySQL
	assert.Error(t, bad.Validate())
	bad.DBUser, bad.DBName = "app", "rental"
	assert.NoError(t, bad.Validate())

	bad = base
	bad.JWTSecret = "s"
	assert.Error(t, bad.Validate())
	bad.AdminPasswordHash = "$2a$10$abc"
	assert.NoError(t, bad.Validate())
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 2*time.Second, rl.RefillInterval)
	assert.Equal(t, 10*time.Second, rl.TTL)
}
