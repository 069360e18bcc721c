package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 16, cfg.HashID.MinLength)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("HASHID_SALT", "pepper")
	t.Setenv("HASHID_MIN_LENGTH", "8")
	t.Setenv("REDIS_COLUMN_TTL", "90s")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "pepper", cfg.HashID.Salt)
	assert.Equal(t, 8, cfg.HashID.MinLength)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}
