package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, int32(25), cfg.Database.MaxConns)
		assert.Equal(t, 5*time.Second, cfg.Database.LockTimeout)
		assert.Equal(t, BusRedis, cfg.Bus.Kind)
		assert.Equal(t, ":8080", cfg.HTTP.Addr)
		assert.Same(t, AppConfig, cfg)
	})

	t.Run("FromEnv", func(t *testing.T) {
		t.Setenv("DB_HOST", "pg.internal")
		t.Setenv("DB_LOCK_TIMEOUT", "250ms")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("EVENT_BUS", "amqp")

		cfg, err := LoadConfig()

		require.NoError(t, err)
		assert.Equal(t, "pg.internal", cfg.Database.Host)
		assert.Equal(t, 250*time.Millisecond, cfg.Database.LockTimeout)
		assert.Equal(t, 3, cfg.Redis.DB)
		assert.Equal(t, BusAMQP, cfg.Bus.Kind)
	})

	t.Run("Failed - InvalidInt", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")

		_, err := LoadConfig()

		assert.Error(t, err)
	})
}

func TestLoadTestConfig(t *testing.T) {
	cfg := LoadTestConfig()

	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "test_db", cfg.Database.DBName)
	assert.Equal(t, "6380", cfg.Redis.Port)
	assert.Equal(t, BusMemory, cfg.Bus.Kind)
}
