package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.CartTTL)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, 30*time.Minute, cfg.Admin.SessionTTL)
	assert.Equal(t, "60", cfg.Delivery.ChargeAmount().String())
	assert.Equal(t, "1500", cfg.Delivery.FreeFrom().String())
	assert.Empty(t, cfg.Redis.URL)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DATABASE_URL", "file:shop.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DELIVERY_CHARGE", "80.50")
	t.Setenv("CART_TTL", "2h")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Env.IsProduction())
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "80.5", cfg.Delivery.ChargeAmount().String())
	assert.Equal(t, 2*time.Hour, cfg.CartTTL)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mongo")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("missing url", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DATABASE_URL", "")
		_, err := FromEnv()
		assert.Error(t, err)
	})
	t.Run("delivery charge", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "memory")
		t.Setenv("DELIVERY_CHARGE", "sixty")
		_, err := FromEnv()
		assert.Error(t, err)
	})
}
