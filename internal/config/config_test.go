package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 他の環境変数に影響されないように空にしておく
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DB_DRIVER", "DATABASE_URL", "POSTGRES_PORT", "SQLITE_PATH",
		"JWT_SECRET", "GO_ENV", "ACCESS_TOKEN_TTL", "LOG_LEVEL", "DELIVERY_FEE",
		"TELEGRAM_API_BASE", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "NOTIFY_TIMEOUT",
		"REDIS_ADDR", "CATALOG_CACHE_TTL", "ADMIN_USERNAME", "ADMIN_PASSWORD", "ORDER_STATUS_STRICT",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GO_ENV", "dev")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.True(t, decimal.NewFromInt(5000).Equal(cfg.DeliveryFee))
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBase)
	assert.Equal(t, 10*time.Second, cfg.Telegram.Timeout)
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.AccessTTL)
	assert.False(t, cfg.StrictOrderStatus)
	assert.False(t, cfg.IsProd())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DELIVERY_FEE", "2500.50")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "-1")
	t.Setenv("NOTIFY_TIMEOUT", "3s")
	t.Setenv("ORDER_STATUS_STRICT", "true")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("GO_ENV", "prod")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.True(t, decimal.RequireFromString("2500.50").Equal(cfg.DeliveryFee))
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, 3*time.Second, cfg.Telegram.Timeout)
	assert.True(t, cfg.StrictOrderStatus)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.True(t, cfg.IsProd())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"missing secret", "JWT_SECRET", "", "JWT_SECRET is required"},
		{"missing env", "GO_ENV", "", "GO_ENV is required"},
		{"bad driver", "DB_DRIVER", "mysql", "DB_DRIVER"},
		{"bad port", "POSTGRES_PORT", "abc", "POSTGRES_PORT must be number"},
		{"bad fee", "DELIVERY_FEE", "five", "DELIVERY_FEE must be decimal"},
		{"negative fee", "DELIVERY_FEE", "-1", "DELIVERY_FEE must be >= 0"},
		{"fee below cents", "DELIVERY_FEE", "0.005", "DELIVERY_FEE must have at most 2 decimal places"},
		{"bad duration", "NOTIFY_TIMEOUT", "soon", "NOTIFY_TIMEOUT must be duration"},
		{"zero duration", "CATALOG_CACHE_TTL", "0s", "CATALOG_CACHE_TTL must be > 0"},
		{"bad bool", "ORDER_STATUS_STRICT", "maybe", "ORDER_STATUS_STRICT must be bool"},
		{"admin without password", "ADMIN_USERNAME", "admin", "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
