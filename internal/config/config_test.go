package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"APP_ENV", "PORT", "GRPC_PORT", "DB_DRIVER", "DATABASE_URL", "SQLITE_PATH",
	"JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"RATE_LIMIT_WINDOW", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CORS_ALLOWED_ORIGIN", "SEED_DEMO", "HEALTH_INTERVAL",
}

// clearEnv blanks every key; Load treats empty as unset except for GRPC_PORT.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", c.AppEnv)
	assert.False(t, c.Production())
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, "booking.db", c.SQLitePath)
	assert.Equal(t, 24*time.Hour, c.TokenTTL)
	assert.Equal(t, logrus.InfoLevel, c.LogLevel)
	assert.Equal(t, 5.0, c.RateLimitRPS)
	assert.Equal(t, 10, c.RateLimitBurst)
	assert.Equal(t, time.Minute, c.RateLimitWindow)
	assert.Equal(t, 15*time.Second, c.HealthInterval)
	assert.Equal(t, "http://localhost:3000", c.CORSAllowedOrigin)
	assert.False(t, c.SeedDemo)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT_RPS", "0.5")
	t.Setenv("RATE_LIMIT_BURST", "3")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SEED_DEMO", "true")

	c, err := Load()
	require.NoError(t, err)
	assert.True(t, c.Production())
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 2*time.Hour, c.TokenTTL)
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
	assert.Equal(t, 0.5, c.RateLimitRPS)
	assert.Equal(t, 3, c.RateLimitBurst)
	assert.Equal(t, 2, c.RedisDB)
	assert.True(t, c.SeedDemo)
}

func TestLoadRequiresSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TOKEN_TTL", "a day"},
		{"TOKEN_TTL", "-1h"},
		{"RATE_LIMIT_BURST", "ten"},
		{"RATE_LIMIT_RPS", "0"},
		{"HEALTH_INTERVAL", "15"},
		{"SEED_DEMO", "maybe"},
		{"DB_DRIVER", "mysql"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoadInvalidLogLevelFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "chatty")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, c.LogLevel)
}
