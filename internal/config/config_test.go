package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("RESCUE_TEST_INT", "12")
	t.Setenv("RESCUE_TEST_BAD_INT", "twelve")
	t.Setenv("RESCUE_TEST_DURATION", "90s")
	t.Setenv("RESCUE_TEST_STRING", "value")

	assert.Equal(t, 12, envInt("RESCUE_TEST_INT", 5))
	assert.Equal(t, 5, envInt("RESCUE_TEST_BAD_INT", 5))
	assert.Equal(t, 5, envInt("RESCUE_TEST_MISSING", 5))
	assert.Equal(t, 90*time.Second, envDuration("RESCUE_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, envDuration("RESCUE_TEST_MISSING", time.Second))
	assert.Equal(t, "value", envString("RESCUE_TEST_STRING", "default"))
	assert.Equal(t, "default", envString("RESCUE_TEST_MISSING", "default"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_CONNECTION", "postgres://localhost/rescue")
	t.Setenv("JWT_SECRET", "dev-secret")

	cfg := Load()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 168*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.StorageEnabled())
}

func TestLoadFallsBackOnNonPositiveLimits(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_CONNECTION", "postgres://localhost/rescue")
	t.Setenv("JWT_SECRET", "dev-secret")
	t.Setenv("AUTH_RATE_WINDOW", "0s")
	t.Setenv("AUTH_RATE_LIMIT", "-1")
	t.Setenv("REQUEST_TIMEOUT", "-5s")

	cfg := Load()

	assert.Equal(t, 5, cfg.AuthRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
