package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "DATABASE_URL", "JWT_KEY", "JWT_ACCESS_TOKEN_TTL", "BCRYPT_COST", "DB_UNIQUE_EMAIL",
		"LOG_LEVEL", "LOG_FORMAT", "METRICS_ENABLED", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, "sqlite:////tmp/test.db", cfg.DatabaseURL)
	assert.Empty(t, cfg.JWTKey)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.UniqueEmail)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/auth")
	t.Setenv("JWT_KEY", "s3cret")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "0s")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DB_UNIQUE_EMAIL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.ServerPort)
	assert.Equal(t, "postgres://u:p@localhost:5432/auth", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTKey)
	assert.Zero(t, cfg.AccessTokenTTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.False(t, cfg.MetricsEnabled)
	assert.True(t, cfg.UniqueEmail)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", "PORT", "abc"},
		{"port out of range", "PORT", "70000"},
		{"bcrypt cost too low", "BCRYPT_COST", "2"},
		{"bcrypt cost too high", "BCRYPT_COST", "40"},
		{"negative ttl", "JWT_ACCESS_TOKEN_TTL", "-1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
