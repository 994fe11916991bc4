package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "myroutine")
	t.Setenv("ACCESS_JWT_SECRET", "access-secret")
	t.Setenv("REFRESH_JWT_SECRET", "refresh-secret")
}

func TestReadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Read()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Tokens.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Tokens.RefreshTTL)
	assert.Equal(t, 10*time.Minute, cfg.Tokens.ResetTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.LedgerPurgeInterval)
	assert.Equal(t, "3306", cfg.DB.Port)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "email.send", cfg.Rabbit.EmailQueue)
}

func TestReadRejectsSharedSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("REFRESH_JWT_SECRET", "access-secret")

	_, err := Read()
	require.Error(t, err)
}

func TestReadRejectsNonPositiveDurations(t *testing.T) {
	for _, name := range []string{"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "RESET_TOKEN_TTL", "LEDGER_PURGE_INTERVAL"} {
		t.Run(name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(name, "0s")

			_, err := Read()
			require.Error(t, err)
		})
	}
}

func TestReadMissingRequired(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("DB_HOST"))

	_, err := Read()
	require.Error(t, err)
}

func TestRateLimitNormalize(t *testing.T) {
	cfg := RateLimitConfig{Capacity: 0, RefillTokens: 0, Burst: 10, RefillEvery: 2 * time.Second}.normalize()
	assert.Equal(t, 10, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
}
