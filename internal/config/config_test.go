package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the duration of the test
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // Registers restore on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetEnv(t, "APP_PORT", "MONGODB_URI", "MONGODB_DATABASE", "JWT_EXPIRY", "MONGODB_CONNECT_ATTEMPTS",
		"MONGODB_SERVER_SELECTION_TIMEOUT", "MONGODB_MAX_POOL_SIZE")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.AppPort)
	assert.Equal(t, "legal-b2b", cfg.DatabaseName())
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL())
	assert.Equal(t, 3, cfg.MongoConnectAttempts)
	assert.Equal(t, 5*time.Second, cfg.MongoServerSelectionTimeout)
	assert.Equal(t, uint64(10), cfg.MongoMaxPoolSize)
}

func TestLoadConfigRejectsBadExpiry(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestParseExpiry(t *testing.T) {
	d, err := ParseExpiry("2d")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = ParseExpiry("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = ParseExpiry("0d")
	assert.Error(t, err)
	_, err = ParseExpiry("-1h")
	assert.Error(t, err)
}

func TestDatabaseName(t *testing.T) {
	cfg := &Config{MongoURI: "mongodb://user:pw@db.internal:27017/firm?authSource=admin"}
	assert.Equal(t, "firm", cfg.DatabaseName())

	cfg.MongoDatabase = "override"
	assert.Equal(t, "override", cfg.DatabaseName())

	cfg = &Config{MongoURI: "mongodb://localhost:27017"}
	assert.Equal(t, "legal-b2b", cfg.DatabaseName())
}
