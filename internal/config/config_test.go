package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stagelink/api/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "stagelink-data", cfg.Storage.Bucket)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, 168*time.Hour, cfg.Session.MaxAge)
	assert.Equal(t, 168*time.Hour, cfg.Session.SignedTTL)
	assert.False(t, cfg.Session.RequireSigned)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STAGELINK_HTTP_PORT", "9090")
	t.Setenv("STAGELINK_SESSION_REQUIRESIGNED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Session.RequireSigned)
}
