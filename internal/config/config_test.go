package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LIFERPG_DB_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.False(t, cfg.AuthEnabled())
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LIFERPG_ENV", "production")
	t.Setenv("LIFERPG_DB_PATH", "/tmp/x.db")
	t.Setenv("LIFERPG_JWT_SECRET", "s3cret")
	t.Setenv("LIFERPG_READ_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.True(t, cfg.AuthEnabled())
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
}

func TestLoadFileEnvWins(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "liferpg.yaml")
	require.NoError(t, os.WriteFile(file, []byte("HTTP_ADDR: \":9090\"\nLOG_LEVEL: debug\n"), 0o600))
	t.Setenv("LIFERPG_LOG_LEVEL", "warn")

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
