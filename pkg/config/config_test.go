package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 400*time.Millisecond, cfg.HoverDebounce)
	assert.Equal(t, 10, cfg.TooltipOffset)
	assert.Equal(t, 2*time.Second, cfg.ClearConfirmation)
	assert.Equal(t, 10*time.Second, cfg.ThreatAPITimeout)
	assert.False(t, cfg.DedupeInFlight)
	assert.Equal(t, "https://safebrowsing.googleapis.com/v4/threatMatches:find", cfg.SafeBrowsingEndpoint)
}

func TestLoadFile_EnvOverrides(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("HOVER_DEBOUNCE", "250ms")
	t.Setenv("DEDUPE_INFLIGHT", "true")
	t.Setenv("SCAN_WORKERS", "5")

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.CacheBackend)
	assert.Equal(t, 250*time.Millisecond, cfg.HoverDebounce)
	assert.True(t, cfg.DedupeInFlight)
	assert.Equal(t, 5, cfg.ScanWorkers)
}

func TestLoadFile_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9090\nSAFE_BROWSING_API_KEY=abc123\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "abc123", cfg.SafeBrowsingAPIKey)
	assert.Equal(t, "info", cfg.LogLevel)
}
