package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/urlsafety-service/pkg/config"
	"go.uber.org/zap"
)

func memoryConfig(t *testing.T, endpoint string) *config.Config {
	t.Helper()
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("SAFE_BROWSING_ENDPOINT", endpoint)
	t.Setenv("SAFE_BROWSING_API_KEY", "test")
	cfg, err := config.LoadFile(t.TempDir() + "/missing.env")
	require.NoError(t, err)
	return cfg
}

func TestNew_MemoryBackend(t *testing.T) {
	threatAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"matches":[{"threatType":"MALWARE"}]}`))
	}))
	defer threatAPI.Close()

	a, err := New(context.Background(), memoryConfig(t, threatAPI.URL), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Scanner)
	assert.False(t, bool(a.Broker.CheckURL(context.Background(), "http://malicious.com")))

	srv := httptest.NewServer(a.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/check", "application/json", strings.NewReader(`{"type":"checkUrl","url":"http://malicious.com"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := memoryConfig(t, "http://localhost")
	cfg.CacheBackend = "etcd"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}
