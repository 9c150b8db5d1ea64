package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"retailpos/internal/adapter"
	"retailpos/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Nothing listens on port 1, so every dial is refused at once.
const unreachableDSN = "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=2"

func testConfig(t *testing.T, runtime string) *config.Config {
	return &config.Config{
		Runtime:       runtime,
		LocalDBDir:    t.TempDir(),
		DatabaseURL:   unreachableDSN,
		JWTSecret:     []byte("test-secret"),
		JWTTTL:        time.Hour,
		ProfileMaxAge: time.Hour,
		AuthRateLimit: "10-M",
		DBLogLevel:    "silent",
	}
}

func TestNew_DesktopStartsWithoutHostedDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := New(ctx, testConfig(t, "desktop"))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	assert.Equal(t, adapter.BackendLocal, srv.Adapter.Backend(ctx))

	w := httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "desktop", health["runtime"])
	assert.Equal(t, adapter.BackendLocal, health["backend"])

	w = httptest.NewRecorder()
	srv.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNew_ServerRequiresHostedDatabase(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	_, err := New(ctx, testConfig(t, "server"))
	assert.Error(t, err)
}
