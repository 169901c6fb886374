package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentbuilder-dev/agentbuilder/internal/registry/api"
	v0 "github.com/agentbuilder-dev/agentbuilder/internal/registry/api/handlers/v0"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/config"
	servicetesting "github.com/agentbuilder-dev/agentbuilder/internal/registry/service/testing"
	"github.com/agentbuilder-dev/agentbuilder/internal/registry/telemetry"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	shutdownTelemetry, metrics, err := telemetry.InitMetrics("test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdownTelemetry(context.Background()) })

	cfg := &config.Config{ServerAddress: ":0", DefaultUserID: "temp-user-id", DefaultPageLimit: 30}
	versionInfo := &v0.VersionBody{Version: "test", GitCommit: "test", BuildTime: "test"}

	return api.NewServer(cfg, servicetesting.NewFakeRegistry(), metrics, versionInfo, nil).Handler()
}

func TestCORSHeaders(t *testing.T) {
	handler := newTestServer(t)

	tests := []struct {
		name           string
		method         string
		path           string
		checkPreflight bool
	}{
		{name: "GET request should have CORS headers", method: http.MethodGet, path: "/v0/health"},
		{name: "POST request should have CORS headers", method: http.MethodPost, path: "/v0/agents"},
		{name: "OPTIONS preflight request should succeed", method: http.MethodOptions, path: "/v0/agents", checkPreflight: true},
		{name: "DELETE request should have CORS headers", method: http.MethodDelete, path: "/v0/agents/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Origin", "https://example.com")
			if tt.checkPreflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				req.Header.Set("Access-Control-Request-Headers", "Content-Type")
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
			if tt.checkPreflight {
				assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, w.Code)
			}
		})
	}
}

func TestTrailingSlashRedirect(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v0/agents/", nil))

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "/v0/agents", w.Header().Get("Location"))
}

func TestUnknownRoute(t *testing.T) {
	handler := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/agents", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "/v0/agents")
}
