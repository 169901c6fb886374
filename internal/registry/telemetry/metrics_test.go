package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	shutdown, metrics, err := InitMetrics("test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx := context.Background()
	metrics.Requests.Add(ctx, 1)
	metrics.RecordExport(ctx, "jaf")
	metrics.RecordImport(ctx, false)

	w := httptest.NewRecorder()
	metrics.PrometheusHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "agent_builder_http_requests_total")
	assert.Contains(t, body, "agent_builder_exports_total")
	assert.Contains(t, body, `format="jaf"`)
	assert.Contains(t, body, "agent_builder_imports_total")
	assert.Contains(t, body, `recognized="false"`)
}

func TestRecordOnNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordExport(context.Background(), "json")
		m.RecordImport(context.Background(), true)
	})
}
