package infrastructure

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_PipelineCounters(t *testing.T) {
	m := NewMetrics()

	m.ObserveAnalysis("success")
	m.ObserveAnalysis("success")
	m.ObserveAnalysis("error")
	m.AddRowsNormalized(42)
	m.AddBatchSources(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("error")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.RowsNormalized))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.BatchSourcesTotal))
}

func TestMetrics_ScrapeIncludesPipelineSeries(t *testing.T) {
	m := NewMetrics()
	m.ObserveAnalysis("success")
	m.AddRowsNormalized(7)
	m.AddBatchSources(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `costpulse_analyses_total{outcome="success"} 1`)
	assert.Contains(t, body, "costpulse_rows_normalized_total 7")
	assert.Contains(t, body, "costpulse_batch_sources_total 1")
}

func TestMetrics_HTTPMiddleware(t *testing.T) {
	m := NewMetrics()

	handler := m.HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analyze", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/analyze", "418")))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
