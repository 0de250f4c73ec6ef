package app

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costpulse/internal/config"
	"costpulse/internal/infrastructure"
	"costpulse/internal/services"
)

func testApplication(t *testing.T) *Application {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           0,
			MaxUploadBytes: 16 << 20,
		},
		Analysis: config.AnalysisConfig{
			DefaultHeadcount:         5,
			AmbiguousAmountDefault:   "revenue",
			UnmatchedPurchaseDefault: "food",
			MaxBatchConcurrency:      2,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paths := &config.Paths{
		ExecutableDir: dir,
		DataDir:       dir,
		UploadsDir:    dir,
		ReportsDir:    dir,
		LogsDir:       dir,
	}

	a := &Application{
		Config:          cfg,
		Paths:           paths,
		Logger:          logger,
		Metrics:         infrastructure.NewMetrics(),
		AnalysisService: services.NewAnalysisServiceWithLogger(cfg, logger),
		HealthService:   services.NewHealthService(Version, paths, logger),
	}
	a.AnalysisService.SetCounters(a.Metrics)
	a.setupRouter()
	return a
}

func TestRouter_HealthEndpoints(t *testing.T) {
	a := testApplication(t)

	for _, path := range []string{"/api/health", "/api/health/ready", "/api/health/live", "/api/version"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
		})
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	a := testApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouter_AnalyzeRequiresFile(t *testing.T) {
	a := testApplication(t)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	a := testApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_CompressesJSON(t *testing.T) {
	a := testApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestRouter_AnalysisCounters(t *testing.T) {
	a := testApplication(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "ledger.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("날짜,거래처,매출,지출\n2024-01-05,홀,1000000,0\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	metricsRec := httptest.NewRecorder()
	a.Router.ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, metricsRec.Code)

	body := metricsRec.Body.String()
	assert.Contains(t, body, `costpulse_analyses_total{outcome="success"} 1`)
	assert.Contains(t, body, "costpulse_rows_normalized_total 1")
}

func TestRouter_UnknownRoute(t *testing.T) {
	a := testApplication(t)

	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
