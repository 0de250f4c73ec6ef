package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"costpulse/internal/config"
	"costpulse/internal/middleware"
	"costpulse/internal/services"
)

func testHandler(t *testing.T) *AnalysisHandler {
	t.Helper()

	cfg := &config.Config{
		Analysis: config.AnalysisConfig{
			DefaultHeadcount:         5,
			AmbiguousAmountDefault:   "revenue",
			UnmatchedPurchaseDefault: "food",
			MaxBatchConcurrency:      2,
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := services.NewAnalysisServiceWithLogger(cfg, logger)
	validation := middleware.NewValidationMiddleware(logger)

	return NewAnalysisHandler(service, nil, validation, 16<<20, logger)
}

func ledgerWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"날짜", "거래처", "매출", "지출", "항목"},
		{"2024-01-05", "홀", 1000000, 0, "매장 매출"},
		{"2024-01-05", "식자재마트", 0, 300000, "식자재"},
		{"2024-01-20", "배달의민족", 800000, 0, "배달 매출"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAnalysisHandler_Analyze_XLSX(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	body, contentType := multipartBody(t, "file", "ledger.xlsx", ledgerWorkbook(t), nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "ledger.xlsx", resp["source"])

	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	snapshot, ok := data["snapshot"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 1800000, snapshot["total_revenue"], 0.01)
	assert.InDelta(t, 300000, snapshot["total_expense"], 0.01)
}

func TestAnalysisHandler_Analyze_CSV(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	csvContent := []byte("날짜,거래처,매출,지출\n2024-01-05,홀,1000000,0\n2024-01-06,식자재마트,0,200000\n")
	body, contentType := multipartBody(t, "file", "ledger.csv", csvContent, nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, "success", resp["status"])
}

func TestAnalysisHandler_Analyze_MissingFile(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("headcount", "3"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "MISSING_FILE", resp["error_code"])
}

func TestAnalysisHandler_Analyze_UnsupportedExtension(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	body, contentType := multipartBody(t, "file", "ledger.pdf", []byte("not a spreadsheet"), nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "UNSUPPORTED_FILE_TYPE", resp["error_code"])
}

func TestAnalysisHandler_Analyze_CorruptWorkbook(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	body, contentType := multipartBody(t, "file", "broken.xlsx", []byte("garbage"), nil)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "UNREADABLE_FILE", resp["error_code"])
}

func TestAnalysisHandler_Analyze_InvalidParams(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	body, contentType := multipartBody(t, "file", "ledger.xlsx", ledgerWorkbook(t), map[string]string{
		"date_from": "05/01/2024",
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp["error_code"])
}

func TestAnalysisHandler_Analyze_DateFilter(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	body, contentType := multipartBody(t, "file", "ledger.xlsx", ledgerWorkbook(t), map[string]string{
		"date_from": "2024-01-01",
		"date_to":   "2024-01-10",
	})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	data := resp["data"].(map[string]interface{})
	snapshot := data["snapshot"].(map[string]interface{})
	// The 2024-01-20 delivery revenue falls outside the window.
	assert.InDelta(t, 1000000, snapshot["total_revenue"], 0.01)
}

func TestAnalysisHandler_Batch(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range []string{"jan.csv", "feb.csv"} {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("날짜,거래처,매출,지출\n2024-01-05,홀,500000,0\n"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/batch", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody(t, rec)
	assert.Equal(t, "success", resp["status"])
	assert.EqualValues(t, 2, resp["count"])

	results, ok := resp["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)
	for _, raw := range results {
		result := raw.(map[string]interface{})
		assert.Empty(t, result["error"])
		assert.NotNil(t, result["result"])
	}
}

func TestAnalysisHandler_Batch_NoFiles(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/batch", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "MISSING_FILES", resp["error_code"])
}

func TestAnalysisHandler_Sheet_NotConfigured(t *testing.T) {
	h := testHandler(t)
	router := h.Routes()

	req := httptest.NewRequest(http.MethodPost, "/sheet", bytes.NewBufferString(`{"sheet_url":"https://docs.google.com/spreadsheets/d/abc123/edit"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "SHEETS_NOT_CONFIGURED", resp["error_code"])
}
