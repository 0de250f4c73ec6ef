package http

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"costpulse/internal/config"
	apierrors "costpulse/internal/errors"
	"costpulse/internal/files"
	"costpulse/internal/middleware"
)

// ReportsHandler serves generated report files from the reports
// directory.
type ReportsHandler struct {
	discovery *files.Discovery
	manager   *files.Manager
	paths     *config.Paths
	logger    *slog.Logger
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(paths *config.Paths, logger *slog.Logger) *ReportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportsHandler{
		discovery: files.NewDiscovery(paths.ReportsDir),
		manager:   files.NewManager(paths),
		paths:     paths,
		logger:    logger.With(slog.String("handler", "reports")),
	}
}

// Routes returns the report routes following Chi patterns.
func (h *ReportsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListReports)
	r.Get("/{filename}", h.DownloadReport)
	r.Delete("/{filename}", h.DeleteReport)

	return r
}

// reportEntry is one listed report file.
type reportEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// ListReports handles GET /api/reports.
func (h *ReportsHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	found, err := h.discovery.FindReportFiles(".")
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list reports",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
		)
		apiErr := apierrors.ErrInternalServer
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	entries := make([]reportEntry, 0, len(found))
	for _, f := range found {
		entries = append(entries, reportEntry{
			Name:     f.Name,
			Size:     f.Size,
			Modified: f.ModTime.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   entries,
		"count":  len(entries),
	})
}

// DownloadReport handles GET /api/reports/{filename}.
func (h *ReportsHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	filename := chi.URLParam(r, "filename")

	if !validReportFilename(filename) {
		apiErr := apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_FILENAME",
			"Filename must not contain path separators",
			map[string]interface{}{"filename": filename},
		)
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	if !h.manager.FileExists("reports/" + filename) {
		apiErr := apierrors.NewWithDetails(
			http.StatusNotFound,
			"REPORT_NOT_FOUND",
			"Report file not found",
			map[string]interface{}{"filename": filename},
		)
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	h.logger.InfoContext(r.Context(), "downloading report",
		slog.String("request_id", reqID),
		slog.String("filename", filename),
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	case ".json":
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	http.ServeFile(w, r, h.paths.GetReportPath(filename))
}

// DeleteReport handles DELETE /api/reports/{filename}.
func (h *ReportsHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	filename := chi.URLParam(r, "filename")

	if !validReportFilename(filename) {
		apiErr := apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_FILENAME",
			"Filename must not contain path separators",
			map[string]interface{}{"filename": filename},
		)
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	if !h.manager.FileExists("reports/" + filename) {
		apiErr := apierrors.NewWithDetails(
			http.StatusNotFound,
			"REPORT_NOT_FOUND",
			"Report file not found",
			map[string]interface{}{"filename": filename},
		)
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	if err := h.manager.DeleteFile("reports/" + filename); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to delete report",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("filename", filename),
		)
		apiErr := apierrors.ErrInternalServer
		render.Status(r, apiErr.StatusCode)
		render.JSON(w, r, apiErr)
		return
	}

	h.logger.InfoContext(r.Context(), "report deleted",
		slog.String("request_id", reqID),
		slog.String("filename", filename),
	)

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   map[string]interface{}{"deleted": filename},
	})
}

// validReportFilename rejects anything that could escape the reports
// directory.
func validReportFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !strings.Contains(name, "..")
}
