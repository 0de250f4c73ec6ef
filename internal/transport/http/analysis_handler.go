package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"costpulse/internal/config"
	apierrors "costpulse/internal/errors"
	"costpulse/internal/middleware"
	"costpulse/internal/reader"
	"costpulse/internal/services"
)

// AnalysisHandler handles spreadsheet analysis HTTP requests with
// RFC 7807 style error responses.
type AnalysisHandler struct {
	service    *services.AnalysisService
	xlsxReader *reader.XLSXReader
	csvReader  *reader.CSVReader
	// sheetsReader is nil when no Google Sheets credentials are
	// configured; the /sheet endpoint answers 503 in that case.
	sheetsReader   *reader.SheetsReader
	validation     *middleware.ValidationMiddleware
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(
	service *services.AnalysisService,
	sheetsReader *reader.SheetsReader,
	validation *middleware.ValidationMiddleware,
	maxUploadBytes int64,
	logger *slog.Logger,
) *AnalysisHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisHandler{
		service:        service,
		xlsxReader:     reader.NewXLSXReader(logger),
		csvReader:      reader.NewCSVReader(logger),
		sheetsReader:   sheetsReader,
		validation:     validation,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("handler", "analysis")),
	}
}

// Routes returns the analysis routes following Chi patterns.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Analyze)
	r.Post("/batch", h.AnalyzeBatch)
	r.Post("/sheet", h.AnalyzeSheet)

	return r
}

// analyzeParams are the shared per-request analysis knobs, supplied as
// multipart form fields or JSON body fields.
type analyzeParams struct {
	Headcount int    `json:"headcount" validate:"gte=0,lte=100000"`
	DateFrom  string `json:"date_from" validate:"isodate"`
	DateTo    string `json:"date_to" validate:"isodate"`
	Month     string `json:"month" validate:"yearmonth"`
}

func (p analyzeParams) options() services.AnalysisOptions {
	return services.AnalysisOptions{
		Headcount: p.Headcount,
		DateFrom:  p.DateFrom,
		DateTo:    p.DateTo,
		Month:     p.Month,
	}
}

// Analyze handles POST /api/analyze. Accepts one uploaded workbook
// (field "file", xlsx or csv) plus optional analysis form fields.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	params, apiErr := h.parseUploadForm(w, r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"MISSING_FILE",
			"Request must include a 'file' form field",
			map[string]interface{}{"error": err.Error()},
		))
		return
	}
	defer file.Close()

	h.logger.InfoContext(r.Context(), "analyzing uploaded workbook",
		slog.String("request_id", reqID),
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size),
	)

	sheets, apiErr := h.readUpload(r, file, header)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	result, err := h.service.AnalyzeWorkbook(r.Context(), sheets, params.options())
	if err != nil {
		h.handleServiceError(w, r, err, header.Filename)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"source": header.Filename,
		"data":   result,
	})
}

// AnalyzeBatch handles POST /api/analyze/batch. Accepts multiple
// uploads under the "files" field and analyzes them concurrently.
func (h *AnalysisHandler) AnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	params, apiErr := h.parseUploadForm(w, r)
	if apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		h.renderError(w, r, apierrors.New(
			http.StatusBadRequest,
			"MISSING_FILES",
			"Request must include at least one 'files' form field",
		))
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) > config.MaxUploadFiles {
		h.renderError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"TOO_MANY_FILES",
			fmt.Sprintf("Batch uploads are limited to %d files", config.MaxUploadFiles),
			map[string]interface{}{"files": len(headers)},
		))
		return
	}

	h.logger.InfoContext(r.Context(), "analyzing batch upload",
		slog.String("request_id", reqID),
		slog.Int("sources", len(headers)),
	)

	sources := make([]services.BatchSource, 0, len(headers))
	for _, fh := range headers {
		file, err := fh.Open()
		if err != nil {
			h.renderError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"UNREADABLE_UPLOAD",
				fmt.Sprintf("Could not open uploaded file '%s'", fh.Filename),
				map[string]interface{}{"filename": fh.Filename},
			))
			return
		}

		sheets, apiErr := h.readUpload(r, file, fh)
		file.Close()
		if apiErr != nil {
			h.renderError(w, r, apiErr)
			return
		}

		sources = append(sources, services.BatchSource{Name: fh.Filename, Sheets: sheets})
	}

	results, err := h.service.AnalyzeBatch(r.Context(), sources, params.options())
	if err != nil {
		h.handleServiceError(w, r, err, "")
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status":  "success",
		"count":   len(results),
		"results": results,
	})
}

// analyzeSheetRequest is the JSON body of POST /api/analyze/sheet.
type analyzeSheetRequest struct {
	SheetURL string `json:"sheet_url" validate:"required"`
	analyzeParams
}

// AnalyzeSheet handles POST /api/analyze/sheet. Fetches a Google
// Sheets document by URL or ID and runs the transaction analysis.
func (h *AnalysisHandler) AnalyzeSheet(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if h.sheetsReader == nil {
		h.renderError(w, r, apierrors.New(
			http.StatusServiceUnavailable,
			"SHEETS_NOT_CONFIGURED",
			"Google Sheets access is not configured on this server",
		))
		return
	}

	var req analyzeSheetRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if apiErr := h.validation.ValidateStruct(req); apiErr != nil {
		h.renderError(w, r, apiErr)
		return
	}

	spreadsheetID, err := reader.SpreadsheetID(req.SheetURL)
	if err != nil {
		h.renderError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_SHEET_URL",
			"Could not extract a spreadsheet ID from the given URL",
			map[string]interface{}{"sheet_url": req.SheetURL},
		))
		return
	}

	h.logger.InfoContext(r.Context(), "analyzing remote sheet",
		slog.String("request_id", reqID),
		slog.String("spreadsheet_id", spreadsheetID),
	)

	fetchCtx, cancel := context.WithTimeout(r.Context(), config.SheetsFetchTimeout)
	defer cancel()

	rows, err := h.sheetsReader.Read(fetchCtx, req.SheetURL, h.service.TransactionHeaderKeywords())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch remote sheet",
			slog.String("error", err.Error()),
			slog.String("request_id", reqID),
			slog.String("spreadsheet_id", spreadsheetID),
		)
		h.renderError(w, r, apierrors.NewWithDetails(
			http.StatusBadGateway,
			"SHEET_FETCH_FAILED",
			"Could not fetch the remote spreadsheet",
			map[string]interface{}{"spreadsheet_id": spreadsheetID},
		))
		return
	}

	result, err := h.service.AnalyzeRecords(r.Context(), rows, nil, req.options())
	if err != nil {
		h.handleServiceError(w, r, err, spreadsheetID)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"source": spreadsheetID,
		"data":   result,
	})
}

// parseUploadForm bounds the request body, parses the multipart form
// and validates the shared analysis fields.
func (h *AnalysisHandler) parseUploadForm(w http.ResponseWriter, r *http.Request) (analyzeParams, *apierrors.APIError) {
	var params analyzeParams

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return params, apierrors.ErrFileTooLarge
		}
		return params, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_MULTIPART",
			"Could not parse multipart form",
			map[string]interface{}{"error": err.Error()},
		)
	}

	if v := r.FormValue("headcount"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return params, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"VALIDATION_FAILED",
				"headcount must be an integer",
				map[string]interface{}{"headcount": v},
			)
		}
		params.Headcount = n
	}
	params.DateFrom = r.FormValue("date_from")
	params.DateTo = r.FormValue("date_to")
	params.Month = r.FormValue("month")

	if apiErr := h.validation.ValidateStruct(params); apiErr != nil {
		return params, apiErr
	}
	return params, nil
}

// readUpload decodes one uploaded file into sheets based on its
// extension. CSV uploads become a single transaction sheet.
func (h *AnalysisHandler) readUpload(r *http.Request, file multipart.File, header *multipart.FileHeader) ([]reader.Sheet, *apierrors.APIError) {
	keywords := h.service.TransactionHeaderKeywords()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx", ".xlsm":
		sheets, err := h.xlsxReader.Read(r.Context(), file, keywords)
		if err != nil {
			h.logger.WarnContext(r.Context(), "failed to decode workbook",
				slog.String("filename", header.Filename),
				slog.String("error", err.Error()),
			)
			return nil, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity,
				"UNREADABLE_FILE",
				fmt.Sprintf("Could not decode workbook '%s'", header.Filename),
				map[string]interface{}{"filename": header.Filename},
			)
		}
		return sheets, nil

	case ".csv":
		rows, err := h.csvReader.Read(r.Context(), file, keywords)
		if err != nil {
			return nil, apierrors.NewWithDetails(
				http.StatusUnprocessableEntity,
				"UNREADABLE_FILE",
				fmt.Sprintf("Could not decode CSV '%s'", header.Filename),
				map[string]interface{}{"filename": header.Filename},
			)
		}
		return []reader.Sheet{{Name: header.Filename, Records: rows}}, nil

	default:
		return nil, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"UNSUPPORTED_FILE_TYPE",
			"Only .xlsx, .xlsm and .csv uploads are supported",
			map[string]interface{}{"filename": header.Filename},
		)
	}
}

// handleServiceError maps known service errors to API errors.
func (h *AnalysisHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, source string) {
	reqID := middleware.GetReqID(r.Context())
	h.logger.ErrorContext(r.Context(), "analysis failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("source", source),
	)

	switch {
	case errors.Is(err, services.ErrNoSheetsFound):
		h.renderError(w, r, apierrors.New(
			http.StatusUnprocessableEntity,
			"NO_SHEETS_FOUND",
			"The workbook contains no readable sheets",
		))
	case errors.Is(err, services.ErrNoTransactionsFound):
		h.renderError(w, r, apierrors.NewWithDetails(
			http.StatusUnprocessableEntity,
			"NO_TRANSACTIONS_FOUND",
			"No transaction rows survived normalization",
			map[string]interface{}{"source": source},
		))
	case errors.Is(err, services.ErrNoSourcesProvided):
		h.renderError(w, r, apierrors.New(
			http.StatusBadRequest,
			"NO_SOURCES_PROVIDED",
			"Batch analysis needs at least one source",
		))
	default:
		h.renderError(w, r, apierrors.ErrInternalServer)
	}
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}
