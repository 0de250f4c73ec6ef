package reader

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "costpulse/internal/errors"
	"costpulse/pkg/contracts/domain"
)

// defaultReadRange bounds the fetched window when the caller does not
// supply one.
const defaultReadRange = "A1:Z10000"

var spreadsheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// SheetsReaderConfig configures the Google Sheets reader.
type SheetsReaderConfig struct {
	// APIKey authenticates reads of publicly shared spreadsheets.
	// CredentialsJSON takes precedence when both are set.
	APIKey          string
	CredentialsJSON []byte
	ReadRange       string
	Logger          *slog.Logger
}

// SheetsReader fetches spreadsheet values through the Sheets API and
// maps them into raw records.
type SheetsReader struct {
	service   *sheets.Service
	readRange string
	logger    *slog.Logger
}

// NewSheetsReader builds the Sheets API client.
func NewSheetsReader(ctx context.Context, cfg SheetsReaderConfig) (*SheetsReader, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var opts []option.ClientOption
	switch {
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, apperrors.NewAppError(apperrors.ErrTypeConfig,
			"sheets reader requires an api key or service account credentials", nil)
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to create sheets service", err)
	}

	readRange := cfg.ReadRange
	if readRange == "" {
		readRange = defaultReadRange
	}

	return &SheetsReader{service: service, readRange: readRange, logger: logger}, nil
}

// Read fetches values for the spreadsheet behind ref, which may be a
// bare spreadsheet ID or a full docs.google.com URL.
func (r *SheetsReader) Read(ctx context.Context, ref string, headerKeywords []string) ([]domain.RawRow, error) {
	id, err := SpreadsheetID(ref)
	if err != nil {
		return nil, err
	}

	resp, err := r.service.Spreadsheets.Values.Get(id, r.readRange).Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read from sheets", err).
			WithContext("spreadsheet_id", id)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = fmt.Sprint(cell)
		}
		rows = append(rows, cells)
	}

	records := RowsToRecords(rows, headerKeywords, r.logger)
	r.logger.InfoContext(ctx, "sheet fetched",
		slog.String("spreadsheet_id", id),
		slog.Int("total_rows", len(rows)),
		slog.Int("records", len(records)))
	return records, nil
}

// SpreadsheetID extracts the spreadsheet ID from a share URL, or
// returns ref unchanged when it already looks like a bare ID.
func SpreadsheetID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperrors.NewAppError(apperrors.ErrTypeValidation, "empty spreadsheet reference", nil)
	}
	if !strings.Contains(ref, "/") {
		return ref, nil
	}
	if m := spreadsheetIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1], nil
	}
	return "", apperrors.NewAppError(apperrors.ErrTypeValidation,
		"could not extract spreadsheet id from url", nil).
		WithContext("ref", ref)
}
