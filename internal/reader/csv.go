package reader

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"os"

	apperrors "costpulse/internal/errors"
	"costpulse/pkg/contracts/domain"
)

// CSVReader loads comma-separated files into raw records with the
// same header resolution as the Excel reader.
type CSVReader struct {
	logger *slog.Logger
}

// NewCSVReader creates a CSV reader. A nil logger falls back to
// slog.Default().
func NewCSVReader(logger *slog.Logger) *CSVReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVReader{logger: logger}
}

// ReadFile reads the CSV file at path into records.
func (r *CSVReader) ReadFile(ctx context.Context, path string, headerKeywords []string) ([]domain.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open csv file", err).
			WithContext("path", path)
	}
	defer f.Close()

	return r.Read(ctx, f, headerKeywords)
}

// Read parses CSV data from src into records. Rows with uneven field
// counts are tolerated; the header keyword scan picks the real header
// even when the file starts with a title row.
func (r *CSVReader) Read(ctx context.Context, src io.Reader, headerKeywords []string) ([]domain.RawRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to parse csv data", err)
		}
		rows = append(rows, row)
	}

	records := RowsToRecords(rows, headerKeywords, r.logger)
	r.logger.InfoContext(ctx, "csv extracted",
		slog.Int("total_rows", len(rows)),
		slog.Int("records", len(records)))
	return records, nil
}
