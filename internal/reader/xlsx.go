package reader

import (
	"context"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	apperrors "costpulse/internal/errors"
)

// XLSXReader loads Excel workbooks into raw records, one Sheet per
// workbook tab.
type XLSXReader struct {
	logger *slog.Logger
}

// NewXLSXReader creates an Excel reader. A nil logger falls back to
// slog.Default().
func NewXLSXReader(logger *slog.Logger) *XLSXReader {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXReader{logger: logger}
}

// ReadFile opens the workbook at path and extracts every sheet.
func (r *XLSXReader) ReadFile(ctx context.Context, path string, headerKeywords []string) ([]Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	return r.extract(ctx, f, headerKeywords)
}

// Read extracts every sheet from a workbook streamed through src,
// typically an uploaded file.
func (r *XLSXReader) Read(ctx context.Context, src io.Reader, headerKeywords []string) ([]Sheet, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to decode workbook", err)
	}
	defer f.Close()

	return r.extract(ctx, f, headerKeywords)
}

func (r *XLSXReader) extract(ctx context.Context, f *excelize.File, headerKeywords []string) ([]Sheet, error) {
	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := f.GetRows(name)
		if err != nil {
			r.logger.WarnContext(ctx, "skipping unreadable sheet",
				slog.String("sheet_name", name),
				slog.String("error", err.Error()))
			continue
		}
		if len(rows) == 0 {
			continue
		}

		records := RowsToRecords(rows, headerKeywords, r.logger)
		r.logger.InfoContext(ctx, "sheet extracted",
			slog.String("sheet_name", name),
			slog.Int("total_rows", len(rows)),
			slog.Int("records", len(records)))

		sheets = append(sheets, Sheet{Name: name, Records: records})
	}

	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook contains no readable sheets", nil)
	}
	return sheets, nil
}
