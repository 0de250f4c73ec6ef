// Package reader loads raw tabular data from Excel workbooks, CSV
// files, and Google Sheets and turns each source into header-keyed
// rows. Header rows are located by keyword scan, so sheets with
// title banners or blank leading rows still resolve.
package reader

import (
	"log/slog"
	"strings"

	"costpulse/internal/schema"
	"costpulse/pkg/contracts/domain"
)

// Sheet is one tab of raw data keyed by its resolved header row.
type Sheet struct {
	Name    string
	Records []domain.RawRow
}

// RowsToRecords resolves the header row within rows and maps every
// subsequent row into a RawRow keyed by the trimmed header cells.
// Cells beyond the header width are dropped; fully blank rows are
// skipped.
func RowsToRecords(rows [][]string, headerKeywords []string, logger *slog.Logger) []domain.RawRow {
	if len(rows) == 0 {
		return nil
	}

	headerIdx := schema.ResolveHeaderRow(rows, headerKeywords, logger)
	headers := make([]string, len(rows[headerIdx]))
	for i, h := range rows[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]domain.RawRow, 0, len(rows)-headerIdx-1)
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		record := make(domain.RawRow, len(headers))
		for i, cell := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			record[headers[i]] = cell
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}
	return records
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
