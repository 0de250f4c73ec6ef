package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"costpulse/internal/config"
	"costpulse/pkg/contracts/domain"
)

// SnapshotReport is the JSON report envelope written alongside the
// CSV exports. Metadata carries analysis inputs such as headcount and
// the source file name.
type SnapshotReport struct {
	GeneratedAt    time.Time                  `json:"generated_at"`
	Granularity    domain.Granularity         `json:"granularity"`
	Snapshot       domain.FinancialSnapshot   `json:"snapshot"`
	Periods        []domain.PeriodBucket      `json:"periods,omitempty"`
	Counterparties []domain.CounterpartyTotal `json:"counterparties,omitempty"`
	Vendors        []domain.VendorTotal       `json:"vendors,omitempty"`
	PriceTrends    []domain.PriceTrend        `json:"price_trends,omitempty"`
	Metadata       map[string]any             `json:"metadata,omitempty"`
}

// SnapshotExporter serializes snapshot reports to JSON files.
type SnapshotExporter struct {
	paths *config.Paths
	now   func() time.Time
}

// NewSnapshotExporter creates a new snapshot exporter
func NewSnapshotExporter(paths *config.Paths) *SnapshotExporter {
	return &SnapshotExporter{paths: paths, now: time.Now}
}

// Export writes the report as indented JSON. GeneratedAt is stamped
// here so callers only assemble the analysis payload.
func (e *SnapshotExporter) Export(report SnapshotReport, outputPath string) error {
	report.GeneratedAt = e.now().UTC()

	fullPath := outputPath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.GetReportPath(fullPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot report: %w", err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot report: %w", err)
	}
	return nil
}
