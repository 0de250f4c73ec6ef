package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costpulse/internal/config"
	"costpulse/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return &config.Paths{
		ExecutableDir: base,
		DataDir:       filepath.Join(base, "data"),
		UploadsDir:    filepath.Join(base, "data", "uploads"),
		ReportsDir:    filepath.Join(base, "data", "reports"),
		LogsDir:       filepath.Join(base, "logs"),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := strings.TrimPrefix(string(data), "\xEF\xBB\xBF")
	rows, err := csv.NewReader(strings.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVWriter_WriteSimpleCSV(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	err := writer.WriteSimpleCSV("report.csv",
		[]string{"Date", "Amount"},
		[][]string{{"2024-01-15", "50000"}},
	)
	require.NoError(t, err)

	data, err := os.ReadFile(paths.GetReportPath("report.csv"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"), "expected UTF-8 BOM")

	rows := readCSV(t, paths.GetReportPath("report.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Date", "Amount"}, rows[0])
}

func TestCSVWriter_Append(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	require.NoError(t, writer.WriteSimpleCSV("report.csv",
		[]string{"Date"}, [][]string{{"2024-01-15"}}))
	require.NoError(t, writer.AppendToCSV("report.csv", [][]string{{"2024-01-16"}}))

	rows := readCSV(t, paths.GetReportPath("report.csv"))
	assert.Len(t, rows, 3)
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	writer := NewCSVWriter(paths)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"Date", "Amount"})
	require.NoError(t, err)
	require.NoError(t, stream.WriteRecord([]string{"2024-01-15", "50000"}))
	require.NoError(t, stream.WriteRecord([]string{"2024-01-16", "30000"}))
	require.NoError(t, stream.Close())

	rows := readCSV(t, paths.GetReportPath("stream.csv"))
	assert.Len(t, rows, 3)
}

func TestLedgerExporter_ExportTransactions(t *testing.T) {
	paths := testPaths(t)
	exp := NewLedgerExporter(paths)

	txs := []domain.Transaction{
		{Date: domain.UnknownDate, Counterparty: "General", Expense: 1000, Profit: -1000},
		{Date: "2024-01-16", Counterparty: "식당", Revenue: 30000, Profit: 30000},
		{Date: "2024-01-15", Counterparty: "마트", Expense: 50000, Profit: -50000},
	}

	require.NoError(t, exp.ExportTransactions(txs, "transactions.csv"))

	rows := readCSV(t, paths.GetReportPath("transactions.csv"))
	require.Len(t, rows, 4)
	assert.Equal(t, "2024-01-15", rows[1][0], "sorted by date")
	assert.Equal(t, "2024-01-16", rows[2][0])
	assert.Equal(t, domain.UnknownDate, rows[3][0], "unknown dates sort last")
	assert.Equal(t, "50000.00", rows[1][4], "expense formatted with 2 decimals")
}

func TestLedgerExporter_ExportPurchases(t *testing.T) {
	paths := testPaths(t)
	exp := NewLedgerExporter(paths)

	purchases := []domain.Purchase{
		{Date: "2024-01-16", Vendor: "B마트", ItemName: "양파", LineTotal: 5000, MajorCategory: domain.PurchaseFood},
		{Date: "2024-01-15", Vendor: "A식자재", ItemName: "소고기", LineTotal: 80000, MajorCategory: domain.PurchaseFood},
	}

	require.NoError(t, exp.ExportPurchases(purchases, "purchases.csv"))

	rows := readCSV(t, paths.GetReportPath("purchases.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, "A식자재", rows[1][1], "sorted by vendor")
	assert.Equal(t, string(domain.PurchaseFood), rows[1][10])
}

func TestSnapshotExporter_Export(t *testing.T) {
	paths := testPaths(t)
	exp := NewSnapshotExporter(paths)
	fixed := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	exp.now = func() time.Time { return fixed }

	report := SnapshotReport{
		Granularity: domain.GranularityDaily,
		Snapshot: domain.FinancialSnapshot{
			TotalRevenue: 1000000,
			FLRatio:      62.5,
			Status:       domain.StatusGood,
		},
		Metadata: map[string]any{"headcount": 5},
	}

	require.NoError(t, exp.Export(report, "snapshot.json"))

	data, err := os.ReadFile(paths.GetReportPath("snapshot.json"))
	require.NoError(t, err)

	var decoded SnapshotReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, fixed, decoded.GeneratedAt)
	assert.Equal(t, domain.GranularityDaily, decoded.Granularity)
	assert.InDelta(t, 62.5, decoded.Snapshot.FLRatio, 0.001)
	assert.Equal(t, domain.StatusGood, decoded.Snapshot.Status)
}
