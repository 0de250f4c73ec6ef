package exporter

import (
	"fmt"
	"sort"

	"costpulse/internal/config"
	"costpulse/pkg/contracts/domain"
)

// LedgerExporter writes normalized transaction and purchase records
// to CSV report files.
type LedgerExporter struct {
	csvWriter *CSVWriter
}

// NewLedgerExporter creates a new ledger exporter
func NewLedgerExporter(paths *config.Paths) *LedgerExporter {
	return &LedgerExporter{
		csvWriter: NewCSVWriter(paths),
	}
}

// ExportTransactions writes transactions to a single CSV file sorted
// by date, with unknown dates last.
func (e *LedgerExporter) ExportTransactions(transactions []domain.Transaction, outputPath string) error {
	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Date, sorted[j].Date
		if a == domain.UnknownDate {
			return false
		}
		if b == domain.UnknownDate {
			return true
		}
		return a < b
	})

	var csvRecords [][]string
	for _, tx := range sorted {
		csvRecords = append(csvRecords, e.transactionToCSVRow(tx))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, e.transactionHeaders(), csvRecords); err != nil {
		return fmt.Errorf("failed to write transactions report: %w", err)
	}
	return nil
}

// ExportPurchases writes purchase records to a single CSV file
// grouped by vendor, then by date.
func (e *LedgerExporter) ExportPurchases(purchases []domain.Purchase, outputPath string) error {
	sorted := make([]domain.Purchase, len(purchases))
	copy(sorted, purchases)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Vendor == sorted[j].Vendor {
			return sorted[i].Date < sorted[j].Date
		}
		return sorted[i].Vendor < sorted[j].Vendor
	})

	var csvRecords [][]string
	for _, p := range sorted {
		csvRecords = append(csvRecords, e.purchaseToCSVRow(p))
	}

	if err := e.csvWriter.WriteSimpleCSV(outputPath, e.purchaseHeaders(), csvRecords); err != nil {
		return fmt.Errorf("failed to write purchases report: %w", err)
	}
	return nil
}

// ExportTransactionsStreaming exports transactions through a stream
// writer for large ledgers.
func (e *LedgerExporter) ExportTransactionsStreaming(transactions []domain.Transaction, outputPath string) error {
	stream, err := e.csvWriter.CreateStreamWriter(outputPath, e.transactionHeaders())
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for _, tx := range transactions {
		if err := stream.WriteRecord(e.transactionToCSVRow(tx)); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to close stream: %w", err)
	}
	return nil
}

func (e *LedgerExporter) transactionHeaders() []string {
	return []string{
		"Date", "Counterparty", "Category", "Revenue", "Expense",
		"FixedCost", "VariableCost", "Profit", "PaymentMethod", "Memo",
	}
}

func (e *LedgerExporter) transactionToCSVRow(tx domain.Transaction) []string {
	return []string{
		tx.Date,
		tx.Counterparty,
		tx.CategoryRaw,
		formatFloat(tx.Revenue),
		formatFloat(tx.Expense),
		formatFloat(tx.FixedCost),
		formatFloat(tx.VariableCost),
		formatFloat(tx.Profit),
		tx.PaymentMethod,
		tx.Memo,
	}
}

func (e *LedgerExporter) purchaseHeaders() []string {
	return []string{
		"Date", "Vendor", "ItemName", "Spec", "Unit", "Quantity",
		"UnitPrice", "SupplyPrice", "VAT", "LineTotal",
		"MajorCategory", "SubCategory",
	}
}

func (e *LedgerExporter) purchaseToCSVRow(p domain.Purchase) []string {
	return []string{
		p.Date,
		p.Vendor,
		p.ItemName,
		p.Spec,
		p.Unit,
		formatFloat(p.Quantity),
		formatFloat(p.UnitPrice),
		formatFloat(p.SupplyPrice),
		formatFloat(p.VAT),
		formatFloat(p.LineTotal),
		string(p.MajorCategory),
		p.SubCategory,
	}
}
