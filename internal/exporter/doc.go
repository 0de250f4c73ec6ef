// Package exporter provides CSV and JSON export functionality for
// CostPulse analysis results.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// LedgerExporter: Writes normalized transaction and purchase records
// to CSV report files.
//
// SnapshotExporter: Serializes a financial snapshot, its period
// buckets, and counterparty totals into a JSON report.
//
// Example usage:
//
//	ledger := exporter.NewLedgerExporter(paths)
//	err := ledger.ExportTransactions(txs, "transactions.csv")
//
//	snapshots := exporter.NewSnapshotExporter(paths)
//	err = snapshots.Export(report, "snapshot.json")
package exporter
