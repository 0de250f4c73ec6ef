// Package files provides file system operations and discovery utilities
// for the CostPulse analyzer.
//
// This package contains two main components:
//
// Discovery: Provides file discovery operations such as finding
// spreadsheet inputs and generated report files, plus utilities for
// pattern matching and picking the latest file.
//
// Manager: Provides basic file management operations such as reading,
// writing and deleting files, and ensuring directories exist. Relative
// paths resolve against the application's data directories.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/base")
//
//	// Find all spreadsheets to analyze
//	inputs, err := discovery.FindSpreadsheetFiles("uploads")
//
//	// Create a manager instance
//	manager := files.NewManager(paths)
//
//	// Check if a report exists
//	if manager.FileExists("reports/costpulse_snapshot_20240131.json") {
//	    // Serve file
//	}
package files
