// Package config provides centralized configuration management for
// CostPulse. It loads configuration from multiple sources, validates
// it, and resolves all filesystem paths relative to the executable.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of
// precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern COSTPULSE_* for
// namespacing:
//
//	COSTPULSE_SERVER_PORT=8080
//	COSTPULSE_LOGGING_LEVEL=info
//	COSTPULSE_ANALYSIS_DEFAULT_HEADCOUNT=5
//	COSTPULSE_SHEETS_API_KEY=...
//
// # Path Management
//
// The package provides centralized path management through the Paths
// type, which handles all file system paths relative to the
// executable location:
//
//	paths, err := config.GetPaths()
//	uploadPath := paths.GetUploadPath("ledger.xlsx")
//	reportPath := paths.GetReportPath("snapshot.json")
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
