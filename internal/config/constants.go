package config

import "time"

// Application constants - fixed values shared across the CostPulse system
const (
	// Application Info
	AppName    = "CostPulse"
	AppVersion = "1.0.0"

	// Timeouts
	SheetsFetchTimeout = 45 * time.Second
	AnalysisTimeout    = 5 * time.Minute

	// Upload handling
	MaxUploadFiles = 10
)
