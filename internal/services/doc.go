// Package services implements the business logic layer of CostPulse.
// It provides a clean separation between HTTP handlers and the
// normalization pipeline, ensuring that business rules are
// centralized and testable.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
// The package provides these core services:
//
//	- AnalysisService: Runs the spreadsheet analysis pipeline
//	- HealthService: Provides system health checks
//
// # Error Handling
//
// Services return domain-specific errors that handlers can transform:
//
//	- Validation errors for invalid input
//	- Not found errors for missing resources
//	- Internal errors for unexpected failures
package services
