// Package app provides application initialization and lifecycle management
// for the CostPulse web service. It handles the orchestration of all major
// components including configuration loading, service initialization, and
// graceful shutdown procedures.
//
// # Architecture
//
// The app package follows a dependency injection pattern where all components
// are wired together at startup. This ensures loose coupling and testability.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and metrics
//	3. Initialize the analysis service and readers
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// # Usage
//
// The main entry point is typically:
//
//	app, err := app.NewApplication(configPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM signals to ensure:
//
//	- Active requests are completed
//	- The log file is flushed and closed
//
// # Error Handling
//
// All initialization errors are returned to the caller for proper
// handling. The app does not call os.Exit() directly, allowing
// the main function to control the exit process.
package app
