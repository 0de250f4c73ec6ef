// Package handlers implements HTTP request handlers for the CostPulse
// web service. It provides a thin layer between HTTP transport and the
// analysis pipeline, keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//	5. Consistent patterns - standardized request/response handling
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// Errors render as a structured APIError envelope:
//
//	{
//	    "status_code": 422,
//	    "error_code": "NO_TRANSACTIONS_FOUND",
//	    "message": "No transaction rows survived normalization",
//	    "details": {"source": "ledger.xlsx"}
//	}
//
// # Middleware Integration
//
// Handlers work with these middleware:
//
//	- RequestID: Adds unique request ID for tracing
//	- Logger: Structured logging with slog
//	- Recovery: Handles panics gracefully
//	- CORS: Configures cross-origin requests
//	- RateLimiter: Bounds request throughput
//
// # Testing
//
// Handlers are tested using httptest:
//
//	- Build multipart uploads in memory
//	- Test various HTTP scenarios
//	- Verify error responses
package http
