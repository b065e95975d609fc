// Package logging provides structured logging utilities for the garmin-mcp application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (username anonymization)
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "activities.list")
//	logger.Info("listing activities",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("user operation",
//	    logging.UserHash(username))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - GitHub logins are hashed to prevent PII leakage while allowing correlation
//   - Tokens are never logged directly
package logging
