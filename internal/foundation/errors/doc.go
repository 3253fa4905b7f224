// Package errors provides foundational, type-safe error primitives used across sitepack.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, process, build, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior hints for callers
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter: exit code mapping and presentation for the CLI
//
// Example usage:
//
//	err := errors.WrapError(runErr, errors.CategoryProcess, "dependency install failed").
//		WithContext("command", "npm install").
//		WithContext("exit_code", 1).
//		Fatal().
//		Build()
package errors
