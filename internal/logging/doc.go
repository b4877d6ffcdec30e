// Package logging provides structured logging utilities for mailsmith.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// Recipient addresses are hashed before logging so that log entries can be
// correlated without exposing PII, and tokens are never logged directly.
package logging
