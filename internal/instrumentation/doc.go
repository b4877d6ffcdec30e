// Package instrumentation provides OpenTelemetry metrics and tracing for
// mailsmith.
//
// Instrumentation is opt-in: a one-shot CLI run has no scrape target, so
// the provider defaults to disabled and becomes active only when
// INSTRUMENTATION_ENABLED=true, exporting via OTLP or stdout. All recording
// paths are safe no-ops when disabled, so library code can record
// unconditionally.
package instrumentation
