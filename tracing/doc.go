// Package tracing provides a thin wrapper around OpenTelemetry tracing.
// Plan runs and individual step executions are instrumented through
// StartSpan/EndSpan; all instrumentation is kept in a separate package so
// that applications which do not require tracing can exclude it from their
// build.
package tracing
