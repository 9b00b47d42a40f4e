// Package progress provides a lightweight tracker that keeps aggregated
// execution counters (steps total, completed, failed, remediations, open
// sessions) for a single plan run. The tracker instance lives in the
// execution context; every component that receives the context can
// atomically update the counters via the Delta helper without requiring a
// global registry.
package progress
