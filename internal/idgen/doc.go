// Package idgen wraps the UUID generator behind a stub-able function. Run and
// step identifiers are opaque strings; callers must not rely on their format.
package idgen
