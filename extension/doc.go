// Package extension provides the run-time registries the engine dispatches
// through: every registered service method becomes a tool addressable by its
// wire name, and registered Go types back the typed inputs and outputs of
// those tools.
//
// The registries are normally modified through the public APIs under the
// root plexor package, therefore most applications do not need to import
// this package directly.
package extension
