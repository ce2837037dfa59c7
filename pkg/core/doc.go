// Package core defines the shared domain types for dbdeck: connection
// configuration, table descriptors, pages of rows, row deltas, and the
// classified error taxonomy surfaced to every caller.
//
// The package depends only on the standard library so that both drivers
// (pkg/drivers) and operations (internal/...) can build on it.
package core
