// Package overrides holds manual placements that take precedence over the
// classifier for one session.
//
// A Ledger is passed explicitly into batch runs. Sessions can be persisted
// to a small JSON file so the CLI can build up overrides across several
// invocations before a classify run applies them.
package overrides
