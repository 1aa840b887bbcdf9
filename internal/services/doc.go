// Package services defines shared error markers and context helpers consumed by
// the classifier, batch coordinator, and reorganization executor.
//
// Key responsibilities:
//   - Context helpers that stamp ebook IDs, stage names, batch run IDs, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so callers can branch on
//     failure kinds (invalid taxonomy, concurrent run, unresolved collisions)
//     with errors.Is.
//
// Use these helpers when wiring new operations so error handling and
// observability stay uniform across the engine.
package services
