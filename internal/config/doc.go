// Package config loads, normalizes, and validates shelver configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SHELVER_DATA_DIR and SHELVER_OPENLIBRARY_URL. Paths that are not set
// explicitly derive from data_dir, so a single setting relocates the library
// index, logs, locks, and lookup cache together.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical enum values, and clear validation errors.
package config
