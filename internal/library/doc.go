// Package library persists the ebook index in SQLite.
//
// The Store is the single mutable resource shared by classification and
// reorganization runs: it lists unclassified books for a source-path scope,
// records placements, and updates source paths after files move. It also
// serves indexed metadata to the classifier through MetadataForPath.
//
// Schema changes bump the version in schema.go; the database is rebuilt by
// re-importing the library.
package library
