// Package openlibrary implements the external enrichment collaborator on top
// of the Open Library search API.
//
// Client issues rate-limited search requests. Enricher wraps a Client with a
// badger-backed result cache (positive and negative results, with expiry)
// and rejects top documents whose titles do not resemble the query. Every
// failure degrades to "no result".
package openlibrary
