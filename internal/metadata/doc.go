// Package metadata defines the collaborator contracts the classifier consumes:
// Reader supplies raw per-file metadata and Enricher supplies external lookups.
//
// Format-specific extraction is not done here. The index-backed reader serves
// the metadata that library sync already stored alongside each record.
package metadata
