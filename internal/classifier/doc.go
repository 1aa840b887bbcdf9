// Package classifier turns partial, per-format ebook metadata into a taxonomy
// placement.
//
// Strategies run in a fixed order and the first taxonomy-valid placement wins:
//
//  1. embedded subject tags (exact, normalized, containment, broad fallback)
//  2. parent folder names (category/sub-genre pairs, sub-genres, folder rules)
//  3. external enrichment, bounded by a timeout and skipped on failure
//  4. title keyword rules
//
// Classify never returns an error. Books nothing matches receive the
// _Uncategorized sentinel with strategy source "none". Every result records
// its strategy and a confidence so callers can explain a placement.
package classifier
