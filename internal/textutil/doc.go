// Package textutil holds the text handling shared by classification and
// reorganization.
//
// The main pieces are:
//   - Fold, a diacritic- and case-insensitive matching key built on x/text
//   - author cleaning and validation, including filename-based extraction
//   - search-title cleaning for download-style file names
//   - path segment sanitizing for the Category/Sub-Genre/Author tree
//   - token fingerprints and cosine similarity for comparing titles
package textutil
