// Package api is the operation facade consumed by the CLI and any future
// transport layer. It validates inputs, applies configured defaults, and
// delegates to the batch coordinator and library store.
//
// # Operations
//
// GetTaxonomy, PreviewClassification, BatchClassify, SetClassification,
// PreviewReorganize, and ApplyReorganize map one to one onto the exposed
// surface. Inputs are plain structs validated with go-playground/validator;
// failures are reported as services.ErrValidation with json field names.
//
// # Design Notes
//
// DTOs use snake_case JSON tags. Ebook placements are null when the book is
// unclassified. Mutating operations refresh the library gauges and rewrite
// the metrics textfile when one is configured.
package api
