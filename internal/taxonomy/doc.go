// Package taxonomy defines the two-level Category -> Sub-Genre hierarchy that
// every book placement must belong to.
//
// A Taxonomy is immutable once built. Besides the hierarchy it carries the
// alias lists used to match raw subject tags, ordered folder-name rules, and
// ordered title keyword rules. The reserved _Uncategorized category is always
// present and only valid with an empty sub-genre. Builtin returns the default
// library layout; Load reads a TOML replacement.
package taxonomy
