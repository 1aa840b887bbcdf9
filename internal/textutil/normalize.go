package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns a matching key for text: diacritics removed, case folded,
// surrounding whitespace trimmed and inner whitespace collapsed. "Ciência
// Ficção " folds to "ciencia ficcao".
func Fold(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(stripper, text)
	if err != nil {
		stripped = text
	}
	return CollapseSpaces(cases.Fold().String(stripped))
}

// CollapseSpaces trims text and reduces every whitespace run to one space.
func CollapseSpaces(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
