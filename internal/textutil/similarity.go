package textutil

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenLength drops articles and short particles from fingerprints.
const minTokenLength = 3

// Fingerprint is a term-frequency vector over a title's folded tokens.
type Fingerprint struct {
	counts    map[string]float64
	magnitude float64
}

// NewFingerprint returns nil when text yields no tokens.
func NewFingerprint(text string) *Fingerprint {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	fp := &Fingerprint{counts: make(map[string]float64, len(tokens))}
	for _, token := range tokens {
		fp.counts[token]++
	}
	var sum float64
	for _, count := range fp.counts {
		sum += count * count
	}
	fp.magnitude = math.Sqrt(sum)
	return fp
}

// Tokenize folds text and splits it on anything that is not a letter or
// digit, keeping tokens of at least three characters. "Les Misérables" and
// "les miserables" tokenize identically.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, field := range fields {
		if utf8.RuneCountInString(field) >= minTokenLength {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// TokenCount returns the number of distinct tokens.
func (f *Fingerprint) TokenCount() int {
	if f == nil {
		return 0
	}
	return len(f.counts)
}

// CosineSimilarity is 0 when either side is nil or empty.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil || a.magnitude == 0 || b.magnitude == 0 {
		return 0
	}
	small, large := a, b
	if len(small.counts) > len(large.counts) {
		small, large = large, small
	}
	var dot float64
	for token, count := range small.counts {
		dot += count * large.counts[token]
	}
	return dot / (a.magnitude * b.magnitude)
}

// TitlesAgree reports whether two titles share enough vocabulary to refer to
// the same book. Titles that produce no tokens cannot be compared and agree
// by default.
func TitlesAgree(a, b string, threshold float64) bool {
	fa, fb := NewFingerprint(a), NewFingerprint(b)
	if fa.TokenCount() == 0 || fb.TokenCount() == 0 {
		return true
	}
	return CosineSimilarity(fa, fb) >= threshold
}

// Ternary returns a when cond holds and b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
