package textutil

import (
	"strings"
	"unicode"
)

const (
	minPrintableRatio = 0.8
	maxNonASCIIStreak = 5
)

// IsPrintable reports whether text looks like human-readable metadata rather
// than binary residue from a broken extractor. Short runs of accented
// characters are allowed; long non-ASCII runs, byte-literal prefixes, and hex
// escapes are not.
func IsPrintable(text string) bool {
	if text == "" {
		return false
	}
	if strings.HasPrefix(text, "b'") || strings.HasPrefix(text, `b"`) {
		return false
	}
	if strings.Contains(text, `\x`) {
		return false
	}
	var total, printable, streak int
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
		if r > unicode.MaxASCII {
			streak++
			if streak > maxNonASCIIStreak {
				return false
			}
		} else {
			streak = 0
		}
	}
	return float64(printable)/float64(total) >= minPrintableRatio
}
