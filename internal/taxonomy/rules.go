package taxonomy

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxGenreLength bounds tag values considered for matching. Longer values are
// descriptions rather than genres.
const MaxGenreLength = 50

var genreBlacklist = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?`),
	regexp.MustCompile(`(?i)^www\.`),
	regexp.MustCompile(`(?i)archive\.org`),
	regexp.MustCompile(`(?i)^IndirectObject`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^.{1,2}$`),
	// Library of Congress subject headings ("History -- 20th century").
	regexp.MustCompile(` -- `),
}

// IsJunkGenre reports whether a raw genre or subject value must never be
// matched against the taxonomy.
func IsJunkGenre(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > MaxGenreLength {
		return true
	}
	for _, pattern := range genreBlacklist {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}
