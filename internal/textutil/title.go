package textutil

import (
	"regexp"
	"strings"
)

const minLookupTitleLength = 3

var (
	bracketedFragment = regexp.MustCompile(`\[.*?\]`)
	parenFragment     = regexp.MustCompile(`\(.*?\)`)
	dashSeparator     = regexp.MustCompile(`\s*-\s*`)
	yearToken         = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	formatToken       = regexp.MustCompile(`(?i)\b(epub|pdf|mobi|azw3?)\b`)
)

// CleanLookupTitle turns a download-style file stem into a search title:
// watermarks, bracketed fragments, years, and format words are removed and
// separators become spaces. Returns "" when fewer than three characters remain.
func CleanLookupTitle(stem string) string {
	title := mentionPattern.ReplaceAllString(stem, "")
	title = pdfDrivePattern.ReplaceAllString(title, "")
	title = zlibPattern.ReplaceAllString(title, "")
	title = bracketedFragment.ReplaceAllString(title, "")
	title = parenFragment.ReplaceAllString(title, "")
	title = underscoreRun.ReplaceAllString(title, " ")
	title = dashSeparator.ReplaceAllString(title, " ")
	title = yearToken.ReplaceAllString(title, "")
	title = formatToken.ReplaceAllString(title, "")
	title = CollapseSpaces(title)
	if len([]rune(title)) < minLookupTitleLength {
		return ""
	}
	return title
}

// LookupTitleFromPath derives a search title from a file path.
func LookupTitleFromPath(path string) string {
	return CleanLookupTitle(fileStem(path))
}

// DisplayTitleFromPath derives a human title from a file name, used when a
// record carries no title of its own.
func DisplayTitleFromPath(path string) string {
	stem := strings.TrimSpace(underscoreRun.ReplaceAllString(fileStem(path), " "))
	return CollapseSpaces(stem)
}
