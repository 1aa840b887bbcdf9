package textutil

import (
	"path/filepath"
	"regexp"
	"strings"
)

var authorBlacklist = map[string]struct{}{
	"unknown": {}, "unknown author": {}, "none": {}, "null": {}, "n/a": {}, "na": {},
	"admin": {}, "administrator": {}, "user": {}, "owner": {},
	"author": {}, "writer": {}, "editor": {},
	"various": {}, "various authors": {}, "anonymous": {},
	"a": {}, "b": {}, "c": {}, "x": {}, "y": {}, "z": {},
	// extractor artifacts
	"nullobject": {}, "null object": {}, "calibre": {}, "calibre user": {}, "acrobat": {}, "adobe": {},
	// download-site watermarks
	"gnv64": {}, "mobilism": {}, "libgen": {}, "z-library": {},
	"downmagaz.net": {}, "downmagaz": {}, "useruplod.net": {}, "userupload": {},
}

var authorBlacklistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^IndirectObject`),
	regexp.MustCompile(`^\d+$`),
	regexp.MustCompile(`^.{1,2}$`),
	regexp.MustCompile(`(?i)^https?://`),
	regexp.MustCompile(`(?i)^www\.`),
	regexp.MustCompile(`(?i)\.(com|net|org)$`),
}

var (
	authorRoleSuffix = regexp.MustCompile(`(?i)\s+(author|editor|translator|compiled by)\s*$`)
	authorLifeYears  = regexp.MustCompile(`,?\s*\d{4}\s*-\s*\d{0,4}\s*$`)
)

// IsValidAuthor reports whether author names a person rather than a tool
// artifact, watermark, placeholder, or binary residue.
func IsValidAuthor(author string) bool {
	if strings.TrimSpace(author) == "" || !IsPrintable(author) {
		return false
	}
	if _, blocked := authorBlacklist[strings.ToLower(strings.TrimSpace(author))]; blocked {
		return false
	}
	for _, pattern := range authorBlacklistPatterns {
		if pattern.MatchString(author) {
			return false
		}
	}
	return true
}

// CleanAuthor strips role suffixes ("editor"), life years ("1835-1910"), and
// trailing punctuation. Returns "" when nothing remains.
func CleanAuthor(author string) string {
	author = authorRoleSuffix.ReplaceAllString(author, "")
	author = authorLifeYears.ReplaceAllString(author, "")
	author = strings.TrimRight(author, ".,;:")
	return strings.TrimSpace(author)
}

// ResolveAuthor cleans and validates an embedded author value.
func ResolveAuthor(raw string) (string, bool) {
	if !IsPrintable(raw) {
		return "", false
	}
	cleaned := CleanAuthor(raw)
	if !IsValidAuthor(cleaned) {
		return "", false
	}
	return cleaned, true
}

var (
	mentionPattern   = regexp.MustCompile(`@\w+`)
	pdfDrivePattern  = regexp.MustCompile(`(?i)\s*\(\s*PDFDrive\s*\)\s*`)
	zlibPattern      = regexp.MustCompile(`(?i)\s*\(\s*z-lib\.org\s*\)\s*`)
	underscoreRun    = regexp.MustCompile(`_+`)
	filenameAuthorRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?P<author>[^-–—]+?)\s*[-–—]\s*(?P<title>.+)$`),
		regexp.MustCompile(`(?i)^(?P<title>.+?)\s*[-–—]\s*(?P<author>[^-–—]+)$`),
		regexp.MustCompile(`(?i)^(?P<title>.+?)\s*\((?P<author>[^)]+)\)$`),
		regexp.MustCompile(`(?i)^(?P<title>.+?)\s*\[(?P<author>[^\]]+)\]$`),
	}
)

// underscoreAuthorRe runs on the raw stem, before underscores become spaces:
// Title_First_Last_2019_Publisher.
var underscoreAuthorRe = regexp.MustCompile(`^(?P<title>.+?)_(?P<author>[A-Z][a-z]+(?:_[A-Z][a-z]+)+)(?:_\d{4})?(?:_.+)?$`)

// AuthorFromFilename guesses an author from common download naming schemes
// such as "Author - Title.epub", "Title (Author).pdf", or
// "Title_First_Last_2019.pdf".
func AuthorFromFilename(path string) (string, bool) {
	stem := fileStem(path)
	stem = mentionPattern.ReplaceAllString(stem, "")
	stem = pdfDrivePattern.ReplaceAllString(stem, "")
	stem = zlibPattern.ReplaceAllString(stem, "")
	stem = strings.TrimSpace(stem)

	spaced := strings.TrimSpace(underscoreRun.ReplaceAllString(stem, " "))
	for _, pattern := range filenameAuthorRe {
		if author, ok := matchFilenameAuthor(pattern, spaced); ok {
			return author, true
		}
	}
	if author, ok := matchFilenameAuthor(underscoreAuthorRe, stem); ok {
		return author, true
	}
	return "", false
}

func matchFilenameAuthor(pattern *regexp.Regexp, text string) (string, bool) {
	match := pattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	author := strings.TrimSpace(match[pattern.SubexpIndex("author")])
	title := strings.TrimSpace(match[pattern.SubexpIndex("title")])
	if author == "" {
		return "", false
	}
	words := len(strings.Fields(strings.ReplaceAll(author, "_", " ")))
	if words > 4 {
		return "", false
	}
	if title != "" && float64(len(author)) > float64(len(title))*1.5 && words > 2 {
		author = title
	}
	author = CollapseSpaces(strings.ReplaceAll(author, "_", " "))
	if !IsValidAuthor(author) {
		return "", false
	}
	return author, true
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
