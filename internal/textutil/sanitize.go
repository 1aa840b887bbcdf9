package textutil

import "strings"

// UnknownSegment replaces a path segment that sanitizes to nothing.
const UnknownSegment = "Unknown"

var segmentReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"\x00", "",
)

// SanitizeSegment makes value safe to use as a single directory name.
// Filesystem-illegal characters become underscores, whitespace collapses, and
// the relative names "." and ".." are neutralized so a segment can never climb
// out of its parent.
func SanitizeSegment(value string) string {
	cleaned := CollapseSpaces(segmentReplacer.Replace(value))
	switch cleaned {
	case "":
		return UnknownSegment
	case ".", "..":
		return strings.Repeat("_", len(cleaned))
	}
	return cleaned
}
