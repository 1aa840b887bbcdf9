package library

import (
	"os"
	"path/filepath"
	"strings"
)

// NormalizeScope cleans a source-path scope. The empty scope covers the
// whole library.
func NormalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return ""
	}
	return filepath.Clean(scope)
}

// InScope reports whether path lies at or below scope.
func InScope(scope, path string) bool {
	scope = NormalizeScope(scope)
	if scope == "" {
		return true
	}
	path = filepath.Clean(path)
	return path == scope || strings.HasPrefix(path, scopePrefix(scope))
}

// ScopesOverlap reports whether two scopes share any path.
func ScopesOverlap(a, b string) bool {
	a, b = NormalizeScope(a), NormalizeScope(b)
	if a == "" || b == "" {
		return true
	}
	return InScope(a, b) || InScope(b, a)
}

func scopePrefix(scope string) string {
	if strings.HasSuffix(scope, string(os.PathSeparator)) {
		return scope
	}
	return scope + string(os.PathSeparator)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// scopeClause returns a WHERE fragment restricting source_path to scope.
func scopeClause(scope string) (string, []any) {
	scope = NormalizeScope(scope)
	if scope == "" {
		return "1=1", nil
	}
	return `(source_path = ? OR source_path LIKE ? ESCAPE '\')`,
		[]any{scope, likeEscaper.Replace(scopePrefix(scope)) + "%"}
}
