package metadata

import (
	"context"
	"strings"
)

// Raw is the per-file metadata an extractor produced. Every field is
// optional; values are as extracted and may contain junk.
type Raw struct {
	Title    string
	Authors  []string
	Subjects []string
	Language string
	Extra    map[string]string
}

// IsEmpty reports whether the record carries nothing usable.
func (r *Raw) IsEmpty() bool {
	if r == nil {
		return true
	}
	return strings.TrimSpace(r.Title) == "" && len(r.Authors) == 0 && len(r.Subjects) == 0
}

// PrimaryAuthor returns the first non-blank author.
func (r *Raw) PrimaryAuthor() string {
	if r == nil {
		return ""
	}
	for _, author := range r.Authors {
		if author = strings.TrimSpace(author); author != "" {
			return author
		}
	}
	return ""
}

// Reader extracts raw metadata for a file. Implementations return nil rather
// than an error for unsupported or unreadable files.
type Reader interface {
	Read(ctx context.Context, path string) *Raw
}

// ReaderFunc adapts a function to the Reader interface.
type ReaderFunc func(ctx context.Context, path string) *Raw

// Read implements Reader.
func (f ReaderFunc) Read(ctx context.Context, path string) *Raw {
	if f == nil {
		return nil
	}
	return f(ctx, path)
}

// Nop is a Reader that never finds metadata.
var Nop Reader = ReaderFunc(func(context.Context, string) *Raw { return nil })

// Enrichment is a best-effort external lookup result.
type Enrichment struct {
	Title    string
	Author   string
	Subjects []string
}

// Enricher looks up a book by title and author. Implementations must honour
// ctx cancellation and return nil instead of surfacing network errors.
type Enricher interface {
	Lookup(ctx context.Context, title, author string) *Enrichment
}
