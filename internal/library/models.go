package library

import (
	"path/filepath"
	"strings"
	"time"

	"shelver/internal/taxonomy"
)

// Ebook is one indexed book. Category and SubGenre are empty while the
// book is unclassified.
type Ebook struct {
	ID         int64
	SourcePath string
	Title      string
	Author     string
	Format     string
	Language   string
	Subjects   []string
	Category   string
	SubGenre   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsClassified reports whether the book carries a category.
func (e Ebook) IsClassified() bool {
	return e.Category != ""
}

// Placement returns the stored placement, or the uncategorized sentinel.
func (e Ebook) Placement() taxonomy.Placement {
	if !e.IsClassified() {
		return taxonomy.UncategorizedPlacement()
	}
	return taxonomy.Placement{Category: e.Category, SubGenre: e.SubGenre}
}

// FileName returns the base name of the source path.
func (e Ebook) FileName() string {
	return filepath.Base(e.SourcePath)
}

// NewEbook describes a book to add to the index.
type NewEbook struct {
	SourcePath string
	Title      string
	Author     string
	Format     string
	Language   string
	Subjects   []string
}

func (n NewEbook) format() string {
	if f := strings.ToLower(strings.TrimSpace(n.Format)); f != "" {
		return strings.TrimPrefix(f, ".")
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(n.SourcePath)), ".")
}

// Stats summarizes classification coverage.
type Stats struct {
	Total           int            `json:"total"`
	Classified      int            `json:"classified"`
	Unclassified    int            `json:"unclassified"`
	ByCategory      map[string]int `json:"by_category"`
	BySubGenre      map[string]int `json:"by_sub_genre"`
	CoveragePercent float64        `json:"coverage_percent"`
}

// BrowseQuery filters a page of books. An empty Category matches every
// book; taxonomy.Uncategorized matches unclassified books.
type BrowseQuery struct {
	Category string
	SubGenre string
	Scope    string
	Offset   int
	Limit    int
}

// BrowsePage is one page of Browse results.
type BrowsePage struct {
	Total  int
	Offset int
	Limit  int
	Items  []Ebook
}
