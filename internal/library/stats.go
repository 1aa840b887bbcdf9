package library

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"shelver/internal/taxonomy"
)

const (
	DefaultBrowseLimit = 100
	MaxBrowseLimit     = 500
)

// Stats summarizes classification coverage under scope.
func (s *Store) Stats(ctx context.Context, scope string) (Stats, error) {
	ctx = ensureContext(ctx)
	clause, args := scopeClause(scope)
	stats := Stats{
		ByCategory: make(map[string]int),
		BySubGenre: make(map[string]int),
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT category, sub_genre, COUNT(1) FROM ebooks WHERE "+clause+" GROUP BY category, sub_genre", args...)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			category, subGenre sql.NullString
			count              int
		)
		if err := rows.Scan(&category, &subGenre, &count); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Total += count
		if !category.Valid {
			stats.Unclassified += count
			continue
		}
		stats.Classified += count
		stats.ByCategory[category.String] += count
		stats.BySubGenre[taxonomy.Placement{Category: category.String, SubGenre: subGenre.String}.String()] += count
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("iterate stats: %w", err)
	}
	if stats.Total > 0 {
		stats.CoveragePercent = math.Round(float64(stats.Classified)/float64(stats.Total)*1000) / 10
	}
	return stats, nil
}

// ClampBrowseLimit applies the default and maximum page sizes.
func ClampBrowseLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultBrowseLimit
	case limit > MaxBrowseLimit:
		return MaxBrowseLimit
	}
	return limit
}

// Browse returns one page of books filtered by placement and scope.
func (s *Store) Browse(ctx context.Context, query BrowseQuery) (BrowsePage, error) {
	ctx = ensureContext(ctx)
	page := BrowsePage{Offset: max(query.Offset, 0), Limit: ClampBrowseLimit(query.Limit)}

	clause, args := scopeClause(query.Scope)
	switch {
	case query.Category == taxonomy.Uncategorized:
		clause += " AND category IS NULL"
	case query.Category != "":
		clause += " AND category = ?"
		args = append(args, query.Category)
		if query.SubGenre != "" {
			clause += " AND sub_genre = ?"
			args = append(args, query.SubGenre)
		}
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM ebooks WHERE "+clause, args...).Scan(&page.Total); err != nil {
		return BrowsePage{}, fmt.Errorf("count browse: %w", err)
	}

	pageArgs := append(append([]any{}, args...), page.Limit, page.Offset)
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+ebookColumns+" FROM ebooks WHERE "+clause+" ORDER BY id LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return BrowsePage{}, fmt.Errorf("browse ebooks: %w", err)
	}
	items, err := scanEbooks(rows)
	if err != nil {
		return BrowsePage{}, fmt.Errorf("scan ebooks: %w", err)
	}
	page.Items = items
	return page, nil
}
