package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"shelver/internal/metadata"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

// Add indexes a new ebook. A path that is already indexed is rejected.
func (s *Store) Add(ctx context.Context, book NewEbook) (*Ebook, error) {
	path := strings.TrimSpace(book.SourcePath)
	if path == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "add", "source path required", nil)
	}
	subjects, err := encodeSubjects(book.Subjects)
	if err != nil {
		return nil, fmt.Errorf("encode subjects: %w", err)
	}
	now := timestamp()
	res, err := s.execWithRetry(ctx,
		`INSERT INTO ebooks (
            source_path, title, author, format, language, subjects_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(source_path) DO NOTHING`,
		path,
		nullableString(strings.TrimSpace(book.Title)),
		nullableString(strings.TrimSpace(book.Author)),
		nullableString(book.format()),
		nullableString(strings.TrimSpace(book.Language)),
		subjects,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert ebook: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, services.Wrap(services.ErrValidation, "library", "add",
			fmt.Sprintf("%s is already indexed", path), nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(ctx, id)
}

// Get returns the ebook with id, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Ebook, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+ebookColumns+" FROM ebooks WHERE id = ?", id)
	book, err := scanEbook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "library", "get",
			fmt.Sprintf("ebook %d", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get ebook: %w", err)
	}
	return book, nil
}

// GetByPath returns the ebook indexed at path, or nil when none is.
func (s *Store) GetByPath(ctx context.Context, path string) (*Ebook, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+ebookColumns+" FROM ebooks WHERE source_path = ?", path)
	book, err := scanEbook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ebook by path: %w", err)
	}
	return book, nil
}

// List returns every ebook under scope in id order.
func (s *Store) List(ctx context.Context, scope string) ([]Ebook, error) {
	clause, args := scopeClause(scope)
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+ebookColumns+" FROM ebooks WHERE "+clause+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("list ebooks: %w", err)
	}
	books, err := scanEbooks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan ebooks: %w", err)
	}
	return books, nil
}

// ListByIDs returns the ebooks named by ids in the order given. Unknown
// ids are omitted; duplicates are returned once.
func (s *Store) ListByIDs(ctx context.Context, ids []int64) ([]Ebook, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT "+ebookColumns+" FROM ebooks WHERE id IN ("+makePlaceholders(len(ids))+")", args...)
	if err != nil {
		return nil, fmt.Errorf("list ebooks by id: %w", err)
	}
	found, err := scanEbooks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan ebooks: %w", err)
	}
	byID := make(map[int64]Ebook, len(found))
	for _, book := range found {
		byID[book.ID] = book
	}
	ordered := make([]Ebook, 0, len(found))
	for _, id := range ids {
		if book, ok := byID[id]; ok {
			ordered = append(ordered, book)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// ListUnclassified returns up to limit unclassified ebooks under scope in
// id order. A limit <= 0 returns all of them.
func (s *Store) ListUnclassified(ctx context.Context, scope string, limit int) ([]Ebook, error) {
	clause, args := scopeClause(scope)
	query := "SELECT " + ebookColumns + " FROM ebooks WHERE category IS NULL AND " + clause + " ORDER BY id"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list unclassified: %w", err)
	}
	books, err := scanEbooks(rows)
	if err != nil {
		return nil, fmt.Errorf("scan ebooks: %w", err)
	}
	return books, nil
}

// CountUnclassified counts unclassified ebooks under scope.
func (s *Store) CountUnclassified(ctx context.Context, scope string) (int, error) {
	clause, args := scopeClause(scope)
	var count int
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT COUNT(1) FROM ebooks WHERE category IS NULL AND "+clause, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unclassified: %w", err)
	}
	return count, nil
}

// SetClassification stores a placement. The uncategorized sentinel (or an
// empty category) clears the stored placement. Callers validate the pair
// against the taxonomy first.
func (s *Store) SetClassification(ctx context.Context, id int64, category, subGenre string) (*Ebook, error) {
	var catValue, subValue any
	if category != "" && category != taxonomy.Uncategorized {
		catValue = category
		subValue = nullableString(subGenre)
	}
	res, err := s.execWithRetry(ctx,
		"UPDATE ebooks SET category = ?, sub_genre = ?, updated_at = ? WHERE id = ?",
		catValue, subValue, timestamp(), id)
	if err != nil {
		return nil, fmt.Errorf("set classification: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "library", "set classification",
			fmt.Sprintf("ebook %d", id), nil)
	}
	return s.Get(ctx, id)
}

// UpdatePath records a new source path after a successful move.
func (s *Store) UpdatePath(ctx context.Context, id int64, newPath string) error {
	if strings.TrimSpace(newPath) == "" {
		return services.Wrap(services.ErrValidation, "library", "update path", "new path required", nil)
	}
	res, err := s.execWithRetry(ctx,
		"UPDATE ebooks SET source_path = ?, updated_at = ? WHERE id = ?",
		newPath, timestamp(), id)
	if err != nil {
		return fmt.Errorf("update path: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", "update path",
			fmt.Sprintf("ebook %d", id), nil)
	}
	return nil
}

// MetadataForPath serves the indexed metadata of path to the classifier.
// It returns nil when the path is not indexed or carries no metadata.
func (s *Store) MetadataForPath(ctx context.Context, path string) (*metadata.Raw, error) {
	book, err := s.GetByPath(ctx, path)
	if err != nil || book == nil {
		return nil, err
	}
	raw := &metadata.Raw{
		Title:    book.Title,
		Subjects: book.Subjects,
		Language: book.Language,
	}
	if book.Author != "" {
		raw.Authors = []string{book.Author}
	}
	if raw.IsEmpty() {
		return nil, nil
	}
	return raw, nil
}

var _ metadata.Source = (*Store)(nil)
