package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"shelver/internal/services"
	"shelver/internal/textutil"
)

// EbookExtensions lists the file extensions ImportDir indexes.
var EbookExtensions = map[string]struct{}{
	".epub": {}, ".pdf": {}, ".mobi": {}, ".azw": {}, ".azw3": {},
	".djvu": {}, ".fb2": {}, ".cbz": {}, ".cbr": {},
}

// ImportResult summarizes an ImportDir run.
type ImportResult struct {
	Added   int      `json:"added"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportDir indexes every ebook file below root that is not indexed yet.
// Titles and authors come from the file name; embedded metadata is left to
// the external extractor.
func (s *Store) ImportDir(ctx context.Context, root string) (ImportResult, error) {
	var result ImportResult
	root = filepath.Clean(root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if _, ok := EbookExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		book := NewEbook{
			SourcePath: path,
			Title:      textutil.DisplayTitleFromPath(path),
		}
		if author, ok := textutil.AuthorFromFilename(path); ok {
			book.Author = author
		}
		if _, err := s.Add(ctx, book); err != nil {
			if errors.Is(err, services.ErrValidation) {
				result.Skipped++
				return nil
			}
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		result.Added++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("walk %s: %w", root, err)
	}
	return result, nil
}
