package batch

import (
	"context"
	"fmt"
	"strings"

	"shelver/internal/classifier"
	"shelver/internal/library"
	"shelver/internal/logging"
	"shelver/internal/overrides"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

// UnknownAuthor labels preview books with no known author.
const UnknownAuthor = "Unknown"

// ClassifyRequest selects the books of a classification run or preview.
// With EbookIDs set exactly those books are considered (still capped by
// Limit); otherwise unclassified books under Scope are, or every book under
// Scope when ForceReclassify is set.
type ClassifyRequest struct {
	Scope           string
	Limit           int
	ForceReclassify bool
	EbookIDs        []int64
	Overrides       *overrides.Ledger
}

// Placement is a stored (category, sub-genre) pair on the wire.
type Placement struct {
	Category string `json:"category"`
	SubGenre string `json:"sub_genre"`
}

// ClassifyResult summarizes a classification run.
type ClassifyResult struct {
	RunID             string               `json:"run_id"`
	NewlyClassified   int                  `json:"newly_classified"`
	AlreadyClassified int                  `json:"already_classified"`
	Uncategorized     int                  `json:"uncategorized"`
	Failed            int                  `json:"failed"`
	TotalProcessed    int                  `json:"total_processed"`
	Classifications   map[string]Placement `json:"classifications"`
	Errors            []string             `json:"errors"`
}

// Classify runs classification and persists the results. Overrides are
// applied first and their books skip the classifier. Per-book failures are
// counted; the returned error is reserved for runs that could not start or
// could not list their books.
func (c *Coordinator) Classify(ctx context.Context, req ClassifyRequest, progress ProgressFunc) (ClassifyResult, error) {
	ctx, run, err := c.begin(ctx, KindClassify, req.Scope)
	if err != nil {
		return ClassifyResult{}, err
	}
	result := ClassifyResult{
		RunID:           run.ID,
		Classifications: make(map[string]Placement),
		Errors:          []string{},
	}

	books, err := c.selectBooks(ctx, run.Scope, req)
	if err != nil {
		c.finish(ctx, run, err)
		return result, err
	}
	overridden := c.overriddenBooks(ctx, run.Scope, req.Overrides, &result)
	c.setTotal(run, len(overridden)+len(books))
	logger := logging.WithContext(ctx, c.logger)

	for _, book := range overridden {
		placement, _ := req.Overrides.Get(book.ID)
		c.applyPlacement(ctx, book, placement, &result)
		c.metrics.RecordClassification(string(classifier.SourceOverride))
		c.advance(run, book.ID, book.SourcePath, progress)
	}

	for _, book := range books {
		if _, ok := req.Overrides.Get(book.ID); ok {
			continue
		}
		if book.IsClassified() && !req.ForceReclassify {
			result.AlreadyClassified++
			result.TotalProcessed++
			c.metrics.RecordBatchItem("already_classified")
			c.advance(run, book.ID, book.SourcePath, progress)
			continue
		}
		bookCtx := services.WithEbookID(ctx, book.ID)
		outcome := c.classifier.ClassifyBook(bookCtx, bookFor(book))
		if !outcome.IsClassified() {
			if book.IsClassified() {
				// Forced runs replace the stored value, even with nothing.
				if _, err := c.store.SetClassification(bookCtx, book.ID, taxonomy.Uncategorized, ""); err != nil {
					result.Failed++
					result.TotalProcessed++
					result.Errors = append(result.Errors, fmt.Sprintf("ebook %d: %v", book.ID, err))
					c.metrics.RecordBatchItem("failed")
					c.advance(run, book.ID, book.SourcePath, progress)
					continue
				}
			}
			result.Uncategorized++
			result.TotalProcessed++
			result.Classifications[book.SourcePath] = Placement{Category: taxonomy.Uncategorized}
			c.metrics.RecordBatchItem("uncategorized")
			logger.Debug("no placement found", logging.Int64(logging.FieldEbookID, book.ID))
			c.advance(run, book.ID, book.SourcePath, progress)
			continue
		}
		c.applyPlacement(bookCtx, book, outcome.Placement(), &result)
		c.advance(run, book.ID, book.SourcePath, progress)
	}

	c.finish(ctx, run, nil)
	return result, nil
}

func (c *Coordinator) applyPlacement(ctx context.Context, book library.Ebook, placement taxonomy.Placement, result *ClassifyResult) {
	result.TotalProcessed++
	if book.Placement() == placement {
		result.AlreadyClassified++
		result.Classifications[book.SourcePath] = Placement{Category: placement.Category, SubGenre: placement.SubGenre}
		c.metrics.RecordBatchItem("already_classified")
		return
	}
	if _, err := c.store.SetClassification(ctx, book.ID, placement.Category, placement.SubGenre); err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("ebook %d: %v", book.ID, err))
		c.metrics.RecordBatchItem("failed")
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "classification not saved", "classification_save_failed",
			logging.Int64(logging.FieldEbookID, book.ID),
			logging.Error(err),
			logging.String(logging.FieldImpact, "book keeps its previous placement"),
		)
		return
	}
	result.NewlyClassified++
	result.Classifications[book.SourcePath] = Placement{Category: placement.Category, SubGenre: placement.SubGenre}
	c.metrics.RecordBatchItem("classified")
}

// selectBooks returns the books the classifier should consider, in the
// order they will be processed.
func (c *Coordinator) selectBooks(ctx context.Context, scope string, req ClassifyRequest) ([]library.Ebook, error) {
	var (
		books []library.Ebook
		err   error
	)
	switch {
	case len(req.EbookIDs) > 0:
		books, err = c.store.ListByIDs(ctx, req.EbookIDs)
		if err == nil {
			books = filterScope(books, scope)
		}
	case req.ForceReclassify:
		books, err = c.store.List(ctx, scope)
	default:
		books, err = c.store.ListUnclassified(ctx, scope, req.Limit)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "batch", "select books", "", err)
	}
	if req.Limit > 0 && len(books) > req.Limit {
		books = books[:req.Limit]
	}
	return books, nil
}

// overriddenBooks resolves the ledger's entries to books inside scope.
// Entries naming unknown books or books outside scope are reported as
// failures.
func (c *Coordinator) overriddenBooks(ctx context.Context, scope string, ledger *overrides.Ledger, result *ClassifyResult) []library.Ebook {
	entries := ledger.Entries()
	if len(entries) == 0 {
		return nil
	}
	books := make([]library.Ebook, 0, len(entries))
	for _, entry := range entries {
		book, err := c.store.Get(ctx, entry.EbookID)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("override for ebook %d: %v", entry.EbookID, err))
			continue
		}
		if !library.InScope(scope, book.SourcePath) {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("override for ebook %d: %s is outside run scope %s",
				entry.EbookID, book.SourcePath, describeScope(scope)))
			continue
		}
		books = append(books, *book)
	}
	return books
}

func filterScope(books []library.Ebook, scope string) []library.Ebook {
	if scope == "" {
		return books
	}
	kept := books[:0]
	for _, book := range books {
		if library.InScope(scope, book.SourcePath) {
			kept = append(kept, book)
		}
	}
	return kept
}

func bookFor(book library.Ebook) classifier.Book {
	return classifier.Book{
		ID:     book.ID,
		Path:   book.SourcePath,
		Title:  book.Title,
		Author: book.Author,
	}
}

func displayAuthor(candidates ...string) string {
	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			return candidate
		}
	}
	return UnknownAuthor
}
