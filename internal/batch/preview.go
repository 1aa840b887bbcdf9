package batch

import (
	"context"
	"strings"

	"shelver/internal/classifier"
	"shelver/internal/library"
	"shelver/internal/services"
	"shelver/internal/textutil"
)

// PreviewBook is one book's proposed placement.
type PreviewBook struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Author          string            `json:"author"`
	Path            string            `json:"path"`
	Source          classifier.Source `json:"strategy_source"`
	Confidence      float64           `json:"confidence"`
	CurrentCategory string            `json:"current_category"`
	CurrentSubGenre string            `json:"current_sub_genre"`
	Category        string            `json:"category"`
	SubGenre        string            `json:"sub_genre"`
}

// Tree groups preview books by category, then sub-genre.
type Tree map[string]map[string][]PreviewBook

func (t Tree) add(book PreviewBook) {
	subs, ok := t[book.Category]
	if !ok {
		subs = make(map[string][]PreviewBook)
		t[book.Category] = subs
	}
	subs[book.SubGenre] = append(subs[book.SubGenre], book)
}

// Preview is the result of a dry classification run.
type Preview struct {
	Tree            Tree           `json:"tree"`
	TotalToClassify int            `json:"total_to_classify"`
	Previewed       int            `json:"previewed"`
	CategoryCounts  map[string]int `json:"category_counts"`
}

// Preview runs the same selection and classification as Classify without
// persisting anything. It takes no scope lock.
func (c *Coordinator) Preview(ctx context.Context, req ClassifyRequest) (Preview, error) {
	scope := library.NormalizeScope(req.Scope)
	ctx = services.WithStage(ctx, "preview")
	books, err := c.selectBooks(ctx, scope, req)
	if err != nil {
		return Preview{}, err
	}
	overridden := c.overriddenBooks(ctx, scope, req.Overrides, &ClassifyResult{})

	preview := Preview{Tree: make(Tree), CategoryCounts: make(map[string]int)}
	for _, book := range overridden {
		preview.record(previewBook(book, req.Overrides.Effective(book.ID, classifier.Result{})))
	}
	for _, book := range books {
		if _, ok := req.Overrides.Get(book.ID); ok {
			continue
		}
		if book.IsClassified() && !req.ForceReclassify {
			continue
		}
		outcome := c.classifier.ClassifyBook(services.WithEbookID(ctx, book.ID), bookFor(book))
		preview.record(previewBook(book, outcome))
	}

	if len(req.EbookIDs) == 0 && !req.ForceReclassify {
		total, err := c.store.CountUnclassified(ctx, scope)
		if err != nil {
			return Preview{}, services.Wrap(services.ErrTransient, "batch", "preview", "count unclassified", err)
		}
		preview.TotalToClassify = total
	} else {
		preview.TotalToClassify = preview.Previewed
	}
	return preview, nil
}

func (p *Preview) record(book PreviewBook) {
	p.Tree.add(book)
	p.CategoryCounts[book.Category]++
	p.Previewed++
}

func previewBook(book library.Ebook, outcome classifier.Result) PreviewBook {
	title := strings.TrimSpace(book.Title)
	if title == "" {
		title = textutil.DisplayTitleFromPath(book.SourcePath)
	}
	return PreviewBook{
		ID:              book.ID,
		Title:           title,
		Author:          displayAuthor(outcome.Author, book.Author),
		Path:            book.SourcePath,
		Source:          outcome.Source,
		Confidence:      outcome.Confidence,
		CurrentCategory: book.Category,
		CurrentSubGenre: book.SubGenre,
		Category:        outcome.Category,
		SubGenre:        outcome.SubGenre,
	}
}
