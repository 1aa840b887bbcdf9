package openlibrary

import (
	"context"
	"log/slog"
	"time"

	"shelver/internal/logging"
	"shelver/internal/metadata"
	"shelver/internal/textutil"
)

const defaultMinTitleSimilarity = 0.2

// Enricher adapts the search client to metadata.Enricher, adding a result
// cache and a title sanity check. It never returns errors: failures are
// logged and reported as no result.
type Enricher struct {
	searcher      Searcher
	cache         *Cache
	minSimilarity float64
	logger        *slog.Logger
	now           func() time.Time
}

var _ metadata.Enricher = (*Enricher)(nil)

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher)

// WithCache stores results in cache.
func WithCache(cache *Cache) EnricherOption {
	return func(e *Enricher) {
		e.cache = cache
	}
}

// WithMinTitleSimilarity sets the fingerprint similarity the top document's
// title must reach against the query title.
func WithMinTitleSimilarity(threshold float64) EnricherOption {
	return func(e *Enricher) {
		if threshold >= 0 {
			e.minSimilarity = threshold
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = logging.NewComponentLogger(logger, "openlibrary")
	}
}

// NewEnricher wraps searcher.
func NewEnricher(searcher Searcher, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		searcher:      searcher,
		minSimilarity: defaultMinTitleSimilarity,
		logger:        logging.NewComponentLogger(nil, "openlibrary"),
		now:           time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Lookup implements metadata.Enricher.
func (e *Enricher) Lookup(ctx context.Context, title, author string) *metadata.Enrichment {
	if e == nil || e.searcher == nil || title == "" {
		return nil
	}
	logger := logging.WithContext(ctx, e.logger)
	key := cacheKey(title, author)

	if e.cache != nil {
		entry, ok, err := e.cache.get(key)
		if err != nil {
			logger.Debug("lookup cache read failed", logging.String("key", key), logging.Error(err))
		} else if ok {
			logger.Debug("lookup cache hit", logging.String("key", key), logging.Bool("found", entry.Found))
			return entry.enrichment()
		}
	}

	doc, err := e.searcher.Search(ctx, title, author)
	if err != nil {
		// Transport failures are not cached so a later run can retry.
		logging.WarnWithContext(logger, "open library lookup failed", "enrichment_unavailable",
			logging.String("title", title),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check network access or openlibrary.base_url"),
			logging.String(logging.FieldImpact, "enrichment skipped for this book"),
		)
		return nil
	}

	entry := cacheEntry{StoredAt: e.now().UTC()}
	switch {
	case doc == nil:
		logger.Debug("open library returned no match", logging.String("title", title))
	case !textutil.TitlesAgree(title, doc.Title, e.minSimilarity):
		logger.Debug("open library match rejected",
			logging.String("title", title),
			logging.String("matched_title", doc.Title),
			logging.String("decision_reason", "title_similarity_below_threshold"),
		)
	default:
		entry.Found = true
		entry.Title = doc.Title
		entry.Author = doc.Author()
		entry.Subjects = doc.Subject
	}

	if e.cache != nil {
		if err := e.cache.put(key, entry); err != nil {
			logger.Debug("lookup cache write failed", logging.String("key", key), logging.Error(err))
		}
	}
	return entry.enrichment()
}

func (c cacheEntry) enrichment() *metadata.Enrichment {
	if !c.Found {
		return nil
	}
	return &metadata.Enrichment{Title: c.Title, Author: c.Author, Subjects: c.Subjects}
}

func cacheKey(title, author string) string {
	return textutil.Fold(title) + "|" + textutil.Fold(author)
}
