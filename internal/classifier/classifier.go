package classifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"shelver/internal/logging"
	"shelver/internal/metadata"
	"shelver/internal/metrics"
	"shelver/internal/taxonomy"
	"shelver/internal/textutil"
)

// Source names the strategy that produced a placement.
type Source string

const (
	SourceEmbedded   Source = "embedded"
	SourceFolder     Source = "folder"
	SourceEnrichment Source = "enrichment"
	SourceTitle      Source = "title"
	SourceOverride   Source = "override"
	SourceNone       Source = "none"
)

const defaultEnrichmentTimeout = 10 * time.Second

// Book is the classifier's view of an indexed ebook.
type Book struct {
	ID     int64
	Path   string
	Title  string
	Author string
}

// Result is the placement chosen for one book. Source explains which
// strategy won; Author is the best author name found along the way.
type Result struct {
	Category   string  `json:"category"`
	SubGenre   string  `json:"sub_genre"`
	Source     Source  `json:"strategy_source"`
	Confidence float64 `json:"confidence"`
	Author     string  `json:"author,omitempty"`
}

// Placement returns the (category, sub-genre) pair.
func (r Result) Placement() taxonomy.Placement {
	return taxonomy.Placement{Category: r.Category, SubGenre: r.SubGenre}
}

// IsClassified reports whether a real category was chosen.
func (r Result) IsClassified() bool {
	return !r.Placement().IsUncategorized()
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithReader sets the metadata reader used by ClassifyBook.
func WithReader(reader metadata.Reader) Option {
	return func(c *Classifier) {
		if reader != nil {
			c.reader = reader
		}
	}
}

// WithEnricher enables the enrichment strategy. A non-positive timeout uses
// the default.
func WithEnricher(enricher metadata.Enricher, timeout time.Duration) Option {
	return func(c *Classifier) {
		c.enricher = enricher
		if timeout > 0 {
			c.enrichTimeout = timeout
		}
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logging.NewComponentLogger(logger, "classifier")
	}
}

// WithMetrics records strategy and lookup counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// Classifier resolves placements through an ordered strategy chain:
// embedded tags, folder names, external enrichment, then title keywords.
// The first strategy producing a taxonomy-valid placement wins.
type Classifier struct {
	taxonomy      *taxonomy.Taxonomy
	tags          *tagMatcher
	folders       *folderMatcher
	reader        metadata.Reader
	enricher      metadata.Enricher
	enrichTimeout time.Duration
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

// New builds a classifier over tax.
func New(tax *taxonomy.Taxonomy, opts ...Option) *Classifier {
	c := &Classifier{
		taxonomy:      tax,
		tags:          newTagMatcher(tax),
		folders:       newFolderMatcher(tax),
		reader:        metadata.Nop,
		enrichTimeout: defaultEnrichmentTimeout,
		logger:        logging.NewComponentLogger(nil, "classifier"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Taxonomy returns the hierarchy placements are validated against.
func (c *Classifier) Taxonomy() *taxonomy.Taxonomy {
	return c.taxonomy
}

// ClassifyBook reads metadata for the book and classifies it.
func (c *Classifier) ClassifyBook(ctx context.Context, book Book) Result {
	return c.Classify(ctx, book, c.reader.Read(ctx, book.Path))
}

// classification carries per-call state between strategies.
type classification struct {
	book   Book
	raw    *metadata.Raw
	title  string
	author string
}

type match struct {
	placement  taxonomy.Placement
	confidence float64
}

type strategy struct {
	source  Source
	resolve func(ctx context.Context, state *classification) (match, bool)
}

// Classify never fails: a book with no usable metadata yields the
// Uncategorized sentinel with Source "none".
func (c *Classifier) Classify(ctx context.Context, book Book, raw *metadata.Raw) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	state := &classification{book: book, raw: raw}
	state.title = resolveTitle(book, raw)
	state.author = resolveEmbeddedAuthor(book, raw)

	logger := logging.WithContext(ctx, c.logger)
	result := Result{Category: taxonomy.Uncategorized, Source: SourceNone}
	for _, s := range c.strategies() {
		m, ok := s.resolve(ctx, state)
		if !ok {
			continue
		}
		if !c.taxonomy.IsValid(m.placement.Category, m.placement.SubGenre) || m.placement.IsUncategorized() {
			logger.Debug("strategy produced invalid placement",
				logging.String("strategy", string(s.source)),
				logging.String("placement", m.placement.String()),
			)
			continue
		}
		result = Result{
			Category:   m.placement.Category,
			SubGenre:   m.placement.SubGenre,
			Source:     s.source,
			Confidence: m.confidence,
		}
		break
	}

	result.Author = state.author
	if result.Author == "" {
		if author, ok := textutil.AuthorFromFilename(book.Path); ok {
			result.Author = author
		}
	}

	c.metrics.RecordClassification(string(result.Source))
	logger.Debug("book classified",
		logging.String("path", book.Path),
		logging.String("category", result.Category),
		logging.String("sub_genre", result.SubGenre),
		logging.String("strategy", string(result.Source)),
		logging.Float64("confidence", result.Confidence),
	)
	return result
}

func (c *Classifier) strategies() []strategy {
	return []strategy{
		{SourceEmbedded, c.fromEmbedded},
		{SourceFolder, c.fromFolder},
		{SourceEnrichment, c.fromEnrichment},
		{SourceTitle, c.fromTitle},
	}
}

func (c *Classifier) fromEmbedded(_ context.Context, state *classification) (match, bool) {
	if state.raw == nil {
		return match{}, false
	}
	return c.tags.match(state.raw.Subjects, true)
}

func (c *Classifier) fromFolder(_ context.Context, state *classification) (match, bool) {
	return c.folders.match(state.book.Path)
}

func (c *Classifier) fromTitle(_ context.Context, state *classification) (match, bool) {
	candidates := []string{state.title}
	if display := textutil.DisplayTitleFromPath(state.book.Path); display != state.title {
		candidates = append(candidates, display)
	}
	for _, rule := range c.taxonomy.KeywordRules() {
		for _, keyword := range rule.Keywords {
			folded := textutil.Fold(keyword)
			for _, candidate := range candidates {
				if folded != "" && strings.Contains(textutil.Fold(candidate), folded) {
					return match{placement: rule.Placement, confidence: confidenceTitle}, true
				}
			}
		}
	}
	return match{}, false
}

func resolveTitle(book Book, raw *metadata.Raw) string {
	for _, candidate := range []string{book.Title, rawTitle(raw)} {
		if candidate = textutil.CollapseSpaces(candidate); candidate != "" && textutil.IsPrintable(candidate) {
			return candidate
		}
	}
	return ""
}

func rawTitle(raw *metadata.Raw) string {
	if raw == nil {
		return ""
	}
	return raw.Title
}

func resolveEmbeddedAuthor(book Book, raw *metadata.Raw) string {
	candidates := make([]string, 0, 4)
	if raw != nil {
		candidates = append(candidates, raw.Authors...)
	}
	candidates = append(candidates, book.Author)
	for _, candidate := range candidates {
		if author, ok := textutil.ResolveAuthor(candidate); ok {
			return author
		}
	}
	return ""
}
