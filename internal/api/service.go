package api

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"shelver/internal/batch"
	"shelver/internal/config"
	"shelver/internal/library"
	"shelver/internal/logging"
	"shelver/internal/metrics"
	"shelver/internal/overrides"
	"shelver/internal/reorganize"
	"shelver/internal/services"
	"shelver/internal/taxonomy"
)

// Store abstracts the library operations the facade needs beyond the
// coordinator.
type Store interface {
	SetClassification(ctx context.Context, id int64, category, subGenre string) (*library.Ebook, error)
	Stats(ctx context.Context, scope string) (library.Stats, error)
}

// Service exposes the classification and reorganization operations with
// validated inputs.
type Service struct {
	cfg         *config.Config
	tax         *taxonomy.Taxonomy
	store       Store
	coordinator *batch.Coordinator
	validator   *inputValidator
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records library gauges after mutating operations and exports
// them to the configured textfile.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logging.NewComponentLogger(logger, "api")
		}
	}
}

// NewService wires the facade around a loaded taxonomy, the library store,
// and the batch coordinator.
func NewService(cfg *config.Config, tax *taxonomy.Taxonomy, store Store, coordinator *batch.Coordinator, opts ...Option) *Service {
	s := &Service{
		cfg:         cfg,
		tax:         tax,
		store:       store,
		coordinator: coordinator,
		validator:   newInputValidator(),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetTaxonomy returns the category to sub-genre tree.
func (s *Service) GetTaxonomy() map[string][]string {
	return s.tax.Tree()
}

// PreviewClassification classifies without persisting and groups the
// proposals into a category tree.
func (s *Service) PreviewClassification(ctx context.Context, in PreviewClassificationInput) (batch.Preview, error) {
	if err := s.validator.validate("preview classification", in); err != nil {
		return batch.Preview{}, err
	}
	ctx = services.WithRequestID(ctx, newRequestID())
	return s.coordinator.Preview(ctx, batch.ClassifyRequest{
		Scope: in.Scope,
		Limit: s.cfg.ClampLimit(in.Limit),
	})
}

// BatchClassify runs a classification batch. Every supplied override must be
// a valid placement; an invalid one rejects the request before any write.
func (s *Service) BatchClassify(ctx context.Context, in BatchClassifyInput, progress batch.ProgressFunc) (batch.ClassifyResult, error) {
	if err := s.validator.validate("batch classify", in); err != nil {
		return batch.ClassifyResult{}, err
	}
	ledger, err := s.ledgerFrom(in.Overrides)
	if err != nil {
		return batch.ClassifyResult{}, err
	}
	ctx = services.WithRequestID(ctx, newRequestID())
	result, err := s.coordinator.Classify(ctx, batch.ClassifyRequest{
		Scope:           in.Scope,
		Limit:           s.cfg.ClampLimit(in.Limit),
		ForceReclassify: in.ForceReclassify,
		EbookIDs:        in.EbookIDs,
		Overrides:       ledger,
	}, progress)
	if err != nil {
		return batch.ClassifyResult{}, err
	}
	s.refreshStats(ctx)
	return result, nil
}

// SetClassification stores a manual placement for one book. Invalid pairs
// fail with ErrInvalidTaxonomy and nothing is written.
func (s *Service) SetClassification(ctx context.Context, in SetClassificationInput) (Ebook, error) {
	if err := s.validator.validate("set classification", in); err != nil {
		return Ebook{}, err
	}
	placement := taxonomy.Placement{Category: in.Category, SubGenre: in.SubGenre}
	if err := s.tax.Validate(placement); err != nil {
		return Ebook{}, err
	}
	book, err := s.store.SetClassification(ctx, in.EbookID, placement.Category, placement.SubGenre)
	if err != nil {
		return Ebook{}, err
	}
	logging.WithContext(ctx, s.logger).Info("classification set",
		logging.Int64(logging.FieldEbookID, book.ID),
		logging.String("category", placement.Category),
		logging.String("sub_genre", placement.SubGenre),
	)
	s.refreshStats(ctx)
	return FromEbook(*book), nil
}

// PreviewReorganize builds the move plan without touching any file.
func (s *Service) PreviewReorganize(ctx context.Context, in ReorganizeInput) (reorganize.Plan, error) {
	req, err := s.reorganizeRequest("preview reorganize", in)
	if err != nil {
		return reorganize.Plan{}, err
	}
	return s.coordinator.PlanReorganize(ctx, req)
}

// ApplyReorganize plans and executes the reorganization.
func (s *Service) ApplyReorganize(ctx context.Context, in ReorganizeInput, progress batch.ProgressFunc) (reorganize.Result, error) {
	req, err := s.reorganizeRequest("apply reorganize", in)
	if err != nil {
		return reorganize.Result{}, err
	}
	ctx = services.WithRequestID(ctx, newRequestID())
	result, err := s.coordinator.ApplyReorganize(ctx, req, progress)
	s.refreshStats(ctx)
	return result, err
}

func (s *Service) ledgerFrom(inputs []OverrideInput) (*overrides.Ledger, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	ledger := overrides.NewLedger(s.tax)
	for _, in := range inputs {
		if err := ledger.Set(in.EbookID, taxonomy.Placement{Category: in.Category, SubGenre: in.SubGenre}); err != nil {
			return nil, err
		}
	}
	return ledger, nil
}

// reorganizeRequest fills configured defaults before validating.
func (s *Service) reorganizeRequest(operation string, in ReorganizeInput) (batch.ReorganizeRequest, error) {
	if strings.TrimSpace(in.Destination) == "" {
		in.Destination = s.cfg.Reorganize.Destination
	}
	if in.Operation == "" {
		in.Operation = s.cfg.Reorganize.Operation
	}
	if in.OnCollision == "" {
		in.OnCollision = s.cfg.Reorganize.OnCollision
	}
	if err := s.validator.validate(operation, in); err != nil {
		return batch.ReorganizeRequest{}, err
	}
	destination, err := config.ExpandPath(in.Destination)
	if err != nil {
		return batch.ReorganizeRequest{}, services.Wrap(services.ErrValidation, "api", operation, "resolve destination", err)
	}
	op, err := reorganize.ParseOperation(in.Operation)
	if err != nil {
		return batch.ReorganizeRequest{}, err
	}
	policy, err := reorganize.ParseCollisionPolicy(in.OnCollision)
	if err != nil {
		return batch.ReorganizeRequest{}, err
	}
	include := s.cfg.Reorganize.IncludeUnclassified
	if in.IncludeUnclassified != nil {
		include = *in.IncludeUnclassified
	}
	return batch.ReorganizeRequest{
		Destination:         destination,
		Scope:               in.Scope,
		IncludeUnclassified: include,
		Operation:           op,
		OnCollision:         policy,
	}, nil
}

// refreshStats updates the library gauges. Failures only log; the
// operation has already completed.
func (s *Service) refreshStats(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	stats, err := s.store.Stats(ctx, "")
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "library stats unavailable", "stats_refresh_failed",
			logging.String(logging.FieldImpact, "library gauges are stale"),
			logging.Error(err),
		)
		return
	}
	s.metrics.UpdateLibraryStats(stats.Total, stats.Classified)
	if err := s.metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, s.logger), "metrics export failed", "metrics_export_failed",
			logging.String(logging.FieldErrorHint, "check metrics.textfile permissions"),
			logging.Error(err),
		)
	}
}

func newRequestID() string {
	return uuid.NewString()
}
