package batch

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelver/internal/classifier"
	"shelver/internal/library"
	"shelver/internal/logging"
	"shelver/internal/metrics"
	"shelver/internal/reorganize"
	"shelver/internal/services"
)

// historyLimit bounds the finished runs kept for inspection.
const historyLimit = 20

// Store is the library surface the coordinator drives.
type Store interface {
	List(ctx context.Context, scope string) ([]library.Ebook, error)
	ListByIDs(ctx context.Context, ids []int64) ([]library.Ebook, error)
	ListUnclassified(ctx context.Context, scope string, limit int) ([]library.Ebook, error)
	CountUnclassified(ctx context.Context, scope string) (int, error)
	Get(ctx context.Context, id int64) (*library.Ebook, error)
	GetByPath(ctx context.Context, path string) (*library.Ebook, error)
	SetClassification(ctx context.Context, id int64, category, subGenre string) (*library.Ebook, error)
	UpdatePath(ctx context.Context, id int64, newPath string) error
}

// Coordinator runs classification and reorganization batches against the
// library. Runs are sequential internally; the coordinator only guards
// against two runs touching the same scope at once.
type Coordinator struct {
	store      Store
	classifier *classifier.Classifier
	locks      *scopeLock
	baseLogger *slog.Logger
	logger     *slog.Logger
	metrics    *metrics.Metrics
	verify     bool
	now        func() time.Time

	mu      sync.Mutex
	active  map[string]*Run
	history []Run
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLockDir enables the cross-process library lock in dir.
func WithLockDir(dir string) Option {
	return func(c *Coordinator) {
		c.locks = newScopeLock(dir)
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.baseLogger = logger
		c.logger = logging.NewComponentLogger(logger, "batch")
	}
}

// WithMetrics records run and item outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithVerifiedCopies selects checksummed copies during reorganization.
func WithVerifiedCopies(verify bool) Option {
	return func(c *Coordinator) {
		c.verify = verify
	}
}

// New creates a coordinator over store using cls for placements.
func New(store Store, cls *classifier.Classifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      store,
		classifier: cls,
		locks:      newScopeLock(""),
		logger:     logging.NewComponentLogger(nil, "batch"),
		verify:     true,
		now:        time.Now,
		active:     make(map[string]*Run),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Active returns snapshots of the runs in progress.
func (c *Coordinator) Active() []Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	runs := make([]Run, 0, len(c.active))
	for _, run := range c.active {
		runs = append(runs, *run)
	}
	slices.SortFunc(runs, func(a, b Run) int { return a.StartedAt.Compare(b.StartedAt) })
	return runs
}

// History returns recently finished runs, newest first.
func (c *Coordinator) History() []Run {
	c.mu.Lock()
	defer c.mu.Unlock()
	runs := slices.Clone(c.history)
	slices.Reverse(runs)
	return runs
}

// IsActive reports whether any run is in progress.
func (c *Coordinator) IsActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.active) > 0
}

// begin moves a new run from Idle to Running, or rejects it with
// ErrBatchAlreadyRunning.
func (c *Coordinator) begin(ctx context.Context, kind Kind, scope string) (context.Context, *Run, error) {
	run := &Run{
		ID:    uuid.NewString(),
		Kind:  kind,
		Scope: library.NormalizeScope(scope),
		State: StateIdle,
	}
	if err := c.locks.acquire(run.ID, run.Scope); err != nil {
		logging.WarnWithContext(c.logger, "batch run rejected", "batch_rejected",
			logging.String("kind", string(kind)),
			logging.String("scope", describeScope(run.Scope)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "wait for the active run to finish"),
			logging.String(logging.FieldImpact, "no books were processed"),
		)
		return ctx, nil, err
	}

	run.State = StateRunning
	run.StartedAt = c.now().UTC()
	c.mu.Lock()
	c.active[run.ID] = run
	c.mu.Unlock()

	ctx = services.WithRunID(ctx, run.ID)
	ctx = services.WithStage(ctx, string(kind))
	logging.WithContext(ctx, c.logger).Info("batch run started",
		logging.String(logging.FieldEventType, "batch_start"),
		logging.String("scope", describeScope(run.Scope)),
	)
	return ctx, run, nil
}

func (c *Coordinator) setTotal(run *Run, total int) {
	c.mu.Lock()
	run.Total = total
	c.mu.Unlock()
}

func (c *Coordinator) advance(run *Run, ebookID int64, path string, progress ProgressFunc) {
	c.mu.Lock()
	run.Processed++
	update := Progress{
		RunID:     run.ID,
		Kind:      run.Kind,
		Processed: run.Processed,
		Total:     run.Total,
		EbookID:   ebookID,
		Path:      path,
	}
	c.mu.Unlock()
	if progress != nil {
		progress(update)
	}
}

// finish moves the run to its terminal state and releases its scope.
func (c *Coordinator) finish(ctx context.Context, run *Run, runErr error) Run {
	c.mu.Lock()
	run.FinishedAt = c.now().UTC()
	if runErr != nil {
		run.State = StateFailed
		run.Error = runErr.Error()
	} else {
		run.State = StateCompleted
	}
	delete(c.active, run.ID)
	c.history = append(c.history, *run)
	if len(c.history) > historyLimit {
		c.history = slices.Delete(c.history, 0, len(c.history)-historyLimit)
	}
	snapshot := *run
	c.mu.Unlock()

	logger := logging.WithContext(ctx, c.logger)
	if err := c.locks.release(run.ID); err != nil {
		logging.WarnWithContext(logger, "library lock release failed", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "later runs from other processes may be rejected until this process exits"),
		)
	}
	duration := snapshot.Duration(snapshot.FinishedAt)
	c.metrics.RecordRun(string(snapshot.Kind), string(snapshot.State), duration)
	if runErr != nil {
		logging.ErrorWithContext(logger, "batch run failed", "batch_failed",
			logging.Error(runErr),
			logging.Duration("duration", duration),
		)
	} else {
		logger.Info("batch run completed",
			logging.String(logging.FieldEventType, "batch_complete"),
			logging.Int("processed", snapshot.Processed),
			logging.Int("total", snapshot.Total),
			logging.Duration("duration", duration),
		)
	}
	return snapshot
}

func (c *Coordinator) executor(policy reorganize.CollisionPolicy) *reorganize.Executor {
	return reorganize.NewExecutor(c.store,
		reorganize.WithCollisionPolicy(policy),
		reorganize.WithVerifiedCopies(c.verify),
		reorganize.WithLogger(c.baseLogger),
		reorganize.WithMetrics(c.metrics),
	)
}
