package reorganize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"shelver/internal/fileutil"
	"shelver/internal/library"
	"shelver/internal/logging"
	"shelver/internal/metrics"
	"shelver/internal/services"
	"shelver/internal/textutil"
)

// CollisionPolicy is the caller's decision for targets that collide within
// the plan or already exist on disk.
type CollisionPolicy string

const (
	// CollisionUnset refuses plans with collisions and fails files whose
	// target already exists.
	CollisionUnset     CollisionPolicy = ""
	CollisionSkip      CollisionPolicy = "skip"
	CollisionOverwrite CollisionPolicy = "overwrite"
	// CollisionRename appends " (n)" before the extension.
	CollisionRename CollisionPolicy = "rename"
)

// ParseCollisionPolicy validates a policy name.
func ParseCollisionPolicy(value string) (CollisionPolicy, error) {
	switch policy := CollisionPolicy(strings.ToLower(strings.TrimSpace(value))); policy {
	case CollisionUnset, CollisionSkip, CollisionOverwrite, CollisionRename:
		return policy, nil
	default:
		return "", services.Wrap(services.ErrValidation, "reorganize", "parse collision policy",
			fmt.Sprintf("on_collision must be skip, overwrite, or rename, got %q", value), nil)
	}
}

// PathStore resolves indexed paths and records new source paths after
// successful moves. GetByPath returns nil when no book is indexed at path.
type PathStore interface {
	GetByPath(ctx context.Context, path string) (*library.Ebook, error)
	UpdatePath(ctx context.Context, id int64, newPath string) error
}

// Result summarizes an apply run. TotalProcessed counts files that were
// attempted, i.e. Succeeded plus Failed.
type Result struct {
	TotalProcessed int               `json:"total_processed"`
	Succeeded      int               `json:"succeeded"`
	Skipped        int               `json:"skipped"`
	Failed         int               `json:"failed"`
	PathMappings   map[string]string `json:"path_mappings"`
	Errors         []string          `json:"errors"`
}

// ProgressFunc is called after each planned move is handled.
type ProgressFunc func(done, total int, move PlannedMove)

// Executor applies plans one file at a time. It is best-effort: a failed
// file is recorded and the run continues, and files already relocated stay
// where they are.
type Executor struct {
	store   PathStore
	policy  CollisionPolicy
	verify  bool
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithCollisionPolicy sets the apply-time collision decision.
func WithCollisionPolicy(policy CollisionPolicy) ExecutorOption {
	return func(e *Executor) { e.policy = policy }
}

// WithVerifiedCopies checksums copies, including cross-device move fallbacks.
func WithVerifiedCopies(verify bool) ExecutorOption {
	return func(e *Executor) { e.verify = verify }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logging.NewComponentLogger(logger, "reorganize") }
}

// WithMetrics records per-file outcomes.
func WithMetrics(m *metrics.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// NewExecutor creates an executor that updates paths in store.
func NewExecutor(store PathStore, opts ...ExecutorOption) *Executor {
	e := &Executor{
		store:  store,
		verify: true,
		logger: logging.NewComponentLogger(nil, "reorganize"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Apply performs the plan's moves in order. The only error it returns is
// ErrCollisionUnresolved, raised before any file is touched when the plan
// has collisions and no policy was chosen; per-file problems are reported
// in the Result.
func (e *Executor) Apply(ctx context.Context, plan Plan, progress ProgressFunc) (Result, error) {
	result := Result{PathMappings: make(map[string]string), Errors: []string{}}
	if plan.Collisions > 0 && e.policy == CollisionUnset {
		return result, services.Wrap(services.ErrCollisionUnresolved, "reorganize", "apply",
			fmt.Sprintf("%d planned moves collide; choose skip, overwrite, or rename", plan.Collisions), nil)
	}
	logger := logging.WithContext(ctx, e.logger)
	op := plan.Operation
	if op == "" {
		op = OperationMove
	}

	for i, move := range plan.Moves {
		outcome, target, err := e.applyOne(ctx, op, move)
		switch outcome {
		case outcomeSucceeded:
			result.Succeeded++
			result.PathMappings[move.SourcePath] = target
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", move.Title, err))
			logging.WarnWithContext(logger, "file relocation failed", "reorganize_file_failed",
				logging.Int64(logging.FieldEbookID, move.EbookID),
				logging.String("source_path", move.SourcePath),
				logging.String("target_path", move.TargetPath),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the source file and destination permissions"),
				logging.String(logging.FieldImpact, "file left in place; index unchanged"),
			)
		}
		e.metrics.RecordFile(string(op), string(outcome))
		if progress != nil {
			progress(i+1, len(plan.Moves), move)
		}
	}
	result.TotalProcessed = result.Succeeded + result.Failed

	logger.Info("reorganization applied",
		logging.String("operation", string(op)),
		logging.String("destination", plan.Destination),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("skipped", result.Skipped),
		logging.Int("failed", result.Failed),
		logging.String("collision_policy", textutil.Ternary(e.policy == CollisionUnset, "unset", string(e.policy))),
	)
	return result, nil
}

type outcome string

const (
	outcomeSucceeded outcome = "succeeded"
	outcomeSkipped   outcome = "skipped"
	outcomeFailed    outcome = "failed"
)

func (e *Executor) applyOne(ctx context.Context, op Operation, move PlannedMove) (outcome, string, error) {
	if move.HasCollision && e.policy == CollisionSkip {
		return outcomeSkipped, "", nil
	}

	info, err := os.Stat(move.SourcePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return outcomeFailed, "", fmt.Errorf("source not found: %s", move.SourcePath)
		}
		return outcomeFailed, "", err
	}
	if !info.Mode().IsRegular() {
		return outcomeFailed, "", fmt.Errorf("source is not a regular file: %s", move.SourcePath)
	}

	target := move.TargetPath
	if filepath.Clean(target) == filepath.Clean(move.SourcePath) {
		return outcomeSkipped, "", nil
	}

	exists, err := fileutil.Exists(target)
	if err != nil {
		return outcomeFailed, "", err
	}
	if exists {
		switch e.policy {
		case CollisionUnset:
			return outcomeFailed, "", fmt.Errorf("target already exists: %s", target)
		case CollisionSkip:
			return outcomeSkipped, "", nil
		case CollisionRename:
			target, err = fileutil.AvailableName(target, fileutil.Exists)
			if err != nil {
				return outcomeFailed, "", err
			}
		case CollisionOverwrite:
			// Rename and the atomic copy both replace the existing file, so
			// it must not belong to another indexed book.
			if err := e.checkReplaceable(ctx, move, target); err != nil {
				return outcomeFailed, "", err
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return outcomeFailed, "", fmt.Errorf("create target directory: %w", err)
	}

	if op == OperationCopy {
		copyFn := fileutil.CopyFile
		if e.verify {
			copyFn = fileutil.CopyFileVerified
		}
		if err := copyFn(move.SourcePath, target); err != nil {
			return outcomeFailed, "", fmt.Errorf("copy: %w", err)
		}
		return outcomeSucceeded, target, nil
	}

	if err := fileutil.MoveFile(move.SourcePath, target, e.verify); err != nil {
		return outcomeFailed, "", fmt.Errorf("move: %w", err)
	}
	if e.store == nil {
		return outcomeSucceeded, target, nil
	}
	if err := e.store.UpdatePath(ctx, move.EbookID, target); err != nil {
		// Put the file back so the index still describes the filesystem.
		if restoreErr := fileutil.MoveFile(target, move.SourcePath, e.verify); restoreErr != nil {
			return outcomeFailed, "", fmt.Errorf("update index: %w (restore failed, file is at %s: %v)", err, target, restoreErr)
		}
		return outcomeFailed, "", fmt.Errorf("update index: %w", err)
	}
	return outcomeSucceeded, target, nil
}

// checkReplaceable refuses to overwrite a file the index still points at.
func (e *Executor) checkReplaceable(ctx context.Context, move PlannedMove, target string) error {
	if e.store == nil {
		return nil
	}
	owner, err := e.store.GetByPath(ctx, target)
	if err != nil {
		return fmt.Errorf("check target owner: %w", err)
	}
	if owner != nil && owner.ID != move.EbookID {
		return fmt.Errorf("target is indexed as ebook %d, refusing to overwrite: %s", owner.ID, target)
	}
	return nil
}
