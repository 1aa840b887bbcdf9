package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"shelver/internal/library"
	"shelver/internal/services"
)

const lockFileName = "library.lock"

// scopeLock admits one run per library scope. Inside the process, runs on
// overlapping scopes are rejected; across processes, an advisory file lock
// is held while any run is active, so a second shelver process is rejected
// outright.
type scopeLock struct {
	mu     sync.Mutex
	path   string
	file   *flock.Flock
	active map[string]string // run ID -> scope
}

func newScopeLock(lockDir string) *scopeLock {
	l := &scopeLock{active: make(map[string]string)}
	if lockDir != "" {
		l.path = filepath.Join(lockDir, lockFileName)
		l.file = flock.New(l.path)
	}
	return l
}

func (l *scopeLock) acquire(runID, scope string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for otherID, otherScope := range l.active {
		if library.ScopesOverlap(scope, otherScope) {
			return services.Wrap(services.ErrBatchAlreadyRunning, "batch", "acquire",
				fmt.Sprintf("run %s is active on scope %s", otherID, describeScope(otherScope)), nil)
		}
	}

	if len(l.active) == 0 && l.file != nil {
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return fmt.Errorf("create lock directory: %w", err)
		}
		ok, err := l.file.TryLock()
		if err != nil {
			return fmt.Errorf("acquire library lock: %w", err)
		}
		if !ok {
			return services.Wrap(services.ErrBatchAlreadyRunning, "batch", "acquire",
				fmt.Sprintf("another shelver process holds %s", l.path), nil)
		}
	}
	l.active[runID] = scope
	return nil
}

func (l *scopeLock) release(runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.active[runID]; !ok {
		return nil
	}
	delete(l.active, runID)
	if len(l.active) == 0 && l.file != nil {
		return l.file.Unlock()
	}
	return nil
}

func describeScope(scope string) string {
	if scope == "" {
		return "(entire library)"
	}
	return scope
}
