package batch

import "time"

// Kind names the work a run performs.
type Kind string

const (
	KindClassify   Kind = "classify"
	KindReorganize Kind = "reorganize"
)

// State is a run's position in Idle -> Running -> Completed | Failed.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Run records one batch run. A run that finishes with per-item failures is
// still Completed; Failed means the run itself could not proceed.
type Run struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Scope      string    `json:"scope"`
	State      State     `json:"state"`
	Processed  int       `json:"processed"`
	Total      int       `json:"total"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Error      string    `json:"error,omitempty"`
}

// Duration returns how long the run took, or has taken so far.
func (r Run) Duration(now time.Time) time.Duration {
	if r.StartedAt.IsZero() {
		return 0
	}
	if !r.FinishedAt.IsZero() {
		return r.FinishedAt.Sub(r.StartedAt)
	}
	return now.Sub(r.StartedAt)
}

// Progress is reported after each unit of work.
type Progress struct {
	RunID     string `json:"run_id"`
	Kind      Kind   `json:"kind"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	EbookID   int64  `json:"ebook_id"`
	Path      string `json:"path"`
}

// ProgressFunc receives progress updates. It is called synchronously from
// the run's goroutine and should return quickly.
type ProgressFunc func(Progress)
