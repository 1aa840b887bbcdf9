// Package batch drives classification and reorganization over many books.
//
// A Coordinator admits one run per library scope: a run whose source-path
// scope overlaps an active run is rejected with ErrBatchAlreadyRunning
// rather than queued, and an advisory lock file keeps a second shelver
// process out while any run is active. Runs move Idle -> Running ->
// Completed or Failed, process books in the order the store returns them,
// and report progress after each book or file. There is no mid-run
// cancellation.
//
// Preview and PlanReorganize use the same selection and logic as their
// committing counterparts but never write, so they run without a lock.
package batch
