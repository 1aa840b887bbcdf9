// Package metrics provides Prometheus metrics for shelver runs.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for one process. Each instance owns its
// registry so tests and commands never share global state. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec
	LookupsTotal         *prometheus.CounterVec

	// Batch metrics
	BatchRunsTotal    *prometheus.CounterVec
	BatchRunDuration  *prometheus.HistogramVec
	BatchItemsTotal   *prometheus.CounterVec
	ReorganizeFiles   *prometheus.CounterVec
	LibraryBooks      prometheus.Gauge
	LibraryClassified prometheus.Gauge
}

// New creates and registers all shelver metrics on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	m := &Metrics{registry: registry}

	m.ClassificationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelver_classifications_total",
			Help: "Total number of classify calls by winning strategy",
		},
		[]string{"strategy"},
	)

	m.LookupsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelver_enrichment_lookups_total",
			Help: "Total number of enrichment lookups by outcome",
		},
		[]string{"outcome"},
	)

	m.BatchRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelver_batch_runs_total",
			Help: "Total number of batch runs by kind and final state",
		},
		[]string{"kind", "state"},
	)

	m.BatchRunDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shelver_batch_run_duration_seconds",
			Help:    "Duration of batch runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	m.BatchItemsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelver_batch_items_total",
			Help: "Total number of books handled by batch classification by result",
		},
		[]string{"result"},
	)

	m.ReorganizeFiles = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelver_reorganize_files_total",
			Help: "Total number of reorganized files by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	m.LibraryBooks = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelver_library_books",
			Help: "Number of indexed books at the last stats refresh",
		},
	)

	m.LibraryClassified = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "shelver_library_classified_books",
			Help: "Number of classified books at the last stats refresh",
		},
	)

	return m
}

// Registry exposes the underlying registry for scraping or inspection.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordClassification counts one classify result.
func (m *Metrics) RecordClassification(strategy string) {
	if m == nil {
		return
	}
	m.ClassificationsTotal.WithLabelValues(strategy).Inc()
}

// RecordLookup counts one enrichment lookup outcome (found, empty, timeout).
func (m *Metrics) RecordLookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

// RecordBatchItem counts one book processed by batch classification.
func (m *Metrics) RecordBatchItem(result string) {
	if m == nil {
		return
	}
	m.BatchItemsTotal.WithLabelValues(result).Inc()
}

// RecordRun records a finished batch run.
func (m *Metrics) RecordRun(kind, state string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BatchRunsTotal.WithLabelValues(kind, state).Inc()
	m.BatchRunDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordFile records one reorganization file outcome (ok, failed, skipped).
func (m *Metrics) RecordFile(operation, outcome string) {
	if m == nil {
		return
	}
	m.ReorganizeFiles.WithLabelValues(operation, outcome).Inc()
}

// UpdateLibraryStats refreshes the library gauges.
func (m *Metrics) UpdateLibraryStats(total, classified int) {
	if m == nil {
		return
	}
	m.LibraryBooks.Set(float64(total))
	m.LibraryClassified.Set(float64(classified))
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
