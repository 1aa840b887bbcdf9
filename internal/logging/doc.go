// Package logging assembles structured slog loggers and formatting helpers used
// across shelver.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so batch code automatically tags log lines
// with run IDs, ebook IDs, and stages. Console output is coloured only when it
// lands on a terminal. The package also provides a no-op logger for tests.
package logging
