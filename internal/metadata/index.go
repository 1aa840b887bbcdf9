package metadata

import (
	"context"
	"log/slog"

	"shelver/internal/logging"
)

// Source resolves stored metadata for an indexed path.
type Source interface {
	MetadataForPath(ctx context.Context, path string) (*Raw, error)
}

// IndexReader serves metadata persisted by library sync.
type IndexReader struct {
	source Source
	logger *slog.Logger
}

// NewIndexReader wraps a metadata source.
func NewIndexReader(source Source, logger *slog.Logger) *IndexReader {
	return &IndexReader{source: source, logger: logging.NewComponentLogger(logger, "metadata")}
}

// Read returns the stored metadata for path, or nil when none is recorded or
// the lookup fails.
func (r *IndexReader) Read(ctx context.Context, path string) *Raw {
	if r == nil || r.source == nil {
		return nil
	}
	raw, err := r.source.MetadataForPath(ctx, path)
	if err != nil {
		r.logger.Debug("stored metadata unavailable",
			logging.String("path", path),
			logging.Error(err),
		)
		return nil
	}
	if raw.IsEmpty() {
		return nil
	}
	return raw
}
