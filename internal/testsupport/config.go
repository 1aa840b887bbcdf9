package testsupport

import (
	"path/filepath"
	"testing"

	"shelver/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Enrichment is disabled and the lookup cache stays in memory so tests never
// reach the network or share state.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LibraryDB = filepath.Join(base, "data", "library.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "data", "logs")
	cfgVal.Paths.LockDir = filepath.Join(base, "data", "locks")
	cfgVal.OpenLibrary.CacheDir = ""
	cfgVal.Classification.Enrichment = false
	cfgVal.Reorganize.Destination = filepath.Join(base, "organized")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOpenLibraryURL enables enrichment against the given endpoint, usually
// an httptest server.
func WithOpenLibraryURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classification.Enrichment = true
		b.cfg.OpenLibrary.BaseURL = url
		b.cfg.OpenLibrary.RateLimitMillis = 0
	}
}

// WithOnCollision sets the apply-time collision decision.
func WithOnCollision(decision string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Reorganize.OnCollision = decision
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
