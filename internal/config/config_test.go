package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"shelver/internal/config"
)

func TestLoadDefaultConfigDerivesPathsFromDataDir(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SHELVER_OPENLIBRARY_URL", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "shelver")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LibraryDB != filepath.Join(wantData, "library.db") {
		t.Fatalf("unexpected library db: %q", cfg.Paths.LibraryDB)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.LockDir != filepath.Join(wantData, "locks") {
		t.Fatalf("unexpected lock dir: %q", cfg.Paths.LockDir)
	}
	if cfg.OpenLibrary.CacheDir != filepath.Join(wantData, "cache", "openlibrary") {
		t.Fatalf("unexpected cache dir: %q", cfg.OpenLibrary.CacheDir)
	}
	if cfg.OpenLibrary.BaseURL != "https://openlibrary.org" {
		t.Fatalf("unexpected base url: %q", cfg.OpenLibrary.BaseURL)
	}
	if cfg.Reorganize.Operation != "move" {
		t.Fatalf("expected move operation by default, got %q", cfg.Reorganize.Operation)
	}
	if !cfg.Reorganize.VerifyCopies {
		t.Fatal("expected verified copies by default")
	}
	if cfg.EnrichmentTimeout() != 10*time.Second {
		t.Fatalf("unexpected enrichment timeout: %s", cfg.EnrichmentTimeout())
	}
	if cfg.OpenLibraryInterval() != 100*time.Millisecond {
		t.Fatalf("unexpected open library interval: %s", cfg.OpenLibraryInterval())
	}
}

func TestLoadCustomPathAppliesOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SHELVER_OPENLIBRARY_URL", "")

	path := filepath.Join(t.TempDir(), "shelver.toml")
	content := strings.Join([]string{
		"[paths]",
		"data_dir = \"~/books-data\"",
		"library_db = \"~/index/books.db\"",
		"",
		"[classification]",
		"default_limit = 25",
		"max_limit = 50",
		"",
		"[reorganize]",
		"operation = \"COPY\"",
		"on_collision = \"Rename\"",
		"",
		"[logging]",
		"format = \"JSON\"",
		"level = \"debug\"",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "books-data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.LibraryDB != filepath.Join(tempHome, "index", "books.db") {
		t.Fatalf("unexpected library db: %q", cfg.Paths.LibraryDB)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "books-data", "logs") {
		t.Fatalf("log dir should derive from data dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Reorganize.Operation != "copy" || cfg.Reorganize.OnCollision != "rename" {
		t.Fatalf("expected lowercased reorganize settings, got %+v", cfg.Reorganize)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json format, got %q", cfg.Logging.Format)
	}
	if got := cfg.ClampLimit(0); got != 25 {
		t.Fatalf("ClampLimit(0) = %d, want 25", got)
	}
	if got := cfg.ClampLimit(1000); got != 50 {
		t.Fatalf("ClampLimit(1000) = %d, want 50", got)
	}
	if got := cfg.ClampLimit(10); got != 10 {
		t.Fatalf("ClampLimit(10) = %d, want 10", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "shelver.toml")
	if err := os.WriteFile(path, []byte("[paths]\nstaging_dir = \"/tmp\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key error")
	}
}

func TestEnvOverridesOpenLibraryURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHELVER_OPENLIBRARY_URL", "http://127.0.0.1:9999/")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.OpenLibrary.BaseURL != "http://127.0.0.1:9999" {
		t.Fatalf("expected env base url without trailing slash, got %q", cfg.OpenLibrary.BaseURL)
	}
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"operation", func(c *config.Config) { c.Reorganize.Operation = "link" }, "reorganize.operation"},
		{"collision", func(c *config.Config) { c.Reorganize.OnCollision = "merge" }, "reorganize.on_collision"},
		{"limit", func(c *config.Config) { c.Classification.DefaultLimit = 0 }, "classification.default_limit"},
		{"max limit", func(c *config.Config) { c.Classification.MaxLimit = 10 }, "classification.max_limit"},
		{"similarity", func(c *config.Config) { c.OpenLibrary.MinTitleSimilarity = 1.5 }, "openlibrary.min_title_similarity"},
		{"base url", func(c *config.Config) { c.OpenLibrary.BaseURL = "openlibrary.org" }, "openlibrary.base_url"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateSkipsOpenLibraryWhenEnrichmentDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Classification.Enrichment = false
	cfg.OpenLibrary.BaseURL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestSampleConfigParsesAndValidates(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
}
