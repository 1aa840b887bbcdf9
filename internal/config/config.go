package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains on-disk locations for the library index, logs, and locks.
type Paths struct {
	DataDir      string `toml:"data_dir"`
	LibraryDB    string `toml:"library_db"`
	LogDir       string `toml:"log_dir"`
	LockDir      string `toml:"lock_dir"`
	TaxonomyFile string `toml:"taxonomy_file"`
}

// Classification controls batch sizing and the enrichment strategy.
type Classification struct {
	DefaultLimit             int  `toml:"default_limit"`
	MaxLimit                 int  `toml:"max_limit"`
	Enrichment               bool `toml:"enrichment"`
	EnrichmentTimeoutSeconds int  `toml:"enrichment_timeout_seconds"`
}

// OpenLibrary contains configuration for the Open Library search API.
type OpenLibrary struct {
	BaseURL            string  `toml:"base_url"`
	UserAgent          string  `toml:"user_agent"`
	TimeoutSeconds     int     `toml:"timeout_seconds"`
	RateLimitMillis    int     `toml:"rate_limit_ms"`
	CacheDir           string  `toml:"cache_dir"`
	MinTitleSimilarity float64 `toml:"min_title_similarity"`
}

// Reorganize holds defaults for planning and applying file moves.
type Reorganize struct {
	Destination         string `toml:"destination"`
	Operation           string `toml:"operation"`
	IncludeUnclassified bool   `toml:"include_unclassified"`
	VerifyCopies        bool   `toml:"verify_copies"`
	OnCollision         string `toml:"on_collision"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics contains configuration for Prometheus metric export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for shelver.
//
// Configuration sections by subsystem:
//   - Paths: library index, logs, locks, optional taxonomy file
//   - Classification: batch limits and enrichment toggle/timeout
//   - OpenLibrary: enrichment endpoint, rate limit, and cache
//   - Reorganize: default destination, operation, and collision decision
//   - Logging: log format and level
//   - Metrics: Prometheus textfile export
type Config struct {
	Paths          Paths          `toml:"paths"`
	Classification Classification `toml:"classification"`
	OpenLibrary    OpenLibrary    `toml:"openlibrary"`
	Reorganize     Reorganize     `toml:"reorganize"`
	Logging        Logging        `toml:"logging"`
	Metrics        Metrics        `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("shelver.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, log, and lock directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.LockDir, filepath.Dir(c.Paths.LibraryDB)}
	if strings.TrimSpace(c.OpenLibrary.CacheDir) != "" {
		dirs = append(dirs, c.OpenLibrary.CacheDir)
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// EnrichmentTimeout returns the per-book bound on the enrichment strategy.
func (c *Config) EnrichmentTimeout() time.Duration {
	return time.Duration(c.Classification.EnrichmentTimeoutSeconds) * time.Second
}

// OpenLibraryTimeout returns the HTTP timeout for Open Library requests.
func (c *Config) OpenLibraryTimeout() time.Duration {
	return time.Duration(c.OpenLibrary.TimeoutSeconds) * time.Second
}

// OpenLibraryInterval returns the minimum spacing between Open Library
// requests. Zero disables rate limiting.
func (c *Config) OpenLibraryInterval() time.Duration {
	return time.Duration(c.OpenLibrary.RateLimitMillis) * time.Millisecond
}

// ClampLimit applies the configured default and maximum batch sizes.
func (c *Config) ClampLimit(limit int) int {
	if limit <= 0 {
		limit = c.Classification.DefaultLimit
	}
	if c.Classification.MaxLimit > 0 && limit > c.Classification.MaxLimit {
		limit = c.Classification.MaxLimit
	}
	return limit
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
