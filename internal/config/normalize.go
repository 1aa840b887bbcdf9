package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOpenLibrary()
	if err := c.normalizeReorganize(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Metrics.Textfile = strings.TrimSpace(c.Metrics.Textfile)
	if c.Metrics.Textfile != "" {
		var err error
		if c.Metrics.Textfile, err = expandPath(c.Metrics.Textfile); err != nil {
			return fmt.Errorf("metrics.textfile: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SHELVER_DATA_DIR"); ok && strings.TrimSpace(value) != "" && c.Paths.DataDir == defaultDataDir {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	derived := []struct {
		key   string
		value *string
		def   string
	}{
		{"paths.library_db", &c.Paths.LibraryDB, defaultLibraryDBName},
		{"paths.log_dir", &c.Paths.LogDir, defaultLogDirName},
		{"paths.lock_dir", &c.Paths.LockDir, defaultLockDirName},
		{"openlibrary.cache_dir", &c.OpenLibrary.CacheDir, defaultCacheDirName},
	}
	for _, entry := range derived {
		if strings.TrimSpace(*entry.value) == "" {
			*entry.value = filepath.Join(c.Paths.DataDir, entry.def)
		}
		if *entry.value, err = expandPath(strings.TrimSpace(*entry.value)); err != nil {
			return fmt.Errorf("%s: %w", entry.key, err)
		}
	}

	if strings.TrimSpace(c.Paths.TaxonomyFile) != "" {
		if c.Paths.TaxonomyFile, err = expandPath(strings.TrimSpace(c.Paths.TaxonomyFile)); err != nil {
			return fmt.Errorf("paths.taxonomy_file: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeOpenLibrary() {
	if value, ok := os.LookupEnv("SHELVER_OPENLIBRARY_URL"); ok && strings.TrimSpace(value) != "" {
		c.OpenLibrary.BaseURL = value
	}
	c.OpenLibrary.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenLibrary.BaseURL), "/")
	if c.OpenLibrary.BaseURL == "" {
		c.OpenLibrary.BaseURL = defaultOpenLibraryBaseURL
	}
	c.OpenLibrary.UserAgent = strings.TrimSpace(c.OpenLibrary.UserAgent)
	if c.OpenLibrary.UserAgent == "" {
		c.OpenLibrary.UserAgent = defaultOpenLibraryUserAgent
	}
}

func (c *Config) normalizeReorganize() error {
	c.Reorganize.Operation = strings.ToLower(strings.TrimSpace(c.Reorganize.Operation))
	if c.Reorganize.Operation == "" {
		c.Reorganize.Operation = defaultReorganizeOperation
	}
	c.Reorganize.OnCollision = strings.ToLower(strings.TrimSpace(c.Reorganize.OnCollision))
	if strings.TrimSpace(c.Reorganize.Destination) != "" {
		var err error
		if c.Reorganize.Destination, err = expandPath(strings.TrimSpace(c.Reorganize.Destination)); err != nil {
			return fmt.Errorf("reorganize.destination: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
