package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateClassification(); err != nil {
		return err
	}
	if err := c.validateOpenLibrary(); err != nil {
		return err
	}
	if err := c.validateReorganize(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateClassification() error {
	if c.Classification.DefaultLimit <= 0 {
		return errors.New("classification.default_limit must be positive")
	}
	if c.Classification.MaxLimit < c.Classification.DefaultLimit {
		return errors.New("classification.max_limit must be at least classification.default_limit")
	}
	if c.Classification.Enrichment && c.Classification.EnrichmentTimeoutSeconds <= 0 {
		return errors.New("classification.enrichment_timeout_seconds must be positive when enrichment is enabled")
	}
	return nil
}

func (c *Config) validateOpenLibrary() error {
	if !c.Classification.Enrichment {
		return nil
	}
	if !strings.HasPrefix(c.OpenLibrary.BaseURL, "http://") && !strings.HasPrefix(c.OpenLibrary.BaseURL, "https://") {
		return fmt.Errorf("openlibrary.base_url must be an http(s) URL, got %q", c.OpenLibrary.BaseURL)
	}
	if c.OpenLibrary.TimeoutSeconds <= 0 {
		return errors.New("openlibrary.timeout_seconds must be positive")
	}
	if c.OpenLibrary.RateLimitMillis < 0 {
		return errors.New("openlibrary.rate_limit_ms must be zero or positive")
	}
	if c.OpenLibrary.MinTitleSimilarity < 0 || c.OpenLibrary.MinTitleSimilarity > 1 {
		return errors.New("openlibrary.min_title_similarity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateReorganize() error {
	switch c.Reorganize.Operation {
	case "move", "copy":
	default:
		return fmt.Errorf("reorganize.operation must be move or copy, got %q", c.Reorganize.Operation)
	}
	switch c.Reorganize.OnCollision {
	case "", "skip", "overwrite", "rename":
	default:
		return fmt.Errorf("reorganize.on_collision must be skip, overwrite, or rename, got %q", c.Reorganize.OnCollision)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
