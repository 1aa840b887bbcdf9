package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"shelver/internal/api"
	"shelver/internal/batch"
	"shelver/internal/classifier"
	"shelver/internal/config"
	"shelver/internal/library"
	"shelver/internal/logging"
	"shelver/internal/metadata"
	"shelver/internal/metrics"
	"shelver/internal/openlibrary"
	"shelver/internal/taxonomy"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) taxonomy() (*taxonomy.Taxonomy, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return taxonomy.Load(cfg.Paths.TaxonomyFile)
}

// app holds the collaborators a command needs for one invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	tax     *taxonomy.Taxonomy
	store   *library.Store
	cache   *openlibrary.Cache
	service *api.Service
}

func (a *app) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

func (c *commandContext) withApp(fn func(*app) error) (err error) {
	a, err := c.openApp()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(a)
}

func (c *commandContext) openApp() (*app, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	tax, err := taxonomy.Load(cfg.Paths.TaxonomyFile)
	if err != nil {
		return nil, err
	}
	store, err := library.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	a := &app{cfg: cfg, logger: logger, tax: tax, store: store}

	m := metrics.New()
	clsOpts := []classifier.Option{
		classifier.WithReader(metadata.NewIndexReader(store, logger)),
		classifier.WithLogger(logger),
		classifier.WithMetrics(m),
	}
	if cfg.Classification.Enrichment {
		enricher, cache, err := newEnricher(cfg, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.cache = cache
		clsOpts = append(clsOpts, classifier.WithEnricher(enricher, cfg.EnrichmentTimeout()))
	}

	coordinator := batch.New(store, classifier.New(tax, clsOpts...),
		batch.WithLockDir(cfg.Paths.LockDir),
		batch.WithLogger(logger),
		batch.WithMetrics(m),
		batch.WithVerifiedCopies(cfg.Reorganize.VerifyCopies),
	)
	a.service = api.NewService(cfg, tax, store, coordinator, api.WithMetrics(m), api.WithLogger(logger))
	return a, nil
}

func newEnricher(cfg *config.Config, logger *slog.Logger) (*openlibrary.Enricher, *openlibrary.Cache, error) {
	client, err := openlibrary.New(cfg.OpenLibrary.BaseURL, cfg.OpenLibrary.UserAgent,
		openlibrary.WithTimeout(cfg.OpenLibraryTimeout()),
		openlibrary.WithMinInterval(cfg.OpenLibraryInterval()),
	)
	if err != nil {
		return nil, nil, err
	}
	cache, err := openlibrary.OpenCache(cfg.OpenLibrary.CacheDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open lookup cache: %w", err)
	}
	enricher := openlibrary.NewEnricher(client,
		openlibrary.WithCache(cache),
		openlibrary.WithMinTitleSimilarity(cfg.OpenLibrary.MinTitleSimilarity),
		openlibrary.WithLogger(logger),
	)
	return enricher, cache, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
