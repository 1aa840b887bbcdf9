package config

const (
	defaultConfigPath               = "~/.config/shelver/config.toml"
	defaultDataDir                  = "~/.local/share/shelver"
	defaultLibraryDBName            = "library.db"
	defaultLogDirName               = "logs"
	defaultLockDirName              = "locks"
	defaultCacheDirName             = "cache/openlibrary"
	defaultClassificationLimit      = 100
	defaultClassificationMaxLimit   = 500
	defaultEnrichmentTimeoutSeconds = 10
	defaultOpenLibraryBaseURL       = "https://openlibrary.org"
	defaultOpenLibraryUserAgent     = "EbookOrganizer/1.0"
	defaultOpenLibraryTimeout       = 10
	defaultOpenLibraryRateLimitMS   = 100
	defaultMinTitleSimilarity       = 0.2
	defaultReorganizeOperation      = "move"
	defaultLogFormat                = "console"
	defaultLogLevel                 = "info"
)

// Default returns a Config populated with repository defaults. Paths derived
// from data_dir are filled in during normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Classification: Classification{
			DefaultLimit:             defaultClassificationLimit,
			MaxLimit:                 defaultClassificationMaxLimit,
			Enrichment:               true,
			EnrichmentTimeoutSeconds: defaultEnrichmentTimeoutSeconds,
		},
		OpenLibrary: OpenLibrary{
			BaseURL:            defaultOpenLibraryBaseURL,
			UserAgent:          defaultOpenLibraryUserAgent,
			TimeoutSeconds:     defaultOpenLibraryTimeout,
			RateLimitMillis:    defaultOpenLibraryRateLimitMS,
			MinTitleSimilarity: defaultMinTitleSimilarity,
		},
		Reorganize: Reorganize{
			Operation:    defaultReorganizeOperation,
			VerifyCopies: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
