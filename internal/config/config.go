// Package config loads run configuration from flags and environment.
package config

import (
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags.
var Version = "dev"

type Config struct {
	// Sources and recency
	SourcesPath       string        `long:"sources" env:"SOURCES_FILE" default:"configs/sources.yaml" description:"YAML file with the feed source list"`
	Window            time.Duration `long:"window" env:"RECENCY_WINDOW" default:"48h" description:"Rolling window an item must fall into"`
	Skew              time.Duration `long:"clock-skew" env:"CLOCK_SKEW" default:"5m" description:"Tolerance for slightly future publish timestamps"`
	MaxItemsPerSource int           `long:"max-per-source" env:"MAX_ITEMS_PER_SOURCE" default:"0" description:"Cap on entries taken per source, 0 for all"`

	// Translation
	Locale               string        `long:"locale" env:"TARGET_LOCALE" default:"ja" description:"Target translation locale"`
	TranslateConcurrency int           `long:"translate-concurrency" env:"TRANSLATE_CONCURRENCY" default:"2" description:"Concurrent translation calls"`
	RetryAttempts        int           `long:"retry-attempts" env:"RETRY_ATTEMPTS" default:"3" description:"Attempts per translation before falling back"`
	RetryDelay           time.Duration `long:"retry-delay" env:"RETRY_DELAY" default:"2s" description:"Base delay between translation retries"`
	GeminiAPIKey         string        `long:"gemini-key" env:"GEMINI_API_KEY" description:"Gemini API key (optional provider)"`
	OpenAIAPIKey         string        `long:"openai-key" env:"OPENAI_API_KEY" description:"OpenAI API key (optional provider)"`

	// Provider budgets per day, 0 = unlimited
	MaxGoogleRequests int `long:"max-google-requests" env:"MAX_GOOGLE_REQUESTS" default:"200" description:"Daily budget for the free Google endpoint"`
	MaxGeminiRequests int `long:"max-gemini-requests" env:"MAX_GEMINI_REQUESTS" default:"50" description:"Daily budget for Gemini"`
	MaxOpenAIRequests int `long:"max-openai-requests" env:"MAX_OPENAI_REQUESTS" default:"50" description:"Daily budget for OpenAI"`
	MaxTotalRequests  int `long:"max-total-requests" env:"MAX_TOTAL_REQUESTS" default:"300" description:"Daily budget across all providers"`

	// Fetching
	FetchConcurrency int           `long:"fetch-concurrency" env:"FETCH_CONCURRENCY" default:"4" description:"Concurrent feed downloads"`
	FetchTimeout     time.Duration `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10s" description:"Per-feed download timeout"`

	// Output
	OutputPath string `long:"output" env:"OUTPUT_PATH" default:"output/index.html" description:"Where the rendered digest is written"`
	PageTitle  string `long:"page-title" env:"PAGE_TITLE" default:"AI News Digest" description:"Heading of the rendered page"`

	// Translation cache
	CacheFilePath string `long:"cache-file" env:"CACHE_FILE_PATH" default:"translation_cache.json" description:"Translation cache file, empty to disable"`
	CacheTTLHours int    `long:"cache-ttl-hours" env:"CACHE_TTL_HOURS" default:"72" description:"Translation cache entry lifetime"`
	DatabaseURL   string `long:"database-url" env:"DATABASE_URL" description:"Postgres URL for the translation cache (overrides the file cache)"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses flags and environment. Returns (nil, nil) when --help was
// requested.
func Load() (*Config, error) {
	var cfg Config

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return &cfg, cfg.Validate()
}

// Validate rejects values that cannot produce a usable run. The source list
// itself is validated by the pipeline once loaded.
func (c *Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("RECENCY_WINDOW must be positive, got %v", c.Window)
	}
	if c.Skew < 0 {
		return fmt.Errorf("CLOCK_SKEW must not be negative, got %v", c.Skew)
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.TranslateConcurrency < 1 {
		return fmt.Errorf("TRANSLATE_CONCURRENCY must be at least 1, got %d", c.TranslateConcurrency)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.FetchTimeout)
	}
	if c.Locale == "" {
		return fmt.Errorf("TARGET_LOCALE must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH must not be empty")
	}
	return nil
}
