// Package app wires configuration, caches, translation providers and the
// pipeline into one run.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bubbles39/AINews/internal/config"
	"github.com/bubbles39/AINews/internal/feeds"
	"github.com/bubbles39/AINews/internal/fetch"
	"github.com/bubbles39/AINews/internal/gemini"
	"github.com/bubbles39/AINews/internal/logger"
	"github.com/bubbles39/AINews/internal/metrics"
	"github.com/bubbles39/AINews/internal/pipeline"
	"github.com/bubbles39/AINews/internal/ratelimit"
	"github.com/bubbles39/AINews/internal/render"
	"github.com/bubbles39/AINews/internal/translate"
)

// Run executes one digest run: load config and sources, run the pipeline,
// publish the page. Designed to be invoked once per external trigger (cron,
// CI schedule); it holds no long-lived state of its own.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg == nil { // --help
		return nil
	}

	logger.Init(cfg.Debug)
	started := time.Now()

	sources, err := loadSources(cfg.SourcesPath)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	cache, closeCache := openCache(cfg)
	defer closeCache()

	budget := ratelimit.New(map[string]int{
		"google": cfg.MaxGoogleRequests,
		"gemini": cfg.MaxGeminiRequests,
		"openai": cfg.MaxOpenAIRequests,
	}, cfg.MaxTotalRequests)

	translator, closeTranslator := buildTranslator(ctx, cfg, budget)
	defer closeTranslator()

	pcfg := pipeline.Config{
		Sources:              sources,
		Window:               cfg.Window,
		Skew:                 cfg.Skew,
		Locale:               cfg.Locale,
		FetchConcurrency:     cfg.FetchConcurrency,
		TranslateConcurrency: cfg.TranslateConcurrency,
		MaxItemsPerSource:    cfg.MaxItemsPerSource,
		RetryAttempts:        cfg.RetryAttempts,
		RetryDelay:           cfg.RetryDelay,
	}
	deps := pipeline.Deps{
		Fetcher:    fetch.New(cfg.FetchTimeout, cfg.FetchConcurrency),
		Translator: translator,
		Cache:      cache,
		Budget:     budget,
	}

	items, sum, err := pipeline.Run(ctx, pcfg, deps)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	if err := render.Publish(cfg.OutputPath, render.Page{
		Title:     cfg.PageTitle,
		Locale:    cfg.Locale,
		Items:     items,
		UpdatedAt: time.Now(),
	}); err != nil {
		metrics.Global.SetError(err.Error())
		return err
	}

	recordMetrics(sum, time.Since(started))
	logger.Info("digest published",
		"output", cfg.OutputPath,
		"items", len(items),
		"sources_ok", fmt.Sprintf("%d/%d", sum.SourcesSucceeded, sum.SourcesAttempted),
		"parse_failures", sum.ParseFailures,
		"before_dedup", sum.ItemsBeforeDedup,
		"after_dedup", sum.ItemsAfterDedup,
		"translation_failures", sum.TranslationFailures,
		"duration", time.Since(started).Round(time.Millisecond))
	return nil
}

// loadSources reads the YAML source list, falling back to the built-in AI
// feeds when no file is configured or present.
func loadSources(path string) ([]feeds.Source, error) {
	if path == "" {
		return feeds.Defaults(), nil
	}
	sources, err := feeds.Load(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("sources file not found, using built-in sources", "path", path)
			return feeds.Defaults(), nil
		}
		return nil, err
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("sources file %s lists no sources", path)
	}
	return sources, nil
}

// buildTranslator assembles the provider chain: free Google endpoint first,
// then the key-gated model providers.
func buildTranslator(ctx context.Context, cfg *config.Config, budget *ratelimit.Limiter) (translate.Translator, func()) {
	providers := []translate.Provider{
		translate.NewGoogleProvider(15 * time.Second),
	}
	closer := func() {}

	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("gemini unavailable", "error", err)
		} else {
			providers = append(providers, client)
			closer = client.Close
		}
	}

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, translate.NewOpenAIProvider(cfg.OpenAIAPIKey))
	}

	return translate.NewChain(budget, providers...), closer
}

func recordMetrics(sum pipeline.Summary, duration time.Duration) {
	metrics.Global.AddItemsCollected(sum.ItemsBeforeDedup)
	metrics.Global.AddDuplicatesFiltered(sum.ItemsBeforeDedup - sum.ItemsAfterDedup)
	metrics.Global.AddSuccessfulTranslations(sum.ItemsAfterDedup - sum.TranslationFailures)
	metrics.Global.AddFailedTranslations(sum.TranslationFailures)
	metrics.Global.AddSourcesFailed(sum.SourcesAttempted - sum.SourcesSucceeded)
	metrics.Global.RecordRun(duration)
}
