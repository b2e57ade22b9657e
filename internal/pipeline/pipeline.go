// Package pipeline runs one end-to-end aggregation pass:
// fetch → normalize → recency filter → dedup → translate.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bubbles39/AINews/internal/feeds"
	"github.com/bubbles39/AINews/internal/fetch"
	"github.com/bubbles39/AINews/internal/logger"
	"github.com/bubbles39/AINews/internal/news"
	"github.com/bubbles39/AINews/internal/ratelimit"
	"github.com/bubbles39/AINews/internal/retry"
	"github.com/bubbles39/AINews/internal/storage"
	"github.com/bubbles39/AINews/internal/translate"
)

// Config is the per-run configuration. Validate gates the run: any error
// here means no output could be valid, so nothing is fetched.
type Config struct {
	Sources []feeds.Source
	Window  time.Duration
	Skew    time.Duration
	Locale  string

	FetchConcurrency     int
	TranslateConcurrency int
	MaxItemsPerSource    int

	RetryAttempts int
	RetryDelay    time.Duration
}

func (c Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("configuration: source list is empty")
	}
	for _, src := range c.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return fmt.Errorf("configuration: source with url %q has no name", src.URL)
		}
		u, err := url.Parse(src.URL)
		if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("configuration: source %q has malformed url %q", src.Name, src.URL)
		}
	}
	if c.Window <= 0 {
		return fmt.Errorf("configuration: recency window must be positive, got %v", c.Window)
	}
	if c.Skew < 0 {
		return fmt.Errorf("configuration: clock skew tolerance must not be negative, got %v", c.Skew)
	}
	if c.Locale == "" {
		return fmt.Errorf("configuration: target locale is empty")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("configuration: fetch concurrency must be at least 1, got %d", c.FetchConcurrency)
	}
	if c.TranslateConcurrency < 1 {
		return fmt.Errorf("configuration: translate concurrency must be at least 1, got %d", c.TranslateConcurrency)
	}
	return nil
}

// Deps are the collaborators a run needs. Cache and Budget may be nil.
type Deps struct {
	Fetcher    *fetch.Fetcher
	Translator translate.Translator
	Cache      storage.TranslationCache
	Budget     *ratelimit.Limiter
}

// Summary describes what happened during a run, for logging and monitoring.
type Summary struct {
	SourcesAttempted    int
	SourcesSucceeded    int
	ParseFailures       int
	ItemsBeforeDedup    int
	ItemsAfterDedup     int
	TranslationFailures int
}

// Run executes one pipeline pass and returns the rendered-ready items,
// newest first. Per-source and per-item failures degrade the output and are
// reported in the summary; only a bad configuration or cancellation returns
// an error.
func Run(ctx context.Context, cfg Config, deps Deps) ([]news.Item, Summary, error) {
	var sum Summary

	if err := cfg.Validate(); err != nil {
		return nil, sum, err
	}
	if deps.Fetcher == nil || deps.Translator == nil {
		return nil, sum, fmt.Errorf("configuration: pipeline requires a fetcher and a translator")
	}

	sum.SourcesAttempted = len(cfg.Sources)

	docs := deps.Fetcher.FetchAll(ctx, cfg.Sources)
	if err := ctx.Err(); err != nil {
		return nil, sum, err
	}

	var collected []news.Item
	for _, doc := range docs {
		if !doc.Succeeded {
			logger.Warn("source skipped", "source", doc.SourceName, "reason", doc.ErrorReason)
			continue
		}
		items, err := news.Normalize(doc, cfg.MaxItemsPerSource)
		if err != nil {
			sum.ParseFailures++
			logger.Warn("source unparsable", "source", doc.SourceName, "error", err)
			continue
		}
		sum.SourcesSucceeded++
		collected = append(collected, items...)
	}

	recent := news.FilterRecent(collected, time.Now(), cfg.Window, cfg.Skew)
	sum.ItemsBeforeDedup = len(recent)

	unique := news.Deduplicate(recent)
	sum.ItemsAfterDedup = len(unique)
	logger.Info("collected items", "total", len(collected), "recent", len(recent), "unique", len(unique))

	translated, failures := translateItems(ctx, unique, cfg, deps)
	sum.TranslationFailures = failures
	if err := ctx.Err(); err != nil {
		return nil, sum, err
	}

	news.SortNewestFirst(translated)
	return translated, sum, nil
}

// translateItems fills the translated fields of every item, bounded by the
// translation concurrency cap. A failed translation falls back to the
// original text; items are never dropped here.
func translateItems(ctx context.Context, items []news.Item, cfg Config, deps Deps) ([]news.Item, int) {
	out := make([]news.Item, len(items))
	copy(out, items)

	var mu sync.Mutex
	failures := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.TranslateConcurrency)

	for i := range out {
		i := i
		g.Go(func() error {
			item := &out[i]

			title, titleErr := translateField(gctx, item.Title, cfg, deps)
			summary, summaryErr := translateField(gctx, item.Summary, cfg, deps)

			item.TitleTranslated = title
			if titleErr != nil {
				item.TitleTranslated = item.Title
			}
			item.SummaryTranslated = summary
			if summaryErr != nil {
				item.SummaryTranslated = item.Summary
			}

			if titleErr != nil || summaryErr != nil {
				mu.Lock()
				failures++
				mu.Unlock()
				logger.Warn("translation fell back to original", "link", item.Link,
					"title_error", titleErr, "summary_error", summaryErr)
			}
			return nil
		})
	}
	g.Wait()

	return out, failures
}

// translateField translates one text through the cache and the provider
// chain, retrying transient failures with increasing delay.
func translateField(ctx context.Context, text string, cfg Config, deps Deps) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	key := storage.Key(text, cfg.Locale)
	if deps.Cache != nil {
		if cached, ok := deps.Cache.Get(key); ok {
			if deps.Budget != nil {
				deps.Budget.RecordCacheHit(len(text) / 4)
			}
			return cached, nil
		}
	}

	var result string
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	}, func() error {
		translated, err := deps.Translator.Translate(ctx, text, cfg.Locale)
		if err != nil {
			return err
		}
		result = translated
		return nil
	})
	if err != nil {
		return "", err
	}

	if deps.Cache != nil {
		if err := deps.Cache.Put(key, result); err != nil {
			logger.Debug("translation cache write failed", "error", err)
		}
	}
	return result, nil
}
