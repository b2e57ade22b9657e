package ratelimit

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Limiter enforces daily request budgets per translation provider plus a
// shared total, and keeps track of how much work the translation cache saved.
type Limiter struct {
	mu       sync.Mutex
	limits   map[string]int
	counts   map[string]int
	maxTotal int
	total    int
	resetAt  time.Time

	cacheHits   int
	cacheMisses int
	tokensSaved int
}

// New creates a limiter. A limit of 0 for a provider (or for maxTotal) means
// unlimited.
func New(limits map[string]int, maxTotal int) *Limiter {
	l := &Limiter{
		limits:   make(map[string]int, len(limits)),
		counts:   make(map[string]int, len(limits)),
		maxTotal: maxTotal,
		resetAt:  time.Now().Add(24 * time.Hour),
	}
	for name, max := range limits {
		l.limits[name] = max
	}
	return l
}

// Allow reports whether a request to the named provider fits the budget.
func (l *Limiter) Allow(provider string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if max := l.limits[provider]; max > 0 && l.counts[provider] >= max {
		slog.Warn("provider budget exhausted", "provider", provider, "used", l.counts[provider], "limit", max)
		return false
	}
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		slog.Warn("total translation budget exhausted", "used", l.total, "limit", l.maxTotal)
		return false
	}
	return true
}

// Use consumes one request from the provider's budget.
func (l *Limiter) Use(provider string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.checkReset()

	if max := l.limits[provider]; max > 0 && l.counts[provider] >= max {
		return fmt.Errorf("%s budget exceeded (%d/%d)", provider, l.counts[provider], max)
	}
	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return fmt.Errorf("total translation budget exceeded (%d/%d)", l.total, l.maxTotal)
	}

	l.counts[provider]++
	l.total++
	l.cacheMisses++
	return nil
}

// RecordCacheHit records a translation served from cache instead of a
// provider call.
func (l *Limiter) RecordCacheHit(estimatedTokens int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cacheHits++
	l.tokensSaved += estimatedTokens
}

func (l *Limiter) hitRate() float64 {
	total := l.cacheHits + l.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(l.cacheHits) / float64(total) * 100
}

// Stats returns a snapshot for logging and the monitoring endpoint.
func (l *Limiter) Stats() map[string]interface{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	stats := map[string]interface{}{
		"total_used":     l.total,
		"total_limit":    l.maxTotal,
		"cache_hits":     l.cacheHits,
		"cache_misses":   l.cacheMisses,
		"cache_hit_rate": l.hitRate(),
		"tokens_saved":   l.tokensSaved,
		"reset_time":     l.resetAt,
	}
	for name, max := range l.limits {
		stats[name+"_used"] = l.counts[name]
		stats[name+"_limit"] = max
	}
	return stats
}

// checkReset rolls the counters over once the daily window has passed.
// Callers must hold l.mu.
func (l *Limiter) checkReset() {
	if time.Now().Before(l.resetAt) {
		return
	}
	slog.Info("resetting translation budgets", "total_used", l.total, "cache_hit_rate", l.hitRate())
	l.counts = make(map[string]int, len(l.limits))
	l.total = 0
	l.cacheHits = 0
	l.cacheMisses = 0
	l.tokensSaved = 0
	l.resetAt = time.Now().Add(24 * time.Hour)
}
