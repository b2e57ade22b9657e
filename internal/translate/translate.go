// Package translate turns news text into the target locale through a chain
// of providers.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bubbles39/AINews/internal/logger"
	"github.com/bubbles39/AINews/internal/ratelimit"
)

// ErrRateLimited marks a provider refusal that is worth retrying after a
// backoff rather than failing over immediately.
var ErrRateLimited = errors.New("translation rate limited")

// Translator is what the pipeline consumes.
type Translator interface {
	Translate(ctx context.Context, text, locale string) (string, error)
}

// Provider is one translation backend.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, locale string) (string, error)
}

// Chain tries providers in order, honoring per-provider budgets. The first
// usable answer wins.
type Chain struct {
	providers []Provider
	budget    *ratelimit.Limiter
}

func NewChain(budget *ratelimit.Limiter, providers ...Provider) *Chain {
	return &Chain{providers: providers, budget: budget}
}

func (c *Chain) Translate(ctx context.Context, text, locale string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	var lastErr error
	for _, p := range c.providers {
		if c.budget != nil && !c.budget.Allow(p.Name()) {
			lastErr = fmt.Errorf("%s: budget exhausted", p.Name())
			continue
		}

		result, err := p.Translate(ctx, text, locale)
		if c.budget != nil {
			// Count the attempt whether or not it worked; the provider saw it.
			if useErr := c.budget.Use(p.Name()); useErr != nil {
				logger.Debug("budget accounting", "provider", p.Name(), "error", useErr)
			}
		}
		if err != nil {
			logger.Warn("translation provider failed", "provider", p.Name(), "locale", locale, "error", err)
			lastErr = fmt.Errorf("%s: %w", p.Name(), err)
			continue
		}

		result = SanitizeText(result)
		if result == "" || result == text {
			lastErr = fmt.Errorf("%s: empty or unchanged translation", p.Name())
			continue
		}

		logger.Debug("translated", "provider", p.Name(), "locale", locale, "chars", len(result))
		return result, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no translation providers configured")
	}
	return "", lastErr
}

// localeName maps a locale code to the language name model-backed providers
// expect in prompts.
func localeName(locale string) string {
	switch strings.ToLower(locale) {
	case "ja", "japanese":
		return "Japanese"
	case "uk", "ukrainian":
		return "Ukrainian"
	case "da", "danish":
		return "Danish"
	case "de", "german":
		return "German"
	case "fr", "french":
		return "French"
	case "es", "spanish":
		return "Spanish"
	case "en", "english":
		return "English"
	default:
		return locale
	}
}

// SanitizeText strips machine-translation disclaimers some providers prepend
// or inject into their output.
func SanitizeText(s string) string {
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if isDisclaimerLine(trimmed) {
			continue
		}
		kept = append(kept, removeInlineDisclaimer(trimmed))
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// isDisclaimerLine matches lines that are nothing but a disclaimer.
// Bracketed fragments with trailing content are handled by
// removeInlineDisclaimer instead.
func isDisclaimerLine(line string) bool {
	lower := strings.ToLower(line)
	return strings.HasPrefix(lower, "note:") && strings.Contains(lower, "translat")
}

// removeInlineDisclaimer cuts "(Note: ... translation ...)" and
// "[Note: ...]" fragments embedded mid-line.
func removeInlineDisclaimer(line string) string {
	for _, brackets := range [][2]string{{"(", ")"}, {"[", "]"}} {
		opening, closing := brackets[0], brackets[1]
		for {
			lower := strings.ToLower(line)
			start := strings.Index(lower, opening+"note")
			if start < 0 {
				break
			}
			end := strings.Index(line[start:], closing)
			if end < 0 {
				break
			}
			fragment := strings.ToLower(line[start : start+end+1])
			if !strings.Contains(fragment, "translat") && !strings.Contains(fragment, "machine") {
				break
			}
			line = strings.TrimSpace(line[:start] + " " + line[start+end+1:])
		}
	}
	return strings.Join(strings.Fields(line), " ")
}
