package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider uses the public Google Translate endpoint. Free, no key,
// occasionally throttled.
type GoogleProvider struct {
	client   *http.Client
	endpoint string
}

func NewGoogleProvider(timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		client:   &http.Client{Timeout: timeout},
		endpoint: googleEndpoint,
	}
}

func (g *GoogleProvider) Name() string { return "google" }

func (g *GoogleProvider) Translate(ctx context.Context, text, locale string) (string, error) {
	// The endpoint rejects over-long queries.
	if len(text) > 4000 {
		text = text[:4000]
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", locale)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse unpacks the endpoint's nested-array format: the first
// element is a list of [translatedChunk, originalChunk, ...] entries.
func parseGoogleResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty response")
	}

	chunks, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder
	for _, chunk := range chunks {
		parts, ok := chunk.([]interface{})
		if !ok || len(parts) == 0 {
			continue
		}
		if translated, ok := parts[0].(string); ok {
			result.WriteString(translated)
		}
	}

	if result.Len() == 0 {
		return "", errors.New("no translation in response")
	}
	return result.String(), nil
}
