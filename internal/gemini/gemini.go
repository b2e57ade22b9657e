// Package gemini adapts Google's Gemini API as a translation provider.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const model = "gemini-1.5-flash"

type Client struct {
	client *genai.Client
}

func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) Name() string { return "gemini" }

// Translate asks Gemini for a plain translation. Content is trimmed to keep
// prompts small; news titles and summaries fit comfortably.
func (c *Client) Translate(ctx context.Context, text, locale string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > 4000 {
		runes := []rune(text)
		text = string(runes[:4000])
	}

	prompt := fmt.Sprintf(`Translate the following news text to %s.
Keep proper names of companies, products and people untranslated.
Avoid introductory phrases; reply with the translation only.

%s`, languageName(locale), text)

	resp, err := c.client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

func languageName(locale string) string {
	switch strings.ToLower(locale) {
	case "ja":
		return "Japanese"
	case "uk":
		return "Ukrainian"
	case "da":
		return "Danish"
	case "de":
		return "German"
	case "en":
		return "English"
	default:
		return locale
	}
}
