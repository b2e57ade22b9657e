// Package feeds loads the configured news sources.
package feeds

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source is one configured feed.
type Source struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// sourcesFile is the YAML config structure:
//
// sources:
//   - name: ...
//     url: https://...
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// Load reads the source list from a YAML file.
func Load(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg sourcesFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources file %s: %w", path, err)
	}
	return cfg.Sources, nil
}

// Defaults returns the built-in AI news sources, used when no sources file is
// present.
func Defaults() []Source {
	return []Source{
		{Name: "MIT Technology Review - AI", URL: "https://www.technologyreview.com/topic/artificial-intelligence/feed"},
		{Name: "VentureBeat - AI", URL: "https://venturebeat.com/category/ai/feed/"},
		{Name: "The Verge - AI", URL: "https://www.theverge.com/rss/ai-artificial-intelligence/index.xml"},
		{Name: "TechCrunch - AI", URL: "https://techcrunch.com/category/artificial-intelligence/feed/"},
		{Name: "Google AI Blog", URL: "https://blog.google/technology/ai/rss/"},
		{Name: "OpenAI Blog", URL: "https://openai.com/blog/rss.xml"},
	}
}
