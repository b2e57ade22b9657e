package news

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/bubbles39/AINews/internal/fetch"
	"github.com/bubbles39/AINews/internal/logger"
)

// summaryMaxRunes caps how much of a feed summary the digest shows.
const summaryMaxRunes = 200

// Normalize parses a fetched document into items. gofeed detects the feed
// dialect (RSS, Atom, JSON Feed), so heterogeneous sources come out in one
// shape. Entries without a link or a parsable date are skipped one by one;
// an unparsable document yields an error and zero items. maxItems > 0 caps
// how many entries are taken from the document, in document order.
func Normalize(doc fetch.Document, maxItems int) ([]Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(doc.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed from %s: %w", doc.SourceName, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if maxItems > 0 && len(items) >= maxItems {
			break
		}

		link := strings.TrimSpace(entry.Link)
		if link == "" {
			logger.Debug("skipping entry without link", "source", doc.SourceName, "title", entry.Title)
			continue
		}

		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}
		if published == nil {
			logger.Debug("skipping entry without date", "source", doc.SourceName, "link", link)
			continue
		}

		summary := entry.Description
		if summary == "" {
			summary = entry.Content
		}

		items = append(items, Item{
			Title:     strings.TrimSpace(entry.Title),
			Summary:   truncate(stripHTML(summary), summaryMaxRunes),
			Link:      link,
			Published: *published,
			Source:    doc.SourceName,
		})
	}

	logger.Debug("normalized feed", "source", doc.SourceName, "entries", len(feed.Items), "items", len(items))
	return items, nil
}

// stripHTML flattens markup in feed summaries to plain text.
func stripHTML(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapseWhitespace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(s)
	}
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
