// Package fetch downloads raw feed documents.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bubbles39/AINews/internal/feeds"
	"github.com/bubbles39/AINews/internal/logger"
)

const userAgent = "ainews/1.0 (+https://github.com/bubbles39/AINews)"

// Document is the unparsed result of fetching one source. A failed fetch is
// reported through Succeeded/ErrorReason, never through an error return: one
// dead feed must not take the run down.
type Document struct {
	SourceName  string
	URL         string
	Body        []byte
	FetchedAt   time.Time
	Succeeded   bool
	ErrorReason string
}

type Fetcher struct {
	client      *http.Client
	concurrency int
}

func New(timeout time.Duration, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{
		client:      &http.Client{Timeout: timeout},
		concurrency: concurrency,
	}
}

// FetchAll downloads every source, at most f.concurrency in flight. The
// returned slice has one Document per source, in source order.
func (f *Fetcher) FetchAll(ctx context.Context, sources []feeds.Source) []Document {
	docs := make([]Document, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			docs[i] = f.fetchOne(ctx, src)
			return nil
		})
	}
	g.Wait()

	ok := 0
	for _, d := range docs {
		if d.Succeeded {
			ok++
		}
	}
	logger.Info("fetched feeds", "ok", ok, "total", len(sources))

	return docs
}

func (f *Fetcher) fetchOne(ctx context.Context, src feeds.Source) Document {
	doc := Document{
		SourceName: src.Name,
		URL:        src.URL,
		FetchedAt:  time.Now(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		doc.ErrorReason = fmt.Sprintf("bad request: %v", err)
		return doc
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		doc.ErrorReason = fmt.Sprintf("request failed: %v", err)
		logger.Warn("feed fetch failed", "source", src.Name, "error", err)
		return doc
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		doc.ErrorReason = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		logger.Warn("feed fetch failed", "source", src.Name, "status", resp.StatusCode)
		return doc
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		doc.ErrorReason = fmt.Sprintf("reading body: %v", err)
		logger.Warn("feed fetch failed", "source", src.Name, "error", err)
		return doc
	}

	doc.Body = body
	doc.Succeeded = true
	logger.Debug("feed fetched", "source", src.Name, "bytes", len(body))
	return doc
}
