// Package feed retrieves syndication feeds and exposes their entries.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	// DefaultUserAgent identifies the aggregator to feed publishers.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) InvestThePress/1.0"
	// DefaultTimeout bounds a single feed retrieval.
	DefaultTimeout = 6 * time.Second

	maxBodyBytes = 10 << 20
)

// Entry is a raw feed item before normalization.
type Entry struct {
	Title     string
	Link      string
	Published *time.Time
}

// Fetcher performs one GET per call and parses the body as RSS, Atom or JSON Feed.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher builds a fetcher with the given timeout and user agent.
// Zero values fall back to the package defaults.
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch retrieves url and returns its entries in feed order.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("get feed: unexpected status %s", res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	return Parse(body)
}

// Parse decodes a feed document into entries.
func Parse(body []byte) ([]Entry, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	entries := make([]Entry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, Entry{
			Title:     item.Title,
			Link:      item.Link,
			Published: publishedAt(item),
		})
	}
	return entries, nil
}

func publishedAt(item *gofeed.Item) *time.Time {
	if item.PublishedParsed == nil || item.PublishedParsed.IsZero() {
		return nil
	}
	ts := item.PublishedParsed.UTC()
	return &ts
}
