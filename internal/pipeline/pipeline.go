// Package pipeline turns configured feed groups into sorted article lists.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/investthepress/backend/internal/age"
	"github.com/investthepress/backend/internal/feed"
	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/processing"
	"github.com/investthepress/backend/internal/ticker"
)

const (
	DefaultMaxEntries = 50
	DefaultWindow     = 7 * 24 * time.Hour
)

// Fetcher retrieves the raw entries of one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

// Options tune a Pipeline. Zero values take the defaults.
type Options struct {
	Location    *time.Location
	MaxEntries  int
	Window      time.Duration
	Concurrency int
}

// Pipeline fetches, normalizes, filters and sorts articles for a feed group.
// It holds no state between runs.
type Pipeline struct {
	fetcher Fetcher
	log     *slog.Logger
	opts    Options
}

// New creates a Pipeline.
func New(fetcher Fetcher, opts Options, log *slog.Logger) *Pipeline {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = DefaultMaxEntries
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{fetcher: fetcher, log: log, opts: opts}
}

// Run builds the newest-first article list for group as seen at now.
// Feed failures are logged and skipped; only context cancellation is returned.
func (p *Pipeline) Run(ctx context.Context, group models.FeedGroup, now time.Time) ([]models.Article, error) {
	now = now.In(p.opts.Location)
	cutoff := now.Add(-p.opts.Window)

	perSource := p.fetchAll(ctx, group)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run %s: %w", group.Name, err)
	}

	articles := make([]models.Article, 0)
	for i, src := range group.Sources {
		for _, entry := range perSource[i] {
			if a, ok := p.normalize(group.Name, src.Name, entry, now, cutoff); ok {
				articles = append(articles, a)
			}
		}
	}

	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].SortKey().After(articles[j].SortKey())
	})

	p.log.Debug("group processed",
		slog.String("group", string(group.Name)),
		slog.Int("sources", len(group.Sources)),
		slog.Int("articles", len(articles)),
	)
	return articles, nil
}

// fetchAll returns the capped entries of every source, indexed like group.Sources.
func (p *Pipeline) fetchAll(ctx context.Context, group models.FeedGroup) [][]feed.Entry {
	results := make([][]feed.Entry, len(group.Sources))

	if p.opts.Concurrency == 1 {
		for i, src := range group.Sources {
			if ctx.Err() != nil {
				break
			}
			results[i] = p.fetchOne(ctx, group.Name, src)
		}
		return results
	}

	var wg sync.WaitGroup
	slots := make(chan struct{}, p.opts.Concurrency)
	for i, src := range group.Sources {
		wg.Add(1)
		go func(i int, src models.Source) {
			defer wg.Done()
			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-slots }()
			results[i] = p.fetchOne(ctx, group.Name, src)
		}(i, src)
	}
	wg.Wait()
	return results
}

func (p *Pipeline) fetchOne(ctx context.Context, group models.Group, src models.Source) []feed.Entry {
	entries, err := p.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		p.log.Warn("fetch feed failed",
			slog.String("group", string(group)),
			slog.String("source", src.Name),
			slog.String("url", src.URL),
			slog.Any("err", err),
		)
		return nil
	}
	if len(entries) > p.opts.MaxEntries {
		entries = entries[:p.opts.MaxEntries]
	}
	return entries
}

func (p *Pipeline) normalize(group models.Group, source string, entry feed.Entry, now, cutoff time.Time) (models.Article, bool) {
	title := processing.NormalizeTitle(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return models.Article{}, false
	}

	var published *time.Time
	if entry.Published != nil && !entry.Published.IsZero() {
		ts := entry.Published.In(p.opts.Location)
		if ts.Before(cutoff) {
			return models.Article{}, false
		}
		published = &ts
	}

	symbol, rule, ok := ticker.ExtractWithRule(title)
	if ok {
		p.log.Debug("ticker extracted",
			slog.String("source", source),
			slog.String("ticker", symbol),
			slog.String("ticker_rule", rule),
		)
	}

	return models.Article{
		Group:          group,
		Source:         source,
		Title:          title,
		Link:           link,
		PublishedAt:    published,
		PublishedLabel: age.Format(published, now),
		Ticker:         symbol,
		QuoteURL:       ticker.QuoteURL(symbol),
	}, true
}
