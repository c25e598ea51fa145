package models

import "time"

// Group names one of the configured feed collections.
type Group string

const (
	GroupOverall Group = "overall"
	GroupTech    Group = "tech"
)

// Article is a normalized feed entry produced by a single pipeline run.
type Article struct {
	Group          Group      `json:"group"`
	Source         string     `json:"source"`
	Title          string     `json:"title"`
	Link           string     `json:"link"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	PublishedLabel string     `json:"published_label,omitempty"`
	Ticker         string     `json:"ticker,omitempty"`
	QuoteURL       string     `json:"quote_url,omitempty"`
}

// HasTicker reports whether a symbol was extracted from the title.
func (a Article) HasTicker() bool {
	return a.Ticker != ""
}

// SortKey is the publish time used for ordering; undated articles sort as the epoch.
func (a Article) SortKey() time.Time {
	if a.PublishedAt == nil {
		return time.Unix(0, 0)
	}
	return *a.PublishedAt
}
