package models

// Source is one configured feed: a display name and the URL it is fetched from.
type Source struct {
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url" json:"url"`
}

// FeedGroup is an ordered, read-only collection of sources.
type FeedGroup struct {
	Name    Group
	Sources []Source
}

// Groups holds the two feed collections served by the application.
type Groups struct {
	Overall FeedGroup
	Tech    FeedGroup
}
