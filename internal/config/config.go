package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/investthepress/backend/internal/feed"
	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/pipeline"
)

// Common contains the feed pipeline parameters shared by every binary.
type Common struct {
	Groups           models.Groups
	Location         *time.Location
	FeedTimeout      time.Duration
	UserAgent        string
	MaxEntries       int
	RetentionWindow  time.Duration
	FetchConcurrency int
}

// PipelineOptions maps the common settings onto pipeline options.
func (c Common) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Location:    c.Location,
		MaxEntries:  c.MaxEntries,
		Window:      c.RetentionWindow,
		Concurrency: c.FetchConcurrency,
	}
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr string
}

// Publisher configures the Kafka article stream.
type Publisher struct {
	Common
	KafkaBrokers []string
	KafkaTopic   string
	Interval     time.Duration
	Once         bool
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}
	return &API{
		Common:   common,
		BindAddr: getEnv("API_BIND_ADDR", "0.0.0.0:5000"),
	}, nil
}

// LoadPublisher builds a Publisher config from environment variables.
func LoadPublisher() (*Publisher, error) {
	common, err := loadCommon()
	if err != nil {
		return nil, err
	}

	c := &Publisher{
		Common:       common,
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "market_news"),
		Interval:     getDuration("PUBLISHER_INTERVAL", "15m"),
		Once:         getBool("PUBLISHER_ONCE", false),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("PUBLISHER_INTERVAL must be positive")
	}

	return c, nil
}

func loadCommon() (Common, error) {
	groups := DefaultGroups()
	if path := getEnv("FEEDS_FILE", ""); path != "" {
		loaded, err := LoadGroups(path)
		if err != nil {
			return Common{}, err
		}
		groups = loaded
	}

	tz := getEnv("TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Common{}, fmt.Errorf("TIMEZONE %q: %w", tz, err)
	}

	c := Common{
		Groups:           groups,
		Location:         loc,
		FeedTimeout:      getDuration("FEED_TIMEOUT", feed.DefaultTimeout.String()),
		UserAgent:        getEnv("FEED_USER_AGENT", feed.DefaultUserAgent),
		MaxEntries:       getInt("FEED_MAX_ENTRIES", pipeline.DefaultMaxEntries),
		RetentionWindow:  getDuration("RETENTION_WINDOW", pipeline.DefaultWindow.String()),
		FetchConcurrency: getInt("FETCH_CONCURRENCY", 1),
	}

	if c.FeedTimeout <= 0 {
		return Common{}, fmt.Errorf("FEED_TIMEOUT must be positive")
	}
	if c.MaxEntries <= 0 {
		return Common{}, fmt.Errorf("FEED_MAX_ENTRIES must be positive")
	}
	if c.RetentionWindow <= 0 {
		return Common{}, fmt.Errorf("RETENTION_WINDOW must be positive")
	}
	if c.FetchConcurrency <= 0 {
		return Common{}, fmt.Errorf("FETCH_CONCURRENCY must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
