package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/investthepress/backend/internal/models"
)

// DefaultGroups returns the built-in feed collections.
func DefaultGroups() models.Groups {
	return models.Groups{
		Overall: models.FeedGroup{
			Name: models.GroupOverall,
			Sources: []models.Source{
				{Name: "Yahoo Finance", URL: "https://finance.yahoo.com/news/rssindex"},
				{Name: "Wall Street Journal", URL: "https://feeds.a.dj.com/rss/RSSMarketsMain.xml"},
				{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss"},
				{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/"},
				{Name: "Seeking Alpha", URL: "https://seekingalpha.com/feed.xml"},
				{Name: "The Motley Fool", URL: "https://www.fool.com/feeds/index.aspx"},
				{Name: "Investor's Business Daily", URL: "https://www.investors.com/feed/"},
				{Name: "Financial Times", URL: "https://www.ft.com/?format=rss"},
				{Name: "Benzinga", URL: "https://www.benzinga.com/feed"},
				{Name: "CNBC", URL: "https://search.cnbc.com/rs/search/combinedcms/view.xml?partnerId=wrss01&id=15839069"},
			},
		},
		Tech: models.FeedGroup{
			Name: models.GroupTech,
			Sources: []models.Source{
				{Name: "TechCrunch", URL: "http://feeds.feedburner.com/TechCrunch/"},
				{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml"},
				{Name: "Ars Technica", URL: "http://feeds.arstechnica.com/arstechnica/index"},
				{Name: "Recode/Vox", URL: "http://www.vox.com/rss/index.xml"},
				{Name: "Wired", URL: "https://www.wired.com/feed/rss"},
				{Name: "Engadget", URL: "https://www.engadget.com/rss.xml"},
				{Name: "VentureBeat", URL: "https://venturebeat.com/feed/"},
				{Name: "ZDNet", URL: "https://www.zdnet.com/news/rss.xml"},
				{Name: "TechRadar", URL: "https://www.techradar.com/rss"},
				{Name: "CNET", URL: "https://www.cnet.com/rss/news/"},
				{Name: "Hacker News", URL: "https://news.ycombinator.com/rss"},
				{Name: "MIT Technology Review", URL: "https://www.technologyreview.com/feed/"},
				{Name: "Gizmodo", URL: "https://gizmodo.com/rss"},
				{Name: "TechRepublic", URL: "https://www.techrepublic.com/rssfeeds/articles/"},
			},
		},
	}
}

type feedsFile struct {
	Overall []models.Source `yaml:"overall"`
	Tech    []models.Source `yaml:"tech"`
}

// LoadGroups reads feed groups from a YAML file. Groups absent from the file
// keep their defaults.
func LoadGroups(path string) (models.Groups, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Groups{}, fmt.Errorf("read feeds file: %w", err)
	}
	return ParseGroups(data)
}

// ParseGroups decodes and validates a feeds document.
func ParseGroups(data []byte) (models.Groups, error) {
	var file feedsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.Groups{}, fmt.Errorf("decode feeds file: %w", err)
	}

	groups := DefaultGroups()
	if file.Overall != nil {
		groups.Overall.Sources = file.Overall
	}
	if file.Tech != nil {
		groups.Tech.Sources = file.Tech
	}

	for _, g := range []models.FeedGroup{groups.Overall, groups.Tech} {
		if err := validateGroup(g); err != nil {
			return models.Groups{}, err
		}
	}
	return groups, nil
}

func validateGroup(g models.FeedGroup) error {
	seen := make(map[string]struct{}, len(g.Sources))
	for i, src := range g.Sources {
		name := strings.TrimSpace(src.Name)
		if name == "" {
			return fmt.Errorf("%s feed #%d: name is required", g.Name, i+1)
		}
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("%s feed %q: url is required", g.Name, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%s feed %q: duplicate name", g.Name, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
