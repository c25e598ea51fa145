package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/processing"
)

// Snapshot is the result of running both feed groups for one request.
type Snapshot struct {
	RunID       string
	GeneratedAt time.Time
	Overall     []models.Article
	Tech        []models.Article
}

// All returns the overall articles followed by the tech articles.
func (s Snapshot) All() []models.Article {
	out := make([]models.Article, 0, len(s.Overall)+len(s.Tech))
	out = append(out, s.Overall...)
	return append(out, s.Tech...)
}

// Snapshot runs the overall and tech groups independently against the same now.
func (p *Pipeline) Snapshot(ctx context.Context, groups models.Groups, now time.Time) (Snapshot, error) {
	snap := Snapshot{
		RunID:       uuid.NewString(),
		GeneratedAt: now.In(p.opts.Location),
	}
	log := p.log.With(slog.String("run_id", snap.RunID))

	overall, err := p.Run(ctx, groups.Overall, now)
	if err != nil {
		return Snapshot{}, err
	}
	tech, err := p.Run(ctx, groups.Tech, now)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Overall = overall
	snap.Tech = tech

	log.Info("snapshot built",
		slog.Int("overall_count", len(overall)),
		slog.Int("tech_count", len(tech)),
	)
	return snap, nil
}

// Search keeps the articles whose title contains query, ignoring case.
// An empty query returns the input unchanged.
func Search(articles []models.Article, query string) []models.Article {
	query = processing.NormalizeQuery(query)
	if query == "" {
		return articles
	}
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if processing.MatchesQuery(a.Title, query) {
			out = append(out, a)
		}
	}
	return out
}
