package stream_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/pipeline"
	"github.com/investthepress/backend/internal/stream"
)

type stubWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (s *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func (s *stubWriter) Close() error {
	s.closed = true
	return nil
}

func header(msg kafka.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func sampleSnapshot() pipeline.Snapshot {
	published := time.Date(2024, time.March, 20, 11, 0, 0, 0, time.UTC)
	return pipeline.Snapshot{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, time.March, 20, 12, 0, 0, 0, time.UTC),
		Overall: []models.Article{{
			Group: models.GroupOverall, Source: "CNBC", Title: "(AAPL) jumps", Link: "https://cnbc/1",
			PublishedAt: &published, PublishedLabel: "1h ago", Ticker: "AAPL", QuoteURL: "https://finance.yahoo.com/quote/AAPL",
		}},
		Tech: []models.Article{{
			Group: models.GroupTech, Source: "Wired", Title: "Chips", Link: "https://wired/1",
		}},
	}
}

func TestPublishWritesOneMessagePerArticle(t *testing.T) {
	w := &stubWriter{}
	p := stream.NewPublisher(w, nil)

	n, err := p.Publish(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, w.msgs, 2)

	first := w.msgs[0]
	require.Equal(t, "https://cnbc/1", string(first.Key))
	require.Equal(t, "run-1", header(first, "run_id"))
	require.Equal(t, "overall", header(first, "group"))
	require.Equal(t, "CNBC", header(first, "source"))
	require.Equal(t, "2024-03-20T12:00:00Z", header(first, "generated_at"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(first.Value, &decoded))
	require.Equal(t, "AAPL", decoded["ticker"])
	require.Equal(t, "1h ago", decoded["published_label"])

	second := w.msgs[1]
	require.Equal(t, "tech", header(second, "group"))
	var techDecoded map[string]any
	require.NoError(t, json.Unmarshal(second.Value, &techDecoded))
	_, hasTicker := techDecoded["ticker"]
	require.False(t, hasTicker)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestPublishEmptySnapshot(t *testing.T) {
	w := &stubWriter{}
	n, err := stream.NewPublisher(w, nil).Publish(context.Background(), pipeline.Snapshot{RunID: "empty"})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, w.msgs)
}

func TestPublishWriteError(t *testing.T) {
	w := &stubWriter{err: errors.New("broker down")}
	_, err := stream.NewPublisher(w, nil).Publish(context.Background(), sampleSnapshot())
	require.ErrorContains(t, err, "broker down")
}
