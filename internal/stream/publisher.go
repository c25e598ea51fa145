// Package stream forwards snapshot articles to a Kafka topic.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/investthepress/backend/internal/pipeline"
)

// MessageWriter is the subset of *kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes one message per article.
type Publisher struct {
	w   MessageWriter
	log *slog.Logger
}

// NewKafkaWriter creates a writer for topic on brokers.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:     brokers,
		Topic:       topic,
		Balancer:    &kafka.Hash{},
		MaxAttempts: 3,
	})
}

// NewPublisher wraps w.
func NewPublisher(w MessageWriter, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{w: w, log: logger}
}

// Publish sends every article of snap and returns the number of messages written.
func (p *Publisher) Publish(ctx context.Context, snap pipeline.Snapshot) (int, error) {
	msgs, err := BuildMessages(snap)
	if err != nil {
		return 0, err
	}
	if len(msgs) == 0 {
		p.log.Debug("snapshot empty, nothing to publish", slog.String("run_id", snap.RunID))
		return 0, nil
	}

	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("write messages: %w", err)
	}

	p.log.Info("snapshot published",
		slog.String("run_id", snap.RunID),
		slog.Int("messages", len(msgs)),
	)
	return len(msgs), nil
}

// Close releases the underlying writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}

// BuildMessages encodes the snapshot articles, overall first, keyed by link.
func BuildMessages(snap pipeline.Snapshot) ([]kafka.Message, error) {
	articles := snap.All()
	msgs := make([]kafka.Message, 0, len(articles))
	generated := snap.GeneratedAt.UTC().Format(time.RFC3339)

	for _, a := range articles {
		payload, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("marshal article: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(a.Link),
			Value: payload,
			Headers: []kafka.Header{
				{Key: "run_id", Value: []byte(snap.RunID)},
				{Key: "group", Value: []byte(a.Group)},
				{Key: "source", Value: []byte(a.Source)},
				{Key: "generated_at", Value: []byte(generated)},
			},
		})
	}
	return msgs, nil
}
