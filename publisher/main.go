package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/investthepress/backend/internal/config"
	"github.com/investthepress/backend/internal/feed"
	"github.com/investthepress/backend/internal/logger"
	"github.com/investthepress/backend/internal/models"
	"github.com/investthepress/backend/internal/pipeline"
	"github.com/investthepress/backend/internal/stream"
)

type snapshotter interface {
	Snapshot(ctx context.Context, groups models.Groups, now time.Time) (pipeline.Snapshot, error)
}

type snapshotPublisher interface {
	Publish(ctx context.Context, snap pipeline.Snapshot) (int, error)
}

func main() {
	log := logger.New("publisher")
	cfg, err := config.LoadPublisher()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	pipe := pipeline.New(feed.NewFetcher(cfg.FeedTimeout, cfg.UserAgent), cfg.PipelineOptions(), log)
	pub := stream.NewPublisher(stream.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic), log)
	defer func() {
		if err := pub.Close(); err != nil {
			log.Error("close kafka writer", slog.Any("err", err))
		}
	}()

	log.Info("publisher running",
		slog.String("topic", cfg.KafkaTopic),
		slog.Duration("interval", cfg.Interval),
		slog.Bool("once", cfg.Once),
	)

	err = runOnce(ctx, log, pipe, pub, cfg.Groups, time.Now().In(cfg.Location))
	if cfg.Once {
		if err != nil {
			_ = pub.Close()
			stop()
			os.Exit(1)
		}
		return
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			_ = runOnce(ctx, log, pipe, pub, cfg.Groups, time.Now().In(cfg.Location))
		}
	}
}

func runOnce(ctx context.Context, log *slog.Logger, pipe snapshotter, pub snapshotPublisher, groups models.Groups, now time.Time) error {
	snap, err := pipe.Snapshot(ctx, groups, now)
	if err != nil {
		log.Warn("snapshot failed (will retry on next interval)", slog.Any("err", err))
		return err
	}

	subCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	sent, err := pub.Publish(subCtx, snap)
	if err != nil {
		log.Warn("publish failed (will retry on next interval)",
			slog.String("run_id", snap.RunID),
			slog.Any("err", err),
		)
		return err
	}

	log.Debug("run completed",
		slog.String("run_id", snap.RunID),
		slog.Int("overall_count", len(snap.Overall)),
		slog.Int("tech_count", len(snap.Tech)),
		slog.Int("published", sent),
	)
	return nil
}
