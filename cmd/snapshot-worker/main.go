package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"patrimonio/internal/amqp"
	"patrimonio/internal/config"
	applog "patrimonio/internal/log"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
	"patrimonio/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentWorker, slog.LevelInfo)
	applog.SetDefault(logger)

	logger.Info("Starting snapshot-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without event publishing", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
		}
	}

	snapshotService := services.NewSnapshotService(repo, amqpClient)
	snapshotService.RatioWindowDays = cfg.RatioWindowDays

	w := worker.NewSnapshotWorker(snapshotService, cfg.SnapshotInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Snapshot worker configured",
		"interval", cfg.SnapshotInterval,
		"sqlite_db", cfg.SQLiteDBPath,
		"consume_events", amqpClient != nil)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })
	if amqpClient != nil {
		// Journal activity on the queue triggers the day's snapshot
		// ahead of the next tick.
		g.Go(func() error {
			return amqpClient.ConsumeLedgerEvents(ctx, func(e *amqp.LedgerEvent) error {
				return w.HandleLedgerEvent(ctx, e)
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Snapshot worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Snapshot-worker shutdown complete")
}
