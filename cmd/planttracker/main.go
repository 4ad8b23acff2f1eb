package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/verdant-io/planttracker/internal/api"
	"github.com/verdant-io/planttracker/internal/blob"
	"github.com/verdant-io/planttracker/internal/config"
	"github.com/verdant-io/planttracker/internal/metrics"
	"github.com/verdant-io/planttracker/internal/plant"
	"github.com/verdant-io/planttracker/internal/reminder"
	"github.com/verdant-io/planttracker/internal/storage"
	"github.com/verdant-io/planttracker/internal/user"
)

func main() {
	cfg := config.Load()

	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to PostgreSQL
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	if err := storage.RunMigrations(ctx, pool); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("migrations complete")

	prometheus.MustRegister(metrics.NewPoolCollector(pool))

	// Photo storage is optional; without a bucket the upload endpoints
	// return 400 and log deletion skips blob cleanup.
	var blobs plant.BlobStore
	if cfg.AWSBucket != "" {
		s3, err := blob.NewS3(ctx, blob.S3Config{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.AWSBucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			logger.Error("failed to configure photo storage", "error", err)
			os.Exit(1)
		}
		blobs = blob.NewGuarded(s3, 5, 30*time.Second)
		logger.Info("photo storage configured", "bucket", cfg.AWSBucket, "region", cfg.AWSRegion)
	} else {
		logger.Warn("no AWS_BUCKET set, photo uploads disabled")
	}

	plantStore := storage.NewPlantStore(pool, cfg.QueryTimeout)
	plants := plant.NewService(plantStore, blobs, logger)
	users := user.NewService(storage.NewUserStore(pool, cfg.QueryTimeout), logger)

	// Overdue plants are reported on each scan until their owner waters them.
	scanner := reminder.NewScanner(plantStore, cfg.ReminderInterval, logger)
	scanner.Register(func(_ context.Context, p plant.Plant) error {
		logger.Info("plant is overdue for watering",
			"plant_id", p.ID,
			"owner", p.Owner,
			"name", p.Name,
			"last_watered", p.LastWatered,
			"frequency_days", p.WateringFrequencyDays,
		)
		return nil
	})
	go scanner.Start(ctx)

	handler := api.NewServer(logger, plants, users, pool)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("starting HTTP server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
