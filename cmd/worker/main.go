package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mentionlab/benchworker/internal/config"
	"github.com/mentionlab/benchworker/internal/logger"
	"github.com/mentionlab/benchworker/internal/provider"
	"github.com/mentionlab/benchworker/internal/queue"
	"github.com/mentionlab/benchworker/internal/repository"
	"github.com/mentionlab/benchworker/internal/worker"
)

func main() {
	// Initialize logger first (with environment configuration)
	appLogger := logger.NewDefault()
	logger.SetDefaultLogger(appLogger)
	defer logger.Sync()

	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	appLogger.WithFields(logger.Fields{
		logger.FieldQueue: cfg.Worker.QueueName,
		"poll_batch_size": cfg.Worker.PollBatchSize,
		"visibility_s":    cfg.Worker.VisibilitySeconds,
		"idle_exit":       cfg.Worker.IdleExit().String(),
	}).Info("Starting benchmark worker")

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize database")
	}

	// Initialize queue client
	queueClient := queue.NewSupabaseClient(&queue.SupabaseConfig{
		URL:               cfg.Supabase.URL,
		ServiceRoleKey:    cfg.Supabase.ServiceRoleKey,
		QueueName:         cfg.Worker.QueueName,
		VisibilitySeconds: cfg.Worker.VisibilitySeconds,
	})

	// Cancel the run on SIGINT/SIGTERM so in-flight work settles cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := worker.New(ctx, worker.Options{
		Queue:         queueClient,
		Jobs:          repository.NewJobRepository(db),
		Responses:     repository.NewResponseRepository(db),
		Mentions:      repository.NewMentionRepository(db),
		Competitors:   repository.NewCompetitorRepository(db),
		Progress:      repository.NewProgressRepository(db),
		Clients:       provider.NewFactory(cfg.Worker.APIKeyEnvOverride),
		Logger:        appLogger,
		PollBatchSize: cfg.Worker.PollBatchSize,
		EmptySleep:    cfg.Worker.EmptySleep(),
		IdleExit:      cfg.Worker.IdleExit(),
	})
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize worker")
	}

	if err := w.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			appLogger.Info("Worker stopped by signal")
			return
		}
		appLogger.WithError(err).Error("Worker exited with error")
		os.Exit(1)
	}
	// Idle exit: the queue drained and stayed empty past the ceiling.
	appLogger.Info("Worker exited cleanly")
}
