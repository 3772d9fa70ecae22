package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"txtracker/internal/amqp"
	"txtracker/internal/config"
	"txtracker/internal/export"
	"txtracker/internal/ledger"
	applog "txtracker/internal/log"
	"txtracker/internal/service"
	"txtracker/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting txtracker-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if !cfg.DriveConfigured() {
		logger.Error("Drive backup not configured (set GOOGLE_DRIVE_FOLDER_ID and service account credentials)")
		os.Exit(1)
	}

	store, err := ledger.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}

	svc := service.NewLedgerService(store, nil)
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driveClient, err := export.NewDriveFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Drive client", "error", err)
		os.Exit(1)
	}
	logger.Info("Drive client initialized", "folder_id", cfg.DriveFolderID)

	backupWorker := worker.NewBackupWorker(svc, driveClient, cfg.BackupDebounce, cfg.BackupInterval)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, backupWorker.HandleBackupSyncMessage)
	})

	g.Go(func() error {
		return backupWorker.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
