package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"brancoapp/internal/amqp"
	"brancoapp/internal/backend"
	"brancoapp/internal/config"
	applog "brancoapp/internal/log"
	"brancoapp/internal/sheets"
	gsheet "brancoapp/internal/sheets/google"
	sheetsmem "brancoapp/internal/sheets/memory"
	"brancoapp/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting branco-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker only reads the roster, so it opens the store without the
	// change-publishing wrapper regardless of the AMQP settings.
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration failed", "error", err)
		os.Exit(1)
	}
	backendCfg.AMQPURL = ""
	result, err := backend.NewFactory(logger.Logger).CreateBackend(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", "error", err)
		}
	}()

	var writer sheets.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writer = cli
		logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		writer = sheetsmem.New()
		logger.Info("Google Sheets disabled, exporting to in-memory snapshot only")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(result.Store, writer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
			return exportWorker.HandleChange(ctx, msg)
		})
	})

	g.Go(func() error {
		// Export once at startup to catch anything missed while down.
		if err := exportWorker.ExportLedger(ctx); err != nil {
			logger.Error("Startup ledger export failed", "error", err)
		}
		ticker := time.NewTicker(cfg.ExportInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := exportWorker.ExportLedger(ctx); err != nil {
					logger.Error("Periodic ledger export failed", "error", err)
				}
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
