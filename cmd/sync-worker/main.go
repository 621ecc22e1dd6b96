// sync-worker drains the record sync queue, pushing SQLite records to
// the spreadsheet and sweeping pending rows on a timer.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"expensetrack/internal/amqp"
	"expensetrack/internal/cli"
	gsheet "expensetrack/internal/ledger/google"
	"expensetrack/internal/log"
	"expensetrack/internal/storage"
	"expensetrack/internal/worker"
)

func main() {
	cfg, logger := cli.Setup(log.ComponentWorker)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("sqlite initialization failed", log.FieldError, err, "db_path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the sync worker")
		os.Exit(1)
	}
	sheets, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("sheets initialization failed", log.FieldError, err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(repo, sheets, sheets, cfg.SyncBatchSize)

	// Recover records that went pending while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("startup sync check failed", log.FieldError, err)
	}

	// The queue is optional: without it only the periodic sweep runs.
	if cfg.AMQPURL != "" {
		queue, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("AMQP initialization failed", log.FieldError, err)
			os.Exit(1)
		}
		defer queue.Close()

		go func() {
			err := queue.ConsumeWithReconnect(ctx, func(msg *amqp.RecordMessage) error {
				return syncWorker.HandleMessage(ctx, msg)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("message consumption stopped", log.FieldError, err)
			}
		}()
	} else {
		logger.Info("no AMQP_URL configured, relying on periodic sweep only")
	}

	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()

	logger.Info("sync worker started",
		"db_path", cfg.SQLiteDBPath,
		"batch_size", cfg.SyncBatchSize,
		"interval", cfg.SyncInterval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("sync worker stopped")
			return
		case <-ticker.C:
			if err := syncWorker.ProcessPending(ctx); err != nil {
				logger.Error("periodic sweep failed", log.FieldError, err)
			}
		}
	}
}
