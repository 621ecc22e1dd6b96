// Package backend wires a concrete ledger implementation from
// configuration: in-process memory, SQLite with queued spreadsheet
// sync, or the spreadsheet directly.
package backend

import (
	"context"
	"fmt"

	"expensetrack/internal/amqp"
	"expensetrack/internal/config"
	"expensetrack/internal/ledger"
	gsheet "expensetrack/internal/ledger/google"
	"expensetrack/internal/ledger/memory"
	"expensetrack/internal/log"
	"expensetrack/internal/services"
	"expensetrack/internal/storage"
)

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
	Sheets Type = "sheets"
)

func (t Type) IsValid() bool {
	switch t {
	case Memory, SQLite, Sheets:
		return true
	default:
		return false
	}
}

type CleanupFunc func() error

// Result carries the ledger and its optional teardown.
type Result struct {
	Ledger  ledger.Ledger
	Cleanup CleanupFunc
}

// Create builds the ledger selected by cfg.LedgerBackend.
func Create(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	t := Type(cfg.LedgerBackend)
	switch t {
	case Memory:
		logger.Info("using memory backend", log.FieldBackend, string(t))
		return &Result{Ledger: memory.New()}, nil

	case SQLite:
		return createSQLite(cfg, logger)

	case Sheets:
		cli, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("initialize sheets client: %w", err)
		}
		logger.Info("using sheets backend", log.FieldBackend, string(t))
		return &Result{Ledger: cli}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type %q", cfg.LedgerBackend)
	}
}

func createSQLite(cfg *config.Config, logger *log.Logger) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	// The queue is optional: without it, records stay pending until the
	// worker's periodic sweep.
	var queue services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without live sync", log.FieldError, err)
		} else {
			queue = client
		}
	}

	svc := services.NewRecordService(repo, queue)
	logger.Info("using sqlite backend",
		log.FieldBackend, string(SQLite),
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", queue != nil)

	return &Result{Ledger: svc, Cleanup: svc.Close}, nil
}
