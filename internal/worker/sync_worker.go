// Package worker pushes records from SQLite to the spreadsheet. It
// reacts to queue messages and sweeps pending records on a timer as a
// backup for lost messages.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensetrack/internal/amqp"
	"expensetrack/internal/ledger"
	"expensetrack/internal/log"
	"expensetrack/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    ledger.Appender
	remover   ledger.Remover
	batchSize int
	logger    *log.Logger
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets ledger.Appender, remover ledger.Remover, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		remover:   remover,
		batchSize: batchSize,
		logger:    log.New(log.ComponentWorker, slog.LevelInfo),
	}
}

// HandleMessage dispatches one queue message.
func (w *SyncWorker) HandleMessage(ctx context.Context, msg *amqp.RecordMessage) error {
	switch msg.Op {
	case amqp.OpSync:
		return w.handleSync(ctx, msg)
	case amqp.OpDelete:
		return w.handleDelete(ctx, msg)
	default:
		return fmt.Errorf("unknown operation %q", msg.Op)
	}
}

func (w *SyncWorker) handleSync(ctx context.Context, msg *amqp.RecordMessage) error {
	stored, err := w.storage.GetRecord(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted between publish and consume. The delete message will
		// handle the spreadsheet side.
		w.logger.InfoContext(ctx, "record gone, skipping sync", log.FieldRecordID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load record %d: %w", msg.ID, err)
	}
	if stored.Version != msg.Version {
		w.logger.InfoContext(ctx, "stale sync message, skipping",
			log.FieldRecordID, msg.ID, "message_version", msg.Version, "stored_version", stored.Version)
		return nil
	}
	if stored.SyncStatus == storage.SyncSynced {
		return nil
	}

	return w.push(ctx, stored)
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.RecordMessage) error {
	if w.remover == nil {
		w.logger.WarnContext(ctx, "no spreadsheet remover configured, skipping delete", log.FieldRecordID, msg.ID)
		return nil
	}

	// The record is soft-deleted locally; its stored sheet_ref tells us
	// which spreadsheet row to drop. Records never synced have no ref
	// and nothing to remove.
	stored, err := w.storage.GetDeletedRecord(ctx, msg.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load deleted record %d: %w", msg.ID, err)
	}
	if stored.SheetRef == "" {
		return nil
	}

	if err := w.remover.Remove(ctx, stored.SheetRef); err != nil {
		return fmt.Errorf("remove spreadsheet row %q: %w", stored.SheetRef, err)
	}
	w.logger.InfoContext(ctx, "spreadsheet row removed",
		log.FieldRecordID, msg.ID, log.FieldSheet, stored.SheetRef)
	return nil
}

// ProcessPending sweeps records still marked pending. This is the
// backup path for messages the queue lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending records: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	w.logger.InfoContext(ctx, "processing pending records", log.FieldRecordCount, len(pending))
	for _, stored := range pending {
		if err := w.push(ctx, stored); err != nil {
			w.logger.ErrorContext(ctx, "pending record sync failed",
				log.FieldRecordID, stored.ID, log.FieldError, err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at boot to
// recover from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending records for startup check: %w", err)
	}
	if len(pending) == 0 {
		w.logger.InfoContext(ctx, "no pending records on startup")
		return nil
	}

	w.logger.InfoContext(ctx, "pending records found on startup", log.FieldRecordCount, len(pending))
	var failed int
	for _, stored := range pending {
		if err := w.push(ctx, stored); err != nil {
			w.logger.ErrorContext(ctx, "startup sync failed",
				log.FieldRecordID, stored.ID, log.FieldError, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("startup sync: %d of %d records failed", failed, len(pending))
	}
	return nil
}

// push writes one record to the spreadsheet and updates its sync state.
func (w *SyncWorker) push(ctx context.Context, stored storage.StoredRecord) error {
	ref, err := w.sheets.Append(ctx, stored.Record)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, stored.ID); markErr != nil {
			w.logger.ErrorContext(ctx, "mark sync error failed",
				log.FieldRecordID, stored.ID, log.FieldError, markErr)
		}
		return fmt.Errorf("append to spreadsheet: %w", err)
	}
	if err := w.storage.MarkSynced(ctx, stored.ID, ref); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}
