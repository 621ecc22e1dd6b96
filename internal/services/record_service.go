// Package services orchestrates record operations across SQLite and the
// sync queue for the sqlite backend.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"expensetrack/internal/core"
	"expensetrack/internal/log"
	"expensetrack/internal/storage"
)

// Publisher is the queue surface the service needs. Nil is allowed:
// without a queue, records stay pending until the worker's periodic
// scan picks them up.
type Publisher interface {
	PublishRecordSync(ctx context.Context, id, version int64) error
	PublishRecordDelete(ctx context.Context, id, version int64) error
}

// RecordService writes to SQLite first and notifies the sync worker
// asynchronously. A publish failure never fails the request: the record
// is durable locally and will be swept later.
type RecordService struct {
	storage *storage.SQLiteRepository
	queue   Publisher
	logger  *log.Logger
}

func NewRecordService(storage *storage.SQLiteRepository, queue Publisher) *RecordService {
	return &RecordService{
		storage: storage,
		queue:   queue,
		logger:  log.New(log.ComponentLedger, slog.LevelInfo),
	}
}

// Append implements ledger.Appender.
func (s *RecordService) Append(ctx context.Context, r core.Record) (string, error) {
	ref, err := s.storage.Append(ctx, r)
	if err != nil {
		return "", fmt.Errorf("save record: %w", err)
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		s.logger.ErrorContext(ctx, "unparseable record ref", log.FieldRecordID, ref, log.FieldError, err)
		return ref, nil
	}
	if s.queue != nil {
		if err := s.queue.PublishRecordSync(ctx, id, 1); err != nil {
			s.logger.ErrorContext(ctx, "sync publish failed, record stays pending",
				log.FieldRecordID, id, log.FieldError, err)
		}
	}
	return ref, nil
}

// List implements ledger.Lister.
func (s *RecordService) List(ctx context.Context, year int) ([]core.Record, error) {
	return s.storage.List(ctx, year)
}

// Remove implements ledger.Remover. The ref is the record id as
// returned by Append.
func (s *RecordService) Remove(ctx context.Context, ref string) error {
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record ref %q: %w", ref, err)
	}

	deleted, err := s.storage.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("soft delete record: %w", err)
	}

	if s.queue != nil {
		if err := s.queue.PublishRecordDelete(ctx, id, deleted.Version+1); err != nil {
			s.logger.ErrorContext(ctx, "delete publish failed",
				log.FieldRecordID, id, log.FieldError, err)
		}
	}
	return nil
}

// Close releases storage and queue connections.
func (s *RecordService) Close() error {
	var errs []error
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if closer, ok := s.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("queue: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}
	return nil
}
