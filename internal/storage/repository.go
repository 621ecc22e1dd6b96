// Package storage is the durable SQLite record store behind the sqlite
// backend. Writes land here first; a worker syncs them to the
// spreadsheet asynchronously.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
	"expensetrack/internal/log"

	_ "modernc.org/sqlite"
)

// Sync states a record moves through.
const (
	SyncPending = "pending"
	SyncSynced  = "synced"
	SyncError   = "error"
)

// ErrNotFound is returned when a record id does not exist or has been
// deleted.
var ErrNotFound = errors.New("record not found")

type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
}

// StoredRecord is a row with its bookkeeping columns.
type StoredRecord struct {
	ID         int64
	Record     core.Record
	Version    int64
	SyncStatus string
	SheetRef   string
	CreatedAt  time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: log.New(log.ComponentStorage, slog.LevelInfo),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Append stores a record as pending sync and returns its id.
func (r *SQLiteRepository) Append(ctx context.Context, rec core.Record) (string, error) {
	category := rec.Category
	if category == "" {
		category = core.DefaultCategory
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (date, amount, category) VALUES (?, ?, ?)`,
		dateColumn(rec.Date), rec.Amount.String(), category)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("read inserted id: %w", err)
	}

	r.logger.InfoContext(ctx, "record saved",
		log.FieldRecordID, id,
		log.FieldAmount, rec.Amount.String(),
		log.FieldCategory, category)

	return strconv.FormatInt(id, 10), nil
}

// List returns live records dated in the given year, including rows
// whose date column failed to parse at write time.
func (r *SQLiteRepository) List(ctx context.Context, year int) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, amount, category FROM records
		 WHERE deleted_at IS NULL AND date LIKE ? ORDER BY date DESC, id DESC`,
		fmt.Sprintf("%04d-%%", year))
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		var dateStr, amountStr, category string
		if err := rows.Scan(&dateStr, &amountStr, &category); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, rowRecord(dateStr, amountStr, category))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// GetRecord loads a single live record by id.
func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (StoredRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount, category, version, sync_status, sheet_ref, created_at
		 FROM records WHERE id = ? AND deleted_at IS NULL`, id)

	var (
		sr                      StoredRecord
		dateStr, amountStr, cat string
	)
	err := row.Scan(&sr.ID, &dateStr, &amountStr, &cat, &sr.Version, &sr.SyncStatus, &sr.SheetRef, &sr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, fmt.Errorf("get record %d: %w", id, err)
	}
	sr.Record = rowRecord(dateStr, amountStr, cat)
	return sr, nil
}

// GetDeletedRecord loads a soft-deleted record by id, giving the sync
// worker access to the sheet_ref of rows hidden from listings.
func (r *SQLiteRepository) GetDeletedRecord(ctx context.Context, id int64) (StoredRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount, category, version, sync_status, sheet_ref, created_at
		 FROM records WHERE id = ? AND deleted_at IS NOT NULL`, id)

	var (
		sr                      StoredRecord
		dateStr, amountStr, cat string
	)
	err := row.Scan(&sr.ID, &dateStr, &amountStr, &cat, &sr.Version, &sr.SyncStatus, &sr.SheetRef, &sr.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredRecord{}, ErrNotFound
	}
	if err != nil {
		return StoredRecord{}, fmt.Errorf("get deleted record %d: %w", id, err)
	}
	sr.Record = rowRecord(dateStr, amountStr, cat)
	return sr, nil
}

// GetPendingSync returns records still waiting to be pushed to the
// spreadsheet, oldest first.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]StoredRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, category, version, sync_status, sheet_ref, created_at
		 FROM records WHERE sync_status = ? AND deleted_at IS NULL
		 ORDER BY created_at ASC LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var (
			sr                      StoredRecord
			dateStr, amountStr, cat string
		)
		if err := rows.Scan(&sr.ID, &dateStr, &amountStr, &cat, &sr.Version, &sr.SyncStatus, &sr.SheetRef, &sr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending record: %w", err)
		}
		sr.Record = rowRecord(dateStr, amountStr, cat)
		out = append(out, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending records: %w", err)
	}
	return out, nil
}

// MarkSynced records a successful spreadsheet push and the row
// reference it produced.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64, sheetRef string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ?, sheet_ref = ? WHERE id = ?`,
		SyncSynced, sheetRef, id); err != nil {
		return fmt.Errorf("mark record synced: %w", err)
	}
	r.logger.InfoContext(ctx, "record marked synced", log.FieldRecordID, id, log.FieldSheet, sheetRef)
	return nil
}

// MarkSyncError flags a record whose spreadsheet push failed.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ? WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark record sync error: %w", err)
	}
	return nil
}

// SoftDelete hides a record from listings and bumps its version so a
// stale sync message for the old version is ignored.
func (r *SQLiteRepository) SoftDelete(ctx context.Context, id int64) (StoredRecord, error) {
	sr, err := r.GetRecord(ctx, id)
	if err != nil {
		return StoredRecord{}, err
	}
	if _, err := r.db.ExecContext(ctx,
		`UPDATE records SET deleted_at = CURRENT_TIMESTAMP, version = version + 1 WHERE id = ?`,
		id); err != nil {
		return StoredRecord{}, fmt.Errorf("soft delete record %d: %w", id, err)
	}
	r.logger.InfoContext(ctx, "record soft deleted", log.FieldRecordID, id)
	return sr, nil
}

func dateColumn(d core.Date) string {
	if !d.Valid() {
		return ""
	}
	return d.Format("2006-01-02")
}

func rowRecord(dateStr, amountStr, category string) core.Record {
	date := core.ParseDate(dateStr)
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		amount = decimal.Zero
	}
	if category == "" {
		category = core.DefaultCategory
	}
	return core.Record{Date: date, Amount: amount, Category: category}
}
