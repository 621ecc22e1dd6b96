// Package chat turns free-form messages into ledger operations. The
// parser is rule-based: expense statements are recorded, "how much"
// questions are answered from ledger totals, anything else gets the
// fallback reply.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"expensetrack/internal/core"
	"expensetrack/internal/format"
	"expensetrack/internal/ledger"
	"expensetrack/internal/log"
)

// FallbackReply is sent when a message is neither a recordable expense
// nor a question the service can answer.
const FallbackReply = `I can record expenses like "spent $12.50 on lunch yesterday" or answer questions like "how much did I spend in 2023?"`

// Store is the ledger surface the chat service needs.
type Store interface {
	ledger.Lister
	ledger.Appender
}

// Result is a chat turn's outcome. Recorded carries any records the
// message produced so callers can invalidate per-year caches.
type Result struct {
	Reply    string
	Recorded []core.Record
}

type Service struct {
	store  Store
	clock  func() time.Time
	logger *log.Logger
}

func NewService(store Store) *Service {
	return &Service{
		store:  store,
		clock:  time.Now,
		logger: log.New(log.ComponentChat, slog.LevelInfo),
	}
}

// Reply handles one message: record, answer, or fall back.
func (s *Service) Reply(ctx context.Context, message string) (Result, error) {
	now := s.clock()

	if st, ok := parseStatement(message, now); ok {
		ref, err := s.store.Append(ctx, st.record)
		if err != nil {
			return Result{}, fmt.Errorf("record expense: %w", err)
		}
		s.logger.InfoContext(ctx, "expense recorded from chat",
			log.FieldRecordID, ref,
			log.FieldAmount, st.record.Amount.String(),
			log.FieldCategory, st.record.Category)
		return Result{
			Reply:    statementReply(st.record),
			Recorded: []core.Record{st.record},
		}, nil
	}

	if q, ok := parseQuestion(message, now); ok {
		records, err := s.store.List(ctx, q.year)
		if err != nil {
			return Result{}, fmt.Errorf("list year %d: %w", q.year, err)
		}
		return Result{Reply: questionReply(q.year, records)}, nil
	}

	return Result{Reply: FallbackReply}, nil
}

// Parse extracts a record from a message without touching the ledger.
// The second return is false when the message is not an expense
// statement.
func (s *Service) Parse(message string) (core.Record, bool) {
	st, ok := parseStatement(message, s.clock())
	return st.record, ok
}

func statementReply(r core.Record) string {
	verb := "Recorded"
	if r.Direction() == core.Inflow {
		verb = "Added"
	}
	return fmt.Sprintf("%s %s on %s for %s.",
		verb, format.SignedCurrency(r.Amount), r.Category, format.Date(r.Date))
}

func questionReply(year int, records []core.Record) string {
	total := core.Total(records)
	if len(records) == 0 {
		return fmt.Sprintf("No expenses recorded for %d yet.", year)
	}
	return fmt.Sprintf("You have %d records totaling %s in %d.",
		len(records), format.Currency(total), year)
}
