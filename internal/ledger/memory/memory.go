// Package memory is an in-process record store used for local
// development and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetrack/internal/core"
)

type item struct {
	ref    string
	record core.Record
}

type Store struct {
	mu    sync.Mutex
	next  int
	items []item
}

func New() *Store {
	return &Store{}
}

// NewSeeded creates a store pre-populated with records. Invalid dates
// are kept as-is so degraded rows flow through like any other backend.
func NewSeeded(records []core.Record) *Store {
	s := New()
	for _, r := range records {
		s.Append(context.Background(), r)
	}
	return s
}

// Append stores the record and returns a synthetic reference.
func (s *Store) Append(_ context.Context, r core.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	ref := fmt.Sprintf("mem:%d", s.next)
	s.items = append(s.items, item{ref: ref, record: r})
	return ref, nil
}

// List returns records dated in the given year, in insertion order.
func (s *Store) List(_ context.Context, year int) ([]core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Record
	for _, it := range s.items {
		if it.record.Date.Valid() && it.record.Date.Year() == year {
			out = append(out, it.record)
		}
	}
	return out, nil
}

// Remove deletes the record with the given reference. Unknown refs are
// a no-op.
func (s *Store) Remove(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ref == ref {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return nil
}
