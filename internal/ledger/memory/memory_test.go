package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
	"expensetrack/internal/ledger"
)

var _ ledger.Ledger = (*Store)(nil)

func record(date string, amount string) core.Record {
	d := core.ParseDate(date)
	return core.Record{Date: d, Amount: decimal.RequireFromString(amount), Category: "Food"}
}

func TestAppendAndList(t *testing.T) {
	s := New()
	ctx := context.Background()

	ref, err := s.Append(ctx, record("2023-01-10", "12.50"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q", ref)
	}
	s.Append(ctx, record("2023-03-01", "48.00"))
	s.Append(ctx, record("2024-06-15", "9.99"))

	got, err := s.List(ctx, 2023)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}

func TestListFiltersInvalidDates(t *testing.T) {
	s := NewSeeded([]core.Record{
		record("2023-01-10", "12.50"),
		{Amount: decimal.RequireFromString("5.00")},
	})

	got, err := s.List(context.Background(), 2023)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
}

func TestRemove(t *testing.T) {
	s := New()
	ctx := context.Background()
	ref, _ := s.Append(ctx, record("2023-01-10", "12.50"))

	if err := s.Remove(ctx, ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	got, _ := s.List(ctx, 2023)
	if len(got) != 0 {
		t.Fatalf("got %d records after remove, want 0", len(got))
	}

	if err := s.Remove(ctx, "mem:999"); err != nil {
		t.Fatalf("Remove unknown ref: %v", err)
	}
}
