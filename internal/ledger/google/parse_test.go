package google

import (
	"testing"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
)

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRowToRecord(t *testing.T) {
	tests := []struct {
		name         string
		row          []any
		wantOK       bool
		wantDate     string
		wantAmount   string
		wantCategory string
	}{
		{
			name:         "plain row",
			row:          []any{"2023-03-01", "-12.50", "Food"},
			wantOK:       true,
			wantDate:     "2023-03-01",
			wantAmount:   "-12.5",
			wantCategory: "Food",
		},
		{
			name:         "numeric amount cell",
			row:          []any{"2023-03-01", 48.0, "Rent"},
			wantOK:       true,
			wantDate:     "2023-03-01",
			wantAmount:   "48",
			wantCategory: "Rent",
		},
		{
			name:         "currency formatted amount",
			row:          []any{"2023-03-01", "$1,234.50", "Travel"},
			wantOK:       true,
			wantDate:     "2023-03-01",
			wantAmount:   "1234.5",
			wantCategory: "Travel",
		},
		{
			name:         "missing category falls back",
			row:          []any{"2023-03-01", "5.00"},
			wantOK:       true,
			wantDate:     "2023-03-01",
			wantAmount:   "5",
			wantCategory: core.DefaultCategory,
		},
		{
			name:         "bad date keeps the row degraded",
			row:          []any{"not-a-date", "5.00", "Food"},
			wantOK:       true,
			wantAmount:   "5",
			wantCategory: "Food",
		},
		{
			name:   "unusable row is skipped",
			row:    []any{"garbage", "also garbage"},
			wantOK: false,
		},
		{
			name:   "too few columns",
			row:    []any{"2023-03-01"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := rowToRecord(tt.row)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if tt.wantDate != "" {
				if !r.Date.Valid() || r.Date.Format("2006-01-02") != tt.wantDate {
					t.Fatalf("date = %v, want %s", r.Date, tt.wantDate)
				}
			} else if r.Date.Valid() {
				t.Fatalf("expected invalid date, got %v", r.Date)
			}
			if r.Amount.String() != tt.wantAmount {
				t.Fatalf("amount = %s, want %s", r.Amount, tt.wantAmount)
			}
			if r.Category != tt.wantCategory {
				t.Fatalf("category = %q, want %q", r.Category, tt.wantCategory)
			}
		})
	}
}

func TestRecordToRow(t *testing.T) {
	d := core.ParseDate("2023-01-10")
	row := recordToRow(core.Record{Date: d, Amount: mustDecimal("-25.50"), Category: ""})
	if got := row[0].(string); got != "2023-01-10" {
		t.Fatalf("date cell = %q", got)
	}
	if got := row[1].(string); got != "-25.5" {
		t.Fatalf("amount cell = %q", got)
	}
	if got := row[2].(string); got != core.DefaultCategory {
		t.Fatalf("category cell = %q", got)
	}
}

func TestParseRef(t *testing.T) {
	sheet, row, err := parseRef("Expense_2023!A5:C5")
	if err != nil {
		t.Fatalf("parseRef: %v", err)
	}
	if sheet != "Expense_2023" || row != 5 {
		t.Fatalf("got %q row %d", sheet, row)
	}

	if _, _, err := parseRef("no-separator"); err == nil {
		t.Fatal("expected error for malformed ref")
	}
	if _, _, err := parseRef("Expense_2023!ABC"); err == nil {
		t.Fatal("expected error for ref without row number")
	}
}

func TestSheetName(t *testing.T) {
	if got := SheetName(2023); got != "Expense_2023" {
		t.Fatalf("SheetName = %q", got)
	}
}
