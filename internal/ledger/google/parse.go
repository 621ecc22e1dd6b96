package google

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
)

// recordToRow renders a record as a Date|Amount|Category row.
func recordToRow(r core.Record) []any {
	category := strings.TrimSpace(r.Category)
	if category == "" {
		category = core.DefaultCategory
	}
	return []any{r.Date.Format("2006-01-02"), r.Amount.String(), category}
}

// rowToRecord parses a sheet row. Rows that carry neither a usable date
// nor an amount are skipped; a bad date alone still yields a degraded
// record so the caller sees the row.
func rowToRecord(row []any) (core.Record, bool) {
	cols := toStrings(row)
	if len(cols) < 2 {
		return core.Record{}, false
	}

	date := core.ParseDate(cols[0])
	amount, amountErr := parseAmountCell(cols[1])
	if !date.Valid() && amountErr != nil {
		return core.Record{}, false
	}

	category := ""
	if len(cols) >= 3 {
		category = strings.TrimSpace(cols[2])
	}
	if category == "" {
		category = core.DefaultCategory
	}
	return core.Record{Date: date, Amount: amount, Category: category}, true
}

func parseAmountCell(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount cell")
	}
	return decimal.NewFromString(s)
}

func isHeader(row []any) bool {
	cols := toStrings(row)
	return len(cols) > 0 && strings.EqualFold(cols[0], "Date")
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
