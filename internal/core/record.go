package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCategory is assigned to records whose source payload carries
	// no category information.
	DefaultCategory = "General"

	Inflow  Direction = "inflow"
	Outflow Direction = "outflow"
)

type (
	// Direction classifies a record's amount sign for display purposes.
	Direction string

	// Date is a calendar date anchored at UTC midnight. The zero value
	// marks an unknown or unparseable date; such dates sort after every
	// valid date and render as "N/A".
	Date struct {
		time.Time
	}

	// Record is the canonical expense record, produced once at the
	// ingestion boundary. Negative amounts are outflows, non-negative
	// amounts are inflows or adjustments.
	Record struct {
		Date     Date
		Amount   decimal.Decimal
		Category string
	}
)

// NewDate creates a Date from a year, month, day triple.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a strict YYYY-MM-DD string. Any other input yields the
// zero (invalid) Date; callers never get a shifted day regardless of the
// local offset because the result is pinned to UTC.
func ParseDate(s string) Date {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return Date{}
	}
	return Date{Time: t}
}

// Valid reports whether the date carries a real calendar value.
func (d Date) Valid() bool {
	return !d.IsZero()
}

// Year returns the calendar year, or 0 for invalid dates.
func (d Date) Year() int {
	if !d.Valid() {
		return 0
	}
	return d.Time.Year()
}

// Before orders two dates; an invalid date is before every valid one so
// that descending sorts push it to the end.
func (d Date) Before(other Date) bool {
	if !d.Valid() {
		return other.Valid()
	}
	if !other.Valid() {
		return false
	}
	return d.Time.Before(other.Time)
}

// SortByDateDesc orders records newest-first in place. The sort is stable:
// records sharing a date keep their arrival order, and records with
// invalid dates end up last.
func SortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[j].Date.Before(records[i].Date)
	})
}

// Total sums the amounts of all records. Empty and nil inputs total zero,
// and the result does not depend on record order.
func Total(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Amount)
	}
	return total
}

// Classify maps an amount sign to its display direction: strictly
// negative is an outflow, everything else an inflow.
func Classify(amount decimal.Decimal) Direction {
	if amount.IsNegative() {
		return Outflow
	}
	return Inflow
}

// Direction of the record's amount.
func (r Record) Direction() Direction {
	return Classify(r.Amount)
}
