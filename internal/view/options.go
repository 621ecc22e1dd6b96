package view

import (
	"strconv"
	"time"
)

// periodWindow is how many selectable years the period dropdown offers:
// the current year plus the preceding five.
const periodWindow = 6

// ThisYearLabel marks the current year's option in the period list.
const ThisYearLabel = "This Year"

// PeriodOption is one selectable entry of the period window.
type PeriodOption struct {
	Label string
	Value string
}

// PeriodOptions derives the fixed period window from the given instant.
// It is a pure function: no state survives between calls, so callers may
// regenerate it on every render pass.
func PeriodOptions(now time.Time) []PeriodOption {
	current := now.UTC().Year()
	options := make([]PeriodOption, 0, periodWindow)
	for i := 0; i < periodWindow; i++ {
		year := strconv.Itoa(current - i)
		label := year
		if i == 0 {
			label = ThisYearLabel
		}
		options = append(options, PeriodOption{Label: label, Value: year})
	}
	return options
}

// ValidPeriod reports whether p names a year inside the window anchored
// at now. Only exact 4-digit year strings qualify.
func ValidPeriod(now time.Time, p string) bool {
	if len(p) != 4 {
		return false
	}
	year, err := strconv.Atoi(p)
	if err != nil {
		return false
	}
	current := now.UTC().Year()
	return year <= current && year > current-periodWindow
}

// CurrentPeriod returns the period value for the given instant.
func CurrentPeriod(now time.Time) string {
	return strconv.Itoa(now.UTC().Year())
}
