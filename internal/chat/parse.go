package chat

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
)

var (
	amountRe = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
	dateRe   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	yearRe   = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)
)

var outflowVerbs = []string{"spent", "paid", "bought", "purchased"}

var inflowVerbs = []string{"received", "earned", "refunded", "got back"}

// statement is a message the parser understood as an expense to record.
type statement struct {
	record core.Record
}

// question is a "how much" query scoped to a year.
type question struct {
	year int
}

// parseStatement extracts a record from messages like
// "Spent $25.50 on lunch yesterday" or "received $100 for consulting on
// 2023-03-01". It returns false when the message carries no recordable
// expense.
func parseStatement(message string, now time.Time) (statement, bool) {
	lower := strings.ToLower(message)

	direction, ok := matchDirection(lower)
	if !ok {
		return statement{}, false
	}

	m := amountRe.FindStringSubmatch(message)
	if m == nil {
		return statement{}, false
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return statement{}, false
	}
	if direction == core.Outflow {
		amount = amount.Neg()
	}

	return statement{record: core.Record{
		Date:     parseWhen(lower, now),
		Amount:   amount,
		Category: parseCategory(message),
	}}, true
}

// parseQuestion recognizes "how much" queries, defaulting to the
// current year when no year is named.
func parseQuestion(message string, now time.Time) (question, bool) {
	lower := strings.ToLower(message)
	if !strings.Contains(lower, "how much") {
		return question{}, false
	}
	year := now.Year()
	if m := yearRe.FindStringSubmatch(lower); m != nil {
		year = atoiMust(m[1])
	}
	return question{year: year}, true
}

func matchDirection(lower string) (core.Direction, bool) {
	for _, v := range outflowVerbs {
		if strings.Contains(lower, v) {
			return core.Outflow, true
		}
	}
	for _, v := range inflowVerbs {
		if strings.Contains(lower, v) {
			return core.Inflow, true
		}
	}
	return "", false
}

func parseWhen(lower string, now time.Time) core.Date {
	if m := dateRe.FindStringSubmatch(lower); m != nil {
		if d := core.ParseDate(m[1]); d.Valid() {
			return d
		}
	}
	day := now.UTC()
	if strings.Contains(lower, "yesterday") {
		day = day.AddDate(0, 0, -1)
	}
	return core.NewDate(day.Year(), int(day.Month()), day.Day())
}

// parseCategory takes the words after "on" or "for", stopping at
// trailing time words and explicit dates.
func parseCategory(message string) string {
	words := strings.Fields(message)
	start := -1
	for i, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,!?"))
		if (lw == "on" || lw == "for") && i+1 < len(words) && !isTimeWord(words[i+1]) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return core.DefaultCategory
	}

	var parts []string
	for _, w := range words[start:] {
		lw := strings.ToLower(strings.Trim(w, ".,!?"))
		if isTimeWord(w) || (len(parts) > 0 && (lw == "on" || lw == "for")) {
			break
		}
		parts = append(parts, strings.Trim(w, ".,!?"))
	}
	if len(parts) == 0 {
		return core.DefaultCategory
	}
	return title(strings.Join(parts, " "))
}

func isTimeWord(w string) bool {
	trimmed := strings.Trim(w, ".,!?")
	lw := strings.ToLower(trimmed)
	return lw == "today" || lw == "yesterday" || dateRe.MatchString(trimmed)
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func atoiMust(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
