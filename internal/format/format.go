// Package format renders canonical record values as display strings.
// All functions are pure; every place an amount or date is shown goes
// through here so the rendering stays identical across panes.
package format

import (
	"strings"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
)

// MissingDate is rendered for records whose date never parsed.
const MissingDate = "N/A"

// Currency renders an amount as fixed two-decimal dollar text with
// thousands grouping, e.g. "$1,234.50". Zero renders as "$0.00"; a
// negative input keeps its sign ("-$25.50").
func Currency(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	s := amount.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(s, ".")
	out := "$" + groupThousands(intPart) + "." + fracPart
	if neg {
		return "-" + out
	}
	return out
}

// SignedCurrency renders an amount the way the expense table shows it: a
// leading minus for outflows, plain for inflows, always the absolute
// value after the sign.
func SignedCurrency(amount decimal.Decimal) string {
	if core.Classify(amount) == core.Outflow {
		return "-" + Currency(amount.Abs())
	}
	return Currency(amount)
}

// Date renders a calendar date in the short "Mar 1, 2023" form. Invalid
// dates render as MissingDate. The output never shifts by a day because
// Date values are UTC-anchored.
func Date(d core.Date) string {
	if !d.Valid() {
		return MissingDate
	}
	return d.Format("Jan 2, 2006")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
