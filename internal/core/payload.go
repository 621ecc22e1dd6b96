// Package core holds the canonical expense record model shared by the
// client, the server and the storage adapters.
//
// This file is the single normalization point for the polymorphic backend
// payloads: field-name variants (amount/value, date/timestamp,
// category/topic) and number-or-string amounts are resolved here, exactly
// once, so no downstream code ever branches on payload shape again.
package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type recordPayload struct {
	Date      string          `json:"date"`
	Timestamp string          `json:"timestamp"`
	Amount    json.RawMessage `json:"amount"`
	Value     json.RawMessage `json:"value"`
	Category  string          `json:"category"`
	Topic     string          `json:"topic"`
}

type listEnvelope struct {
	Expenses []recordPayload `json:"expenses"`
}

// DecodeRecords parses an expense-list response body into canonical
// records. The body may be a bare JSON array or an {"expenses": [...]}
// envelope. Unparseable amounts degrade to zero and unparseable dates to
// the invalid Date; neither is an error.
func DecodeRecords(body []byte) ([]Record, error) {
	var payloads []recordPayload
	trimmed := bytes.TrimSpace(body)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, fmt.Errorf("decode expense list: %w", err)
		}
	} else {
		var env listEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, fmt.Errorf("decode expense envelope: %w", err)
		}
		payloads = env.Expenses
	}

	records := make([]Record, 0, len(payloads))
	for _, p := range payloads {
		records = append(records, p.normalize())
	}
	return records, nil
}

func (p recordPayload) normalize() Record {
	dateStr := p.Date
	if dateStr == "" {
		dateStr = p.Timestamp
	}

	raw := p.Amount
	if len(raw) == 0 {
		raw = p.Value
	}

	category := strings.TrimSpace(p.Category)
	if category == "" {
		category = strings.TrimSpace(p.Topic)
	}
	if category == "" {
		category = DefaultCategory
	}

	return Record{
		Date:     ParseDate(dateStr),
		Amount:   ParseAmount(raw),
		Category: category,
	}
}

// ParseAmount converts a raw JSON value (number, quoted string, or
// absent) into a decimal amount. Anything unparseable is zero.
func ParseAmount(raw json.RawMessage) decimal.Decimal {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
