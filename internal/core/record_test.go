package core

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"2023-03-01", true},
		{"2023-12-31", true},
		{"2023-13-01", false},
		{"2023-3-1", false},
		{"03/01/2023", false},
		{"", false},
		{"not a date", false},
	}
	for _, tc := range cases {
		d := ParseDate(tc.in)
		if d.Valid() != tc.valid {
			t.Fatalf("ParseDate(%q).Valid() = %v, want %v", tc.in, d.Valid(), tc.valid)
		}
	}

	d := ParseDate("2023-03-01")
	if y, m, day := d.Date(); y != 2023 || int(m) != 3 || day != 1 {
		t.Fatalf("ParseDate(2023-03-01) = %d-%d-%d", y, m, day)
	}
	if d.Location() != nil && d.Location().String() != "UTC" {
		t.Fatalf("parsed date not UTC anchored: %v", d.Location())
	}
}

func TestSortByDateDesc(t *testing.T) {
	records := []Record{
		{Date: ParseDate("2023-01-10"), Category: "a"},
		{Date: Date{}, Category: "bad-1"},
		{Date: ParseDate("2023-03-01"), Category: "b"},
		{Date: ParseDate("2023-01-10"), Category: "c"},
		{Date: Date{}, Category: "bad-2"},
	}
	SortByDateDesc(records)

	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.Category
	}
	want := []string{"b", "a", "c", "bad-1", "bad-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order %v, want %v", got, want)
		}
	}
}

func TestTotal(t *testing.T) {
	if !Total(nil).IsZero() {
		t.Fatal("Total(nil) must be zero")
	}
	if !Total([]Record{}).IsZero() {
		t.Fatal("Total([]) must be zero")
	}

	records := []Record{
		{Amount: decimal.RequireFromString("-25.5")},
		{Amount: decimal.RequireFromString("-10")},
	}
	if got := Total(records); !got.Equal(decimal.RequireFromString("-35.5")) {
		t.Fatalf("Total = %s, want -35.5", got)
	}
}

func TestTotalPermutationInvariance(t *testing.T) {
	records := []Record{
		{Amount: decimal.RequireFromString("-25.5")},
		{Amount: decimal.RequireFromString("100")},
		{Amount: decimal.RequireFromString("-0.01")},
		{Amount: decimal.RequireFromString("3.33")},
	}
	want := Total(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(records), func(a, b int) {
			records[a], records[b] = records[b], records[a]
		})
		if got := Total(records); !got.Equal(want) {
			t.Fatalf("Total changed under permutation: %s != %s", got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
	}{
		{"-25.5", Outflow},
		{"-0.01", Outflow},
		{"0", Inflow},
		{"10", Inflow},
	}
	for _, tc := range cases {
		if got := Classify(decimal.RequireFromString(tc.in)); got != tc.want {
			t.Fatalf("Classify(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDecodeRecordsBareArray(t *testing.T) {
	body := []byte(`[
		{"date":"2023-03-01","amount":-25.5,"category":"Food"},
		{"date":"2023-01-10","amount":-10,"category":"Food"}
	]`)
	records, err := DecodeRecords(body)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if !records[0].Amount.Equal(decimal.RequireFromString("-25.5")) {
		t.Fatalf("amount = %s", records[0].Amount)
	}
	if records[0].Category != "Food" {
		t.Fatalf("category = %q", records[0].Category)
	}
}

func TestDecodeRecordsEnvelope(t *testing.T) {
	body := []byte(`{"expenses":[{"timestamp":"2024-06-05","value":"12.75","topic":"Travel"}]}`)
	records, err := DecodeRecords(body)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if !r.Date.Valid() || r.Date.Year() != 2024 {
		t.Fatalf("timestamp variant not normalized: %+v", r.Date)
	}
	if !r.Amount.Equal(decimal.RequireFromString("12.75")) {
		t.Fatalf("value variant not normalized: %s", r.Amount)
	}
	if r.Category != "Travel" {
		t.Fatalf("topic variant not normalized: %q", r.Category)
	}
}

func TestDecodeRecordsDegradedFields(t *testing.T) {
	body := []byte(`[{"date":"garbage","amount":"not-a-number"}]`)
	records, err := DecodeRecords(body)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	r := records[0]
	if r.Date.Valid() {
		t.Fatal("garbage date must be invalid, not an error")
	}
	if !r.Amount.IsZero() {
		t.Fatalf("garbage amount must degrade to zero, got %s", r.Amount)
	}
	if r.Category != DefaultCategory {
		t.Fatalf("missing category must default to %q, got %q", DefaultCategory, r.Category)
	}
}

func TestDecodeRecordsMalformedBody(t *testing.T) {
	if _, err := DecodeRecords([]byte(`{"expenses": 12}`)); err == nil {
		t.Fatal("expected error for malformed envelope")
	}
	if _, err := DecodeRecords([]byte(`[{]`)); err == nil {
		t.Fatal("expected error for malformed array")
	}
}

func TestParseAmountVariants(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`-25.5`, "-25.5"},
		{`"-25.5"`, "-25.5"},
		{`0`, "0"},
		{`null`, "0"},
		{``, "0"},
		{`"abc"`, "0"},
	}
	for _, tc := range cases {
		got := ParseAmount(json.RawMessage(tc.in))
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
