package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetrack/internal/core"
)

// testClock pins the period window to 2025 so the allowed years are
// 2020 through 2025 regardless of when the tests run.
func testClock() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

type fetchResult struct {
	records []core.Record
	err     error
}

// gatedFetcher hands each incoming fetch to the test through calls and
// blocks until the test resolves it, so resolution order is scripted.
type gatedFetcher struct {
	calls chan *gatedCall
}

type gatedCall struct {
	year string
	done chan fetchResult
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{calls: make(chan *gatedCall, 16)}
}

func (f *gatedFetcher) ListExpenses(_ context.Context, year string) ([]core.Record, error) {
	c := &gatedCall{year: year, done: make(chan fetchResult, 1)}
	f.calls <- c
	res := <-c.done
	return res.records, res.err
}

func (f *gatedFetcher) nextCall(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case c := <-f.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch")
		return nil
	}
}

func record(date, amount, category string) core.Record {
	return core.Record{
		Date:     core.ParseDate(date),
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
}

func TestSelectPeriodFetchesAndSorts(t *testing.T) {
	fetcher := newGatedFetcher()
	c := NewPeriodController(fetcher, testClock)

	c.SelectPeriod(context.Background(), "2023")
	assert.True(t, c.State().IsLoading())

	call := fetcher.nextCall(t)
	assert.Equal(t, "2023", call.year)
	call.done <- fetchResult{records: []core.Record{
		record("2023-01-10", "-10", "Food"),
		record("2023-03-01", "-25.5", "Food"),
	}}

	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	state := c.State()
	require.Len(t, state.Data, 2)
	assert.Equal(t, "Mar", state.Data[0].Date.Format("Jan"))
	assert.Equal(t, "Jan", state.Data[1].Date.Format("Jan"))
}

func TestSelectPeriodRejectsInvalidValues(t *testing.T) {
	fetcher := newGatedFetcher()
	c := NewPeriodController(fetcher, testClock)

	for _, bad := range []string{"", "23", "20233", "abcd", "2019", "2026"} {
		c.SelectPeriod(context.Background(), bad)
	}

	assert.Equal(t, "2025", c.Period())
	assert.Equal(t, Idle, c.State().Phase)
	select {
	case <-fetcher.calls:
		t.Fatal("invalid period must not issue a fetch")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	fetcher := newGatedFetcher()
	c := NewPeriodController(fetcher, testClock)

	// Request A for 2022, then request B for 2023 before A resolves.
	c.SelectPeriod(context.Background(), "2022")
	callA := fetcher.nextCall(t)
	c.SelectPeriod(context.Background(), "2023")
	callB := fetcher.nextCall(t)

	// B resolves first and becomes visible.
	callB.done <- fetchResult{records: []core.Record{record("2023-03-01", "-25.5", "Food")}}
	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	// A resolves late; its data must be dropped silently.
	callA.done <- fetchResult{records: []core.Record{record("2022-07-04", "-99", "Stale")}}
	time.Sleep(100 * time.Millisecond)

	state := c.State()
	require.Equal(t, Success, state.Phase)
	require.Len(t, state.Data, 1)
	assert.Equal(t, "Food", state.Data[0].Category)
	assert.Equal(t, "2023", c.Period())
}

func TestRefreshSupersedesInFlightFetch(t *testing.T) {
	fetcher := newGatedFetcher()
	c := NewPeriodController(fetcher, testClock)

	c.SelectPeriod(context.Background(), "2024")
	first := fetcher.nextCall(t)
	c.Refresh(context.Background())
	second := fetcher.nextCall(t)

	second.done <- fetchResult{records: []core.Record{record("2024-02-02", "-1", "Fresh")}}
	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	// The superseded fetch fails; the failure must not surface.
	first.done <- fetchResult{err: errors.New("late failure")}
	time.Sleep(100 * time.Millisecond)

	state := c.State()
	assert.Equal(t, Success, state.Phase)
	assert.Empty(t, state.Err)
}

func TestFailureClearsPreviousList(t *testing.T) {
	fetcher := newGatedFetcher()
	c := NewPeriodController(fetcher, testClock)

	c.SelectPeriod(context.Background(), "2023")
	fetcher.nextCall(t).done <- fetchResult{records: []core.Record{record("2023-03-01", "-25.5", "Food")}}
	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	c.Refresh(context.Background())
	fetcher.nextCall(t).done <- fetchResult{err: errors.New("backend returned status 404")}
	require.Eventually(t, func() bool {
		return c.State().Phase == Failure
	}, 2*time.Second, 5*time.Millisecond)

	state := c.State()
	assert.Empty(t, state.Data, "stale data must not linger under the error banner")
	assert.Contains(t, state.Err, "404")
}

func TestPeriodOptionsWindow(t *testing.T) {
	options := PeriodOptions(testClock())
	require.Len(t, options, 6)
	assert.Equal(t, PeriodOption{Label: ThisYearLabel, Value: "2025"}, options[0])
	assert.Equal(t, PeriodOption{Label: "2024", Value: "2024"}, options[1])
	assert.Equal(t, PeriodOption{Label: "2020", Value: "2020"}, options[5])
}

func TestValidPeriod(t *testing.T) {
	now := testClock()
	for _, ok := range []string{"2025", "2024", "2020"} {
		assert.True(t, ValidPeriod(now, ok), ok)
	}
	for _, bad := range []string{"2019", "2026", "25", "", "two5"} {
		assert.False(t, ValidPeriod(now, bad), bad)
	}
}
