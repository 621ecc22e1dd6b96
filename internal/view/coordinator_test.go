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

func TestCoordinatorComputesTotalOnSuccess(t *testing.T) {
	fetcher := newGatedFetcher()
	sender := newGatedSender()
	co := NewCoordinator(fetcher, sender, testClock)

	co.Periods.SelectPeriod(context.Background(), "2023")
	fetcher.nextCall(t).done <- fetchResult{records: []core.Record{
		record("2023-03-01", "-25.5", "Food"),
		record("2023-01-10", "-10", "Food"),
	}}

	require.Eventually(t, func() bool {
		return co.Snapshot().Expenses.Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	snap := co.Snapshot()
	assert.True(t, snap.Total.Equal(decimal.RequireFromString("-35.5")), "total = %s", snap.Total)
	assert.Equal(t, 2, snap.RecordCount)
	assert.Equal(t, "2023", snap.Period)
	require.Len(t, snap.Expenses.Data, 2)
	assert.Equal(t, "Mar 1, 2023", snap.Expenses.Data[0].Date.Format("Jan 2, 2006"))
	assert.Equal(t, "Jan 10, 2023", snap.Expenses.Data[1].Date.Format("Jan 2, 2006"))
}

func TestCoordinatorClearsTotalOnFailure(t *testing.T) {
	fetcher := newGatedFetcher()
	co := NewCoordinator(fetcher, newGatedSender(), testClock)

	co.Periods.SelectPeriod(context.Background(), "2023")
	fetcher.nextCall(t).done <- fetchResult{records: []core.Record{record("2023-03-01", "-25.5", "Food")}}
	require.Eventually(t, func() bool {
		return co.Snapshot().Expenses.Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	co.Periods.Refresh(context.Background())
	fetcher.nextCall(t).done <- fetchResult{err: errors.New("backend returned status 404")}
	require.Eventually(t, func() bool {
		return co.Snapshot().Expenses.Phase == Failure
	}, 2*time.Second, 5*time.Millisecond)

	snap := co.Snapshot()
	assert.True(t, snap.Total.IsZero())
	assert.Equal(t, 0, snap.RecordCount)
	assert.Empty(t, snap.Expenses.Data)
}

func TestPanesFailIndependently(t *testing.T) {
	fetcher := newGatedFetcher()
	sender := newGatedSender()
	co := NewCoordinator(fetcher, sender, testClock)

	co.Periods.SelectPeriod(context.Background(), "2023")
	fetcher.nextCall(t).done <- fetchResult{records: []core.Record{record("2023-03-01", "-25.5", "Food")}}
	require.Eventually(t, func() bool {
		return co.Snapshot().Expenses.Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	co.Chat.SetDraft("hello")
	co.Chat.Submit(context.Background())
	sender.nextCall(t).done <- chatResult{err: errors.New("backend returned status 500")}
	require.Eventually(t, func() bool {
		return co.Snapshot().Chat.Phase == Failure
	}, 2*time.Second, 5*time.Millisecond)

	snap := co.Snapshot()
	assert.Equal(t, Success, snap.Expenses.Phase, "chat failure must not disturb the expense pane")
	assert.Equal(t, 1, snap.RecordCount)
}

func TestSnapshotRegeneratesPeriodOptions(t *testing.T) {
	co := NewCoordinator(newGatedFetcher(), newGatedSender(), testClock)

	first := co.Snapshot().PeriodOptions
	second := co.Snapshot().PeriodOptions
	require.Len(t, first, 6)
	assert.Equal(t, first, second)
	assert.Equal(t, ThisYearLabel, first[0].Label)
}

func TestCoordinatorOnChangeFires(t *testing.T) {
	fetcher := newGatedFetcher()
	co := NewCoordinator(fetcher, newGatedSender(), testClock)

	changes := make(chan struct{}, 32)
	co.SetOnChange(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	co.Periods.SelectPeriod(context.Background(), "2024")
	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification for the loading transition")
	}

	fetcher.nextCall(t).done <- fetchResult{records: nil}
	require.Eventually(t, func() bool {
		return co.Snapshot().Expenses.Phase == Success
	}, 2*time.Second, 5*time.Millisecond)
}
