package view

import (
	"context"
	"sync"
	"time"

	"expensetrack/internal/core"
)

// ExpenseFetcher is the outbound port the period controller fetches
// through. The HTTP client satisfies it; tests substitute fakes.
type ExpenseFetcher interface {
	ListExpenses(ctx context.Context, year string) ([]core.Record, error)
}

// PeriodController owns the selected period and the expense-list query
// state. Every fetch captures a fresh sequence number; only the response
// matching the most recently issued number may mutate state, so a slow
// straggler from a superseded request can never clobber newer data or
// flip loading off at the wrong time.
type PeriodController struct {
	fetcher ExpenseFetcher
	clock   func() time.Time

	mu     sync.Mutex
	period string
	seq    uint64
	state  QueryState[[]core.Record]

	onChange func()
}

// NewPeriodController starts with the current year selected and an Idle
// state; no fetch is issued until SelectPeriod or Refresh.
func NewPeriodController(fetcher ExpenseFetcher, clock func() time.Time) *PeriodController {
	if clock == nil {
		clock = time.Now
	}
	c := &PeriodController{
		fetcher: fetcher,
		clock:   clock,
	}
	c.period = CurrentPeriod(clock())
	return c
}

// SetOnChange registers a hook fired after every visible state
// transition. Must be set before the first fetch.
func (c *PeriodController) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Period returns the currently selected period.
func (c *PeriodController) Period() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period
}

// State returns the current expense-list query state. The record slice is
// shared and must be treated as read-only by callers.
func (c *PeriodController) State() QueryState[[]core.Record] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SelectPeriod replaces the active period and restarts the fetch. Periods
// outside the allowed window are ignored entirely: no state change, no
// fetch.
func (c *PeriodController) SelectPeriod(ctx context.Context, period string) {
	if !ValidPeriod(c.clock(), period) {
		return
	}
	c.mu.Lock()
	c.period = period
	c.beginFetch(ctx)
	c.mu.Unlock()
	c.notify()
}

// Refresh re-issues a fetch for the selected period without changing the
// selection.
func (c *PeriodController) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.beginFetch(ctx)
	c.mu.Unlock()
	c.notify()
}

// beginFetch issues a new request with the lock held. Incrementing seq
// supersedes every in-flight request; their eventual resolutions fail the
// comparison in resolve and are dropped.
func (c *PeriodController) beginFetch(ctx context.Context) {
	c.seq++
	req := c.seq
	period := c.period
	c.state = QueryState[[]core.Record]{Phase: Loading}

	go func() {
		records, err := c.fetcher.ListExpenses(ctx, period)
		c.resolve(req, records, err)
	}()
}

// resolve is the comparison-and-discard step. A mismatched sequence
// number identifies a stale straggler: its result was computed but its
// effects are discarded without any transition.
func (c *PeriodController) resolve(req uint64, records []core.Record, err error) {
	c.mu.Lock()
	if req != c.seq {
		c.mu.Unlock()
		return
	}
	if err != nil {
		// The previous list is cleared rather than preserved so the
		// error banner never sits on top of stale-looking data.
		c.state = QueryState[[]core.Record]{Phase: Failure, Err: err.Error()}
	} else {
		core.SortByDateDesc(records)
		c.state = QueryState[[]core.Record]{Phase: Success, Data: records}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *PeriodController) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
