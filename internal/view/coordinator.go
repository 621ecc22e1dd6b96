package view

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"expensetrack/internal/core"
)

// Snapshot is the renderable state the presentation layer consumes. It is
// a plain value: rendering it performs no I/O and mutates nothing.
type Snapshot struct {
	InputDraft    string
	Chat          QueryState[string]
	Period        string
	PeriodOptions []PeriodOption
	Expenses      QueryState[[]core.Record]
	Total         decimal.Decimal
	RecordCount   int
}

// Coordinator composes the two controllers and the total aggregation into
// snapshots. The total is recomputed only when the expense state
// transitions to Success; the two panes otherwise never touch each other,
// so a failure in one leaves the other's state intact.
type Coordinator struct {
	Periods *PeriodController
	Chat    *ChatController

	clock func() time.Time

	mu    sync.Mutex
	total decimal.Decimal
	count int

	onChange func()
}

// NewCoordinator wires a coordinator over the given ports. The clock
// drives the period window; pass nil for time.Now.
func NewCoordinator(fetcher ExpenseFetcher, sender ChatSender, clock func() time.Time) *Coordinator {
	if clock == nil {
		clock = time.Now
	}
	co := &Coordinator{
		Periods: NewPeriodController(fetcher, clock),
		Chat:    NewChatController(sender),
		clock:   clock,
		total:   decimal.Zero,
	}
	co.Periods.SetOnChange(co.onPeriodsChange)
	co.Chat.SetOnChange(co.emit)
	return co
}

// SetOnChange registers a hook fired whenever any visible state changes.
// The presentation layer typically re-renders the snapshot from it.
func (co *Coordinator) SetOnChange(fn func()) {
	co.mu.Lock()
	co.onChange = fn
	co.mu.Unlock()
}

// onPeriodsChange keeps the derived total in step with the expense list.
func (co *Coordinator) onPeriodsChange() {
	state := co.Periods.State()
	co.mu.Lock()
	switch state.Phase {
	case Success:
		co.total = core.Total(state.Data)
		co.count = len(state.Data)
	case Failure:
		co.total = decimal.Zero
		co.count = 0
	}
	co.mu.Unlock()
	co.emit()
}

func (co *Coordinator) emit() {
	co.mu.Lock()
	fn := co.onChange
	co.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Snapshot assembles the current renderable state. The period options are
// regenerated from the clock on every call; they are derived, not stored.
func (co *Coordinator) Snapshot() Snapshot {
	expenses := co.Periods.State()
	co.mu.Lock()
	total, count := co.total, co.count
	co.mu.Unlock()

	return Snapshot{
		InputDraft:    co.Chat.Draft(),
		Chat:          co.Chat.State(),
		Period:        co.Periods.Period(),
		PeriodOptions: PeriodOptions(co.clock()),
		Expenses:      expenses,
		Total:         total,
		RecordCount:   count,
	}
}
