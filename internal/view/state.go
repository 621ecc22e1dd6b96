// Package view implements the two-pane view-state synchronization
// engine: a period-scoped expense list with derived totals on one side
// and a tracked chat submission cycle on the other. Controllers are safe
// for concurrent use; ordering between overlapping fetches is enforced by
// per-controller request sequence numbers, not by cancellation.
package view

// Phase is the lifecycle tag of a query.
type Phase int

const (
	Idle Phase = iota
	Loading
	Success
	Failure
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failure:
		return "failure"
	}
	return "unknown"
}

// QueryState is a tagged variant over Idle / Loading / Success(T) /
// Failure(reason). Data is meaningful only in the Success phase and Err
// only in the Failure phase.
type QueryState[T any] struct {
	Phase Phase
	Data  T
	Err   string
}

// IsLoading reports whether a request is outstanding.
func (s QueryState[T]) IsLoading() bool {
	return s.Phase == Loading
}
