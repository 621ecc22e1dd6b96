package ledger

import (
	"context"

	"expensetrack/internal/core"
)

// Ports for outbound record stores.
type (
	// Lister returns every record dated in the given year.
	Lister interface {
		List(ctx context.Context, year int) ([]core.Record, error)
	}

	// Appender stores a record and returns a backend-specific reference.
	Appender interface {
		Append(ctx context.Context, r core.Record) (ref string, err error)
	}

	// Remover deletes a record by its backend reference.
	Remover interface {
		Remove(ctx context.Context, ref string) error
	}
)

// Ledger is the full read-write surface the server needs.
type Ledger interface {
	Lister
	Appender
	Remover
}
