/*
store.go - Cache interface for the roster service

PURPOSE:
  The service keeps the last fetched roster and the derived records of each
  calculation run so the API can answer without re-fetching the feed.

NOT DURABLE:
  Implementations live in process memory (store.Memory, or sqlite opened as
  :memory:). A restart starts from an empty cache and the first refresh
  fills it again.

IMPLEMENTATIONS:
  - store/memory.go:        maps guarded by a RWMutex
  - store/sqlite/sqlite.go: in-memory SQLite, queryable with SQL

CONVENTIONS:
  Lookups of a missing row return (nil, nil), not an error.
  Only non-empty derived records are cached; Run.Skipped counts the rest.
*/
package roster

import (
	"context"
	"time"

	"github.com/warp/pvf-engine/pvf"
)

// Run describes one calculation over the roster.
type Run struct {
	ID              string
	AsOf            time.Time
	MinMonths       int
	BondRatePercent float64
	Computed        int // records with derived output
	Skipped         int // records without an employee id
	Warnings        int // records with malformed dates
	CreatedAt       time.Time
}

// Store caches the roster and calculation runs.
type Store interface {
	// SaveEmployees replaces the cached roster. Records without an id are
	// not cached.
	SaveEmployees(ctx context.Context, records []pvf.EmployeeRecord) error

	// ListEmployees returns the roster ordered by employee id.
	ListEmployees(ctx context.Context) ([]pvf.EmployeeRecord, error)

	// GetEmployee returns one roster entry.
	GetEmployee(ctx context.Context, id int64) (*pvf.EmployeeRecord, error)

	// SaveRun stores a run and its non-empty derived records, in order.
	SaveRun(ctx context.Context, run Run, derived []pvf.DerivedRecord) error

	// LatestRun returns the most recent run.
	LatestRun(ctx context.Context) (*Run, error)

	// ListRuns returns runs, newest first.
	ListRuns(ctx context.Context) ([]Run, error)

	// ListDerived returns the derived records of a run in feed order.
	ListDerived(ctx context.Context, runID string) ([]pvf.DerivedRecord, error)

	// GetDerived returns one employee's derived record from a run.
	GetDerived(ctx context.Context, runID string, employeeID int64) (*pvf.DerivedRecord, error)

	// Reset clears everything.
	Reset(ctx context.Context) error
}
