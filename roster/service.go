// Package roster runs the PVF calculation over the employee feed and keeps
// the latest results for the API.
package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/source"
)

// ErrNoRun is returned when no calculation has run yet.
var ErrNoRun = errors.New("no calculation run yet")

// Service wires the feed, the calculator and the cache.
type Service struct {
	Source     source.Source
	Store      Store
	Calculator *pvf.Calculator
	Log        zerolog.Logger

	now func() time.Time
}

// NewService creates a service. The logger is tagged with the component.
func NewService(src source.Source, store Store, calc *pvf.Calculator, log zerolog.Logger) *Service {
	return &Service{
		Source:     src,
		Store:      store,
		Calculator: calc,
		Log:        log.With().Str("component", "roster").Logger(),
		now:        time.Now,
	}
}

// Refresh fetches the feed, caches the roster and records a new run.
// Bad rows never fail the refresh: they are counted and logged.
func (s *Service) Refresh(ctx context.Context) (*Run, error) {
	records, err := s.Source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch employees: %w", err)
	}
	return s.Load(ctx, records)
}

// Load caches records and records a new run over them.
func (s *Service) Load(ctx context.Context, records []pvf.EmployeeRecord) (*Run, error) {
	if err := s.Store.SaveEmployees(ctx, records); err != nil {
		return nil, fmt.Errorf("save employees: %w", err)
	}

	asOf := s.Calculator.Now()
	derived := make([]pvf.DerivedRecord, len(records))
	run := Run{
		ID:              uuid.NewString(),
		AsOf:            asOf,
		MinMonths:       s.Calculator.MinMonths(),
		BondRatePercent: s.Calculator.BondRatePercent(),
		CreatedAt:       s.now().UTC(),
	}

	for i, rec := range records {
		if err := pvf.Validate(rec); err != nil {
			if errors.Is(err, pvf.ErrInvalidRecord) {
				run.Skipped++
				s.Log.Debug().Int("position", i).Msg("skipping record without employee id")
			} else {
				run.Warnings++
				s.Log.Warn().Err(err).Int64("employee_id", rec.EmployeeID).Msg("record has malformed dates")
			}
		}
		derived[i] = s.Calculator.TransformAsOf(rec, asOf)
	}
	run.Computed = len(records) - run.Skipped

	if err := s.Store.SaveRun(ctx, run, derived); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}

	s.Log.Info().
		Str("run_id", run.ID).
		Int("computed", run.Computed).
		Int("skipped", run.Skipped).
		Int("warnings", run.Warnings).
		Time("as_of", run.AsOf).
		Msg("calculation run complete")

	return &run, nil
}

// Calculate transforms records without touching the cache. A non-zero asOf
// overrides the calculator's clock. Output is positional: invalid records
// yield empty DerivedRecords.
func (s *Service) Calculate(records []pvf.EmployeeRecord, asOf time.Time) []pvf.DerivedRecord {
	if asOf.IsZero() {
		return s.Calculator.TransformAll(records)
	}
	out := make([]pvf.DerivedRecord, len(records))
	for i, rec := range records {
		out[i] = s.Calculator.TransformAsOf(rec, asOf)
	}
	return out
}

// Latest returns the newest run and its derived records.
func (s *Service) Latest(ctx context.Context) (*Run, []pvf.DerivedRecord, error) {
	run, err := s.Store.LatestRun(ctx)
	if err != nil {
		return nil, nil, err
	}
	if run == nil {
		return nil, nil, ErrNoRun
	}

	derived, err := s.Store.ListDerived(ctx, run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, derived, nil
}

// Employee returns one employee's derived record from the newest run,
// or nil when the employee is not in it.
func (s *Service) Employee(ctx context.Context, id int64) (*pvf.DerivedRecord, error) {
	run, err := s.Store.LatestRun(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrNoRun
	}
	return s.Store.GetDerived(ctx, run.ID, id)
}

// Runs returns the run history, newest first.
func (s *Service) Runs(ctx context.Context) ([]Run, error) {
	return s.Store.ListRuns(ctx)
}

// Roster returns the cached feed records, ordered by employee id.
func (s *Service) Roster(ctx context.Context) ([]pvf.EmployeeRecord, error) {
	return s.Store.ListEmployees(ctx)
}

// RosterEntry returns one cached feed record, or nil.
func (s *Service) RosterEntry(ctx context.Context, id int64) (*pvf.EmployeeRecord, error) {
	return s.Store.GetEmployee(ctx, id)
}

// Reset drops the cached roster and run history.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.Store.Reset(ctx); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	s.Log.Info().Msg("cache reset")
	return nil
}
