package roster_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
	"github.com/warp/pvf-engine/source"
	"github.com/warp/pvf-engine/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

var asOf = pvf.Date(15, time.June, 2023)

func rate(r float64) *float64 { return &r }

func feed() []pvf.EmployeeRecord {
	return []pvf.EmployeeRecord{
		{
			EmployeeID: 1, FirstName: "Somchai", LastName: "Jaidee",
			BirthDate: "12/12/1990", StartDate: "1/1/2015",
			EmployeeType: pvf.EmployeeTypePermanent, Salary: 1000, PvfRate: rate(5),
		},
		{FirstName: "no id"},
		{
			EmployeeID: 2, FirstName: "Malee", LastName: "Srisuk",
			BirthDate: "not a date", StartDate: "1/1/2020",
			EmployeeType: "Contract", Salary: 800,
		},
	}
}

func newTestService(t *testing.T, src source.Source) *roster.Service {
	t.Helper()
	calc := pvf.NewCalculator(pvf.WithClock(pvf.FixedClock{At: asOf}))
	return roster.NewService(src, store.NewMemory(), calc, zerolog.New(io.Discard))
}

type failingSource struct{ err error }

func (f failingSource) Fetch(context.Context) ([]pvf.EmployeeRecord, error) { return nil, f.err }

// =============================================================================
// REFRESH
// =============================================================================

func TestRefresh_RecordsRun(t *testing.T) {
	// GIVEN: A feed with one valid, one id-less and one malformed row
	svc := newTestService(t, source.Static(feed()))
	ctx := context.Background()

	// WHEN: Refreshing
	run, err := svc.Refresh(ctx)

	// THEN: The run counts each kind of row
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.True(t, run.AsOf.Equal(asOf))
	assert.Equal(t, 3, run.MinMonths)
	assert.Equal(t, 2.0, run.BondRatePercent)
	assert.Equal(t, 2, run.Computed)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Warnings)

	// AND: The roster and derived records are cached
	employees, err := svc.Store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, employees, 2)

	latest, derived, err := svc.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, run.ID, latest.ID)
	require.Len(t, derived, 2)
	assert.Equal(t, pvf.Number(4950), derived[0].PvfAccumulated)
	assert.Equal(t, 0, derived[1].Age)
}

func TestRefresh_FetchError(t *testing.T) {
	boom := errors.New("feed down")
	svc := newTestService(t, failingSource{err: boom})

	_, err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, boom)
	runs, err := svc.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestRefresh_KeepsHistory(t *testing.T) {
	svc := newTestService(t, source.Static(feed()))
	ctx := context.Background()

	first, err := svc.Refresh(ctx)
	require.NoError(t, err)
	second, err := svc.Refresh(ctx)
	require.NoError(t, err)

	runs, err := svc.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

// =============================================================================
// QUERIES
// =============================================================================

func TestLatest_NoRun(t *testing.T) {
	svc := newTestService(t, source.Static(nil))

	_, _, err := svc.Latest(context.Background())
	assert.ErrorIs(t, err, roster.ErrNoRun)

	_, err = svc.Employee(context.Background(), 1)
	assert.ErrorIs(t, err, roster.ErrNoRun)
}

func TestEmployee(t *testing.T) {
	svc := newTestService(t, source.Static(feed()))
	ctx := context.Background()
	_, err := svc.Refresh(ctx)
	require.NoError(t, err)

	got, err := svc.Employee(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pvf.Number(8), got.WorkingYearAccumulated)

	missing, err := svc.Employee(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// =============================================================================
// CALCULATE
// =============================================================================

func TestCalculate_Positional(t *testing.T) {
	svc := newTestService(t, source.Static(nil))

	out := svc.Calculate(feed(), time.Time{})

	require.Len(t, out, 3)
	assert.False(t, out[0].IsEmpty())
	assert.True(t, out[1].IsEmpty())
	assert.False(t, out[2].IsEmpty())

	// Nothing was cached
	runs, err := svc.Runs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestCalculate_AsOfOverride(t *testing.T) {
	// GIVEN: A start date one year before the calculator's clock
	svc := newTestService(t, source.Static(nil))
	rec := feed()[0]

	// WHEN: Calculating a year later than the clock
	now := svc.Calculate([]pvf.EmployeeRecord{rec}, time.Time{})
	later := svc.Calculate([]pvf.EmployeeRecord{rec}, pvf.Date(15, time.June, 2024))

	// THEN: Working years advance by one
	assert.Equal(t, pvf.Number(8), now[0].WorkingYearAccumulated)
	assert.Equal(t, pvf.Number(9), later[0].WorkingYearAccumulated)
}
