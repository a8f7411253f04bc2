// Package storetest holds the behaviour every roster.Store must share.
// Each implementation's tests call Run with its own constructor.
package storetest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
)

// Run exercises newStore against the roster.Store contract.
func Run(t *testing.T, newStore func(t *testing.T) roster.Store) {
	t.Run("SaveEmployees replaces the roster", func(t *testing.T) {
		testSaveEmployees(t, newStore(t))
	})
	t.Run("GetEmployee missing returns nil", func(t *testing.T) {
		testGetEmployeeMissing(t, newStore(t))
	})
	t.Run("Runs are ordered newest first", func(t *testing.T) {
		testRunOrder(t, newStore(t))
	})
	t.Run("Derived records keep feed order and drop empties", func(t *testing.T) {
		testDerivedOrder(t, newStore(t))
	})
	t.Run("Non-finite numbers round-trip", func(t *testing.T) {
		testNonFinite(t, newStore(t))
	})
	t.Run("Reset clears everything", func(t *testing.T) {
		testReset(t, newStore(t))
	})
}

func rate(r float64) *float64 { return &r }

func employee(id int64, name string) pvf.EmployeeRecord {
	return pvf.EmployeeRecord{
		EmployeeID:   id,
		FirstName:    name,
		LastName:     "Jaidee",
		BirthDate:    "12/12/1990",
		StartDate:    "1/1/2015",
		EmployeeType: pvf.EmployeeTypePermanent,
		Salary:       1000,
		PvfRate:      rate(5),
	}
}

func derived(id int64, accrual float64) pvf.DerivedRecord {
	return pvf.DerivedRecord{
		EmployeeRecord:               employee(id, "Somchai"),
		Age:                          32,
		WorkingYearAccumulated:       8,
		CompanyContribution:          10200,
		CompanyContributionAfterLeft: pvf.Number(accrual),
		PvfAccumulated:               pvf.Number(accrual),
		IncomeGrovBound:              744,
	}
}

func newRun(id string, createdAt time.Time) roster.Run {
	return roster.Run{
		ID:              id,
		AsOf:            time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC),
		MinMonths:       3,
		BondRatePercent: 2,
		Computed:        2,
		CreatedAt:       createdAt,
	}
}

func testSaveEmployees(t *testing.T, s roster.Store) {
	ctx := context.Background()

	// GIVEN: A roster with one record lacking an id
	require.NoError(t, s.SaveEmployees(ctx, []pvf.EmployeeRecord{
		employee(2, "Malee"), {FirstName: "ghost"}, employee(1, "Somchai"),
	}))

	// WHEN: Listing
	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)

	// THEN: Only valid records, ordered by id
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].EmployeeID)
	assert.Equal(t, int64(2), list[1].EmployeeID)
	require.NotNil(t, list[0].PvfRate)
	assert.Equal(t, 5.0, *list[0].PvfRate)

	// WHEN: Saving a smaller roster
	noRate := employee(3, "Anan")
	noRate.PvfRate = nil
	require.NoError(t, s.SaveEmployees(ctx, []pvf.EmployeeRecord{noRate}))

	// THEN: The old roster is gone
	list, err = s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].PvfRate)

	got, err := s.GetEmployee(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Anan", got.FirstName)
}

func testGetEmployeeMissing(t *testing.T, s roster.Store) {
	ctx := context.Background()

	got, err := s.GetEmployee(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, got)

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)

	d, err := s.GetDerived(ctx, "no-such-run", 1)
	require.NoError(t, err)
	assert.Nil(t, d)
}

func testRunOrder(t *testing.T, s roster.Store) {
	ctx := context.Background()
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveRun(ctx, newRun("run-a", base), nil))
	require.NoError(t, s.SaveRun(ctx, newRun("run-b", base.Add(time.Minute)), nil))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-b", latest.ID)
	assert.Equal(t, 3, latest.MinMonths)
	assert.Equal(t, 2.0, latest.BondRatePercent)
	assert.True(t, latest.AsOf.Equal(time.Date(2023, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, latest.CreatedAt.Equal(base.Add(time.Minute)))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-b", runs[0].ID)
	assert.Equal(t, "run-a", runs[1].ID)
}

func testDerivedOrder(t *testing.T, s roster.Store) {
	ctx := context.Background()

	// GIVEN: A run whose output has an empty record in the middle
	out := []pvf.DerivedRecord{derived(7, 4950), {}, derived(3, 1200)}
	require.NoError(t, s.SaveRun(ctx, newRun("run-1", time.Now()), out))

	// WHEN: Listing
	list, err := s.ListDerived(ctx, "run-1")
	require.NoError(t, err)

	// THEN: Feed order, empty record dropped
	require.Len(t, list, 2)
	assert.Equal(t, int64(7), list[0].EmployeeID)
	assert.Equal(t, int64(3), list[1].EmployeeID)
	assert.Equal(t, pvf.Number(4950), list[0].PvfAccumulated)
	assert.Equal(t, 32, list[0].Age)

	got, err := s.GetDerived(ctx, "run-1", 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, pvf.Number(1200), got.PvfAccumulated)

	other, err := s.ListDerived(ctx, "run-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func testNonFinite(t *testing.T, s roster.Store) {
	ctx := context.Background()

	d := derived(1, math.NaN())
	d.IncomeGrovBound = pvf.Number(math.Inf(1))
	d.WorkingYearAccumulated = pvf.Number(math.Inf(-1))
	require.NoError(t, s.SaveRun(ctx, newRun("run-nan", time.Now()), []pvf.DerivedRecord{d}))

	got, err := s.GetDerived(ctx, "run-nan", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, math.IsNaN(got.PvfAccumulated.Float()))
	assert.True(t, math.IsInf(got.IncomeGrovBound.Float(), 1))
	assert.True(t, math.IsInf(got.WorkingYearAccumulated.Float(), -1))
}

func testReset(t *testing.T, s roster.Store) {
	ctx := context.Background()

	require.NoError(t, s.SaveEmployees(ctx, []pvf.EmployeeRecord{employee(1, "Somchai")}))
	require.NoError(t, s.SaveRun(ctx, newRun("run-1", time.Now()), []pvf.DerivedRecord{derived(1, 4950)}))

	require.NoError(t, s.Reset(ctx))

	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Empty(t, runs)

	d, err := s.ListDerived(ctx, "run-1")
	require.NoError(t, err)
	assert.Empty(t, d)
}
