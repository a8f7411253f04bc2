package roster_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pvf-engine/pvf"
	"github.com/warp/pvf-engine/roster"
)

func TestSummarize(t *testing.T) {
	// GIVEN: A vested employee, a new hire, an empty record and a NaN row
	vested := pvf.DerivedRecord{
		EmployeeRecord:               pvf.EmployeeRecord{EmployeeID: 1},
		WorkingYearAccumulated:       8,
		CompanyContribution:          10200,
		CompanyContributionAfterLeft: 4950,
		PvfAccumulated:               4950,
		IncomeGrovBound:              744,
	}
	newHire := pvf.DerivedRecord{
		EmployeeRecord:               pvf.EmployeeRecord{EmployeeID: 2},
		WorkingYearAccumulated:       1,
		CompanyContribution:          100.005,
		CompanyContributionAfterLeft: 0,
		PvfAccumulated:               0,
		IncomeGrovBound:              0,
	}
	broken := pvf.DerivedRecord{
		EmployeeRecord:               pvf.EmployeeRecord{EmployeeID: 3},
		WorkingYearAccumulated:       pvf.Number(math.NaN()),
		CompanyContribution:          pvf.Number(math.NaN()),
		CompanyContributionAfterLeft: pvf.Number(math.NaN()),
		PvfAccumulated:               pvf.Number(math.NaN()),
		IncomeGrovBound:              pvf.Number(math.NaN()),
	}

	// WHEN: Summarizing
	s := roster.Summarize([]pvf.DerivedRecord{vested, newHire, {}, broken})

	// THEN: Counts skip the empty record, totals skip non-finite values
	assert.Equal(t, 3, s.Employees)
	assert.Equal(t, 1, s.Enrolled)
	assert.Equal(t, 1, s.FullyVested)
	assert.Equal(t, 1, s.NonFinite)
	assert.Equal(t, "10300.01", s.TotalCompanyContribution.StringFixed(2))
	assert.Equal(t, "4950.00", s.TotalPvfAccumulated.StringFixed(2))
	assert.Equal(t, "4950.00", s.TotalPvfAfterLeft.StringFixed(2))
	assert.Equal(t, "744.00", s.TotalProjectedIncome.StringFixed(2))
	assert.Equal(t, "4.50", s.AverageWorkingYears.StringFixed(2))
}

func TestSummarize_Empty(t *testing.T) {
	s := roster.Summarize(nil)

	assert.Zero(t, s.Employees)
	assert.True(t, s.TotalPvfAccumulated.IsZero())
	assert.True(t, s.AverageWorkingYears.IsZero())
}
