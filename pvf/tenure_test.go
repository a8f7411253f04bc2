package pvf_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/pvf-engine/pvf"
)

func TestParseStartDate(t *testing.T) {
	p := pvf.ParseStartDate("15/6/2023")
	assert.Equal(t, pvf.DateParts{Day: 15, Month: 6, Year: 2023}, p)
	assert.True(t, p.IsValid())

	p = pvf.ParseStartDate(" 01/ 02 /1999xyz")
	assert.Equal(t, pvf.DateParts{Day: 1, Month: 2, Year: 1999}, p)

	p = pvf.ParseStartDate("")
	assert.True(t, math.IsNaN(p.Day))
	assert.True(t, math.IsNaN(p.Month))
	assert.True(t, math.IsNaN(p.Year))
	assert.False(t, p.IsValid())

	p = pvf.ParseStartDate("1/x")
	assert.Equal(t, 1.0, p.Day)
	assert.True(t, math.IsNaN(p.Month))
	assert.True(t, math.IsNaN(p.Year))
}

func TestComputeAge_IgnoresDayAndMonth(t *testing.T) {
	assert.Equal(t, 33.0, pvf.ComputeAge("31/12/1990", asOf))
	assert.Equal(t, 33.0, pvf.ComputeAge("1/1/1990", asOf))
	assert.True(t, math.IsNaN(pvf.ComputeAge("1990", asOf)))
}

func TestComputeTenure(t *testing.T) {
	tests := []struct {
		start  string
		months float64
		years  float64
	}{
		{"1/6/2023", 1, 0},  // same month counts as one
		{"1/1/2023", 6, 0},  // within the year: 6 + 1 - 1
		{"1/7/2023", 0, 0},  // starts next month
		{"1/12/2022", 7, 0}, // 1 + 6
		{"1/6/2022", 13, 1}, // 7 + 6
		{"1/1/2021", 30, 2},
		{"1/1/2020", 42, 3},
		{"1/1/2015", 102, 8},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := pvf.ComputeTenure(tt.start, asOf)
			assert.Equal(t, tt.months, got.MonthAccumulated)
			assert.Equal(t, tt.years, got.WorkingYearAccumulated)
		})
	}
}

func TestComputeTenure_FutureYearStaysInFirstBranch(t *testing.T) {
	got := pvf.ComputeTenure("1/3/2025", asOf)
	assert.Equal(t, 4.0, got.MonthAccumulated)
	assert.Equal(t, 0.0, got.WorkingYearAccumulated)
}

func TestComputeAccumulatedSalary(t *testing.T) {
	// zero months: raw salary, never salary*0
	assert.Equal(t, 1500.0, pvf.ComputeAccumulatedSalary(1500, "1/7/2023", asOf))
	// unparseable date: raw salary
	assert.Equal(t, 1500.0, pvf.ComputeAccumulatedSalary(1500, "", asOf))
	assert.Equal(t, 9000.0, pvf.ComputeAccumulatedSalary(1500, "1/1/2023", asOf))
}

func TestComputeEmployerContribution_IsTenPercent(t *testing.T) {
	for _, acc := range []float64{0, 1, 1500, 102000, 12345.67, -300} {
		assert.Equal(t, acc*0.1, pvf.ComputeEmployerContribution(acc))
	}
}

func TestIsEligible(t *testing.T) {
	assert.False(t, pvf.IsEligible(2, 3))
	assert.False(t, pvf.IsEligible(3, 3))
	assert.True(t, pvf.IsEligible(4, 3))
	assert.True(t, pvf.IsEligible(math.NaN(), 3))
}

func TestComputePvfAfterEarlyLeave_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		start string
		want  float64
	}{
		{"2 years forfeits", "1/1/2021", 0},
		{"3 years keeps half", "1/1/2020", 500},
		{"4 years keeps half", "1/1/2019", 500},
		{"5 years fully vested", "1/1/2018", 1000},
		{"8 years fully vested", "1/1/2015", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pvf.ComputePvfAfterEarlyLeave(1000, tt.start, asOf))
		})
	}
}

func TestComputePvfAccrual(t *testing.T) {
	calc := pvf.NewCalculator()
	five := 5.0
	zero := 0.0

	in := pvf.AccrualInput{
		Salary:            1000,
		AccumulatedSalary: 102000,
		PvfRate:           &five,
		EmployeeType:      pvf.EmployeeTypePermanent,
		StartDate:         "1/1/2015",
	}
	assert.InDelta(t, 4950.0, calc.ComputePvfAccrual(in, asOf), 1e-9)

	in.PvfRate = &zero
	assert.Zero(t, calc.ComputePvfAccrual(in, asOf))

	in.PvfRate = nil
	assert.Zero(t, calc.ComputePvfAccrual(in, asOf))

	in.PvfRate = &five
	in.EmployeeType = "Contract"
	assert.Zero(t, calc.ComputePvfAccrual(in, asOf))
}

func TestComputeProjectedInvestmentIncome(t *testing.T) {
	calc := pvf.NewCalculator()

	assert.InDelta(t, 744.0, calc.ComputeProjectedInvestmentIncome(4950, "1/1/2015", asOf), 1e-9)

	// tenure below the window: negative divisor, finite result
	got := calc.ComputeProjectedInvestmentIncome(100, "1/5/2023", asOf)
	assert.False(t, math.IsNaN(got))

	// positive balance over a zero divisor
	got = calc.ComputeProjectedInvestmentIncome(100, "1/1/2022", pvf.Date(1, time.March, 2022))
	assert.True(t, math.IsNaN(got) || math.IsInf(got, 0))
}

func TestComputeProjectedInvestmentIncome_BondRate(t *testing.T) {
	calc := pvf.NewCalculator(pvf.WithBondRate(4))

	// same scenario at twice the rate
	assert.InDelta(t, 1488.0, calc.ComputeProjectedInvestmentIncome(4950, "1/1/2015", asOf), 1e-9)
}
