/*
fund.go - Salary, contribution, accrual and vesting rules

RULE CHAIN:
  accumulated salary  = salary x tenure months (raw salary when months is 0/NaN)
  company contribution = accumulated salary x 10%
  PVF accrual          = (accumulated salary - 3 x salary) x rate%, only for
                         Permanent staff past the eligibility window
  after early leave    = 0 / 50% / 100% of the accrual by working years

CONSTANTS:
  GraceMonths and the eligibility window (Calculator.MinMonths) are separate
  knobs. They share the default value 3 and nothing else.
*/
package pvf

import (
	"math"
	"time"
)

const (
	// EmployerContributionRate is the flat employer share of accumulated salary.
	EmployerContributionRate = 0.10

	// GraceMonths of raw salary are deducted before the PVF rate applies.
	GraceMonths = 3

	// DefaultMinMonths is the default eligibility window in months.
	DefaultMinMonths = 3

	// PartialVestingYears starts the 50% penalty tier.
	PartialVestingYears = 3

	// FullVestingYears starts the fully vested tier.
	FullVestingYears = 5

	// EarlyLeavePenaltyPercent applies in the partial tier.
	EarlyLeavePenaltyPercent = 50
)

// =============================================================================
// SALARY & EMPLOYER CONTRIBUTION
// =============================================================================

// ComputeAccumulatedSalary multiplies the monthly salary by the tenure in
// months. Zero or NaN months fall back to the raw monthly salary.
func ComputeAccumulatedSalary(salary float64, startDate string, asOf time.Time) float64 {
	return accumulatedSalary(salary, ComputeTenure(startDate, asOf))
}

func accumulatedSalary(salary float64, tenure TenureBreakdown) float64 {
	months := tenure.MonthAccumulated
	if months == 0 || math.IsNaN(months) {
		return salary
	}
	return salary * months
}

// ComputeEmployerContribution returns 10% of the accumulated salary.
func ComputeEmployerContribution(accumulatedSalary float64) float64 {
	return accumulatedSalary * EmployerContributionRate
}

// =============================================================================
// PVF ELIGIBILITY & ACCRUAL
// =============================================================================

// IsEligible reports whether tenure has passed the eligibility window.
// Reaching exactly minMonths is not enough. NaN months compare as eligible,
// leaving the NaN to surface in the accrual.
func IsEligible(monthAccumulated float64, minMonths int) bool {
	return !(monthAccumulated <= float64(minMonths))
}

// AccrualInput carries what ComputePvfAccrual needs from a record.
type AccrualInput struct {
	Salary            float64
	AccumulatedSalary float64
	PvfRate           *float64
	EmployeeType      string
	StartDate         string
}

func pvfAccrual(in AccrualInput, tenure TenureBreakdown, minMonths int) float64 {
	if in.EmployeeType != EmployeeTypePermanent || !IsEligible(tenure.MonthAccumulated, minMonths) {
		return 0
	}

	base := in.AccumulatedSalary - in.Salary*GraceMonths
	ratePercent := 0.0
	if in.PvfRate != nil && *in.PvfRate != 0 && !math.IsNaN(*in.PvfRate) {
		ratePercent = *in.PvfRate / 100
	}
	return base * ratePercent
}

// =============================================================================
// EARLY-LEAVE PENALTY
// =============================================================================

// ComputePvfAfterEarlyLeave returns the PVF balance an employee keeps on
// leaving: nothing below 3 working years, half below 5, all of it from 5.
func ComputePvfAfterEarlyLeave(pvfAccrual float64, startDate string, asOf time.Time) float64 {
	return afterEarlyLeave(pvfAccrual, ComputeTenure(startDate, asOf))
}

func afterEarlyLeave(pvfAccrual float64, tenure TenureBreakdown) float64 {
	years := tenure.WorkingYearAccumulated
	switch {
	case years < PartialVestingYears:
		return 0
	case years < FullVestingYears:
		return pvfAccrual - pvfAccrual*EarlyLeavePenaltyPercent/100
	default:
		return pvfAccrual
	}
}
