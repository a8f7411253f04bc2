package roster

import (
	"github.com/shopspring/decimal"
	"github.com/warp/pvf-engine/pvf"
)

// Summary aggregates the derived records of a run.
// Totals use decimal arithmetic and are rounded to 2 places; non-finite
// amounts are left out of the totals and counted in NonFinite.
type Summary struct {
	Employees                int             `json:"employees"`
	Enrolled                 int             `json:"enrolled"` // accrual > 0
	FullyVested              int             `json:"fully_vested"`
	NonFinite                int             `json:"non_finite"`
	TotalCompanyContribution decimal.Decimal `json:"total_company_contribution"`
	TotalPvfAccumulated      decimal.Decimal `json:"total_pvf_accumulated"`
	TotalPvfAfterLeft        decimal.Decimal `json:"total_pvf_after_left"`
	TotalProjectedIncome     decimal.Decimal `json:"total_projected_income"`
	AverageWorkingYears      decimal.Decimal `json:"average_working_years"`
}

// Summarize totals the non-empty records in derived.
func Summarize(derived []pvf.DerivedRecord) Summary {
	s := Summary{
		TotalCompanyContribution: decimal.Zero,
		TotalPvfAccumulated:      decimal.Zero,
		TotalPvfAfterLeft:        decimal.Zero,
		TotalProjectedIncome:     decimal.Zero,
		AverageWorkingYears:      decimal.Zero,
	}

	years := decimal.Zero
	yearsCount := 0

	for _, d := range derived {
		if d.IsEmpty() {
			continue
		}
		s.Employees++

		finite := true
		add := func(total *decimal.Decimal, n pvf.Number) {
			if !n.IsFinite() {
				finite = false
				return
			}
			*total = total.Add(decimal.NewFromFloat(n.Float()))
		}
		add(&s.TotalCompanyContribution, d.CompanyContribution)
		add(&s.TotalPvfAccumulated, d.PvfAccumulated)
		add(&s.TotalPvfAfterLeft, d.CompanyContributionAfterLeft)
		add(&s.TotalProjectedIncome, d.IncomeGrovBound)
		if !finite {
			s.NonFinite++
		}

		if d.PvfAccumulated.IsFinite() && d.PvfAccumulated.Float() > 0 {
			s.Enrolled++
			if d.WorkingYearAccumulated.Float() >= pvf.FullVestingYears {
				s.FullyVested++
			}
		}
		if d.WorkingYearAccumulated.IsFinite() {
			years = years.Add(decimal.NewFromFloat(d.WorkingYearAccumulated.Float()))
			yearsCount++
		}
	}

	s.TotalCompanyContribution = s.TotalCompanyContribution.Round(2)
	s.TotalPvfAccumulated = s.TotalPvfAccumulated.Round(2)
	s.TotalPvfAfterLeft = s.TotalPvfAfterLeft.Round(2)
	s.TotalProjectedIncome = s.TotalProjectedIncome.Round(2)
	if yearsCount > 0 {
		s.AverageWorkingYears = years.Div(decimal.NewFromInt(int64(yearsCount))).Round(2)
	}
	return s
}
