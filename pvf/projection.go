package pvf

import "time"

// DefaultBondRatePercent is the default annual bond interest rate.
const DefaultBondRatePercent = 2

// ComputeProjectedInvestmentIncome estimates the bond income earned on the
// PVF balance over the years since the start date.
//
// The balance is spread over the months past the eligibility window; the
// months elapsed in asOf's year are taken back out before applying the
// annual rate, and the result is scaled by the calendar years accumulated.
// When tenure does not exceed the window the per-month divisor is zero or
// negative and the result is Inf or NaN. That is passed through unchanged.
func (c *Calculator) ComputeProjectedInvestmentIncome(pvfAccrual float64, startDate string, asOf time.Time) float64 {
	return c.projectedIncome(pvfAccrual, startDate, ComputeTenure(startDate, asOf), asOf)
}

func (c *Calculator) projectedIncome(pvfAccrual float64, startDate string, tenure TenureBreakdown, asOf time.Time) float64 {
	interestPercent := c.bondRatePercent / 100
	currentMonth := float64(asOf.Month())
	yearAccumulated := yearsSince(startDate, asOf)

	pvfPerMonth := pvfAccrual / (tenure.MonthAccumulated - float64(c.minMonths))
	annual := (pvfAccrual - currentMonth*pvfPerMonth) * interestPercent
	return annual * yearAccumulated
}
