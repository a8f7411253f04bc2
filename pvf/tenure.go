package pvf

import (
	"math"
	"time"
)

// MonthsPerYear converts accumulated months into working years.
const MonthsPerYear = 12

// ComputeAge returns asOf's year minus the third token of birthDate.
// Day and month are ignored, so the birthday always counts as passed.
// Returns NaN when the year cannot be parsed.
func ComputeAge(birthDate string, asOf time.Time) float64 {
	return float64(asOf.Year()) - ParseStartDate(birthDate).Year
}

// ComputeTenure returns the months and whole years accumulated from
// startDate up to asOf.
//
// Hires within asOf's calendar year count months inclusively
// (current month + 1 - start month) and have zero working years. Older hires
// count the rest of the first year, the full years in between and the months
// elapsed in asOf's year.
func ComputeTenure(startDate string, asOf time.Time) TenureBreakdown {
	start := ParseStartDate(startDate)
	currentMonth := float64(asOf.Month())
	yearAccumulated := float64(asOf.Year()) - start.Year

	if yearAccumulated < 1 {
		return TenureBreakdown{
			MonthAccumulated:       currentMonth + 1 - start.Month,
			WorkingYearAccumulated: 0,
		}
	}

	firstYear := 13 - start.Month
	fullYears := (yearAccumulated - 1) * MonthsPerYear
	months := firstYear + currentMonth + fullYears

	return TenureBreakdown{
		MonthAccumulated:       months,
		WorkingYearAccumulated: math.Floor(months / MonthsPerYear),
	}
}

// yearsSince is asOf's year minus the start year, NaN on a bad date.
func yearsSince(startDate string, asOf time.Time) float64 {
	return float64(asOf.Year()) - ParseStartDate(startDate).Year
}
