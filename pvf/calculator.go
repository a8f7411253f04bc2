package pvf

import (
	"math"
	"time"
)

// =============================================================================
// CALCULATOR - Transform pipeline
// =============================================================================

// Calculator derives PVF metrics. It holds only the eligibility window, the
// bond rate and the clock; all are fixed at construction and it is safe for
// concurrent use.
type Calculator struct {
	minMonths       int
	bondRatePercent float64
	clock           Clock
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithMinMonths sets the months of tenure required before PVF accrues.
func WithMinMonths(months int) Option {
	return func(c *Calculator) { c.minMonths = months }
}

// WithBondRate sets the annual bond interest rate, in percent.
func WithBondRate(percent float64) Option {
	return func(c *Calculator) { c.bondRatePercent = percent }
}

// WithClock sets the as-of date source.
func WithClock(clock Clock) Option {
	return func(c *Calculator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCalculator returns a Calculator with a 3 month window, a 2% bond rate
// and the system clock, unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		minMonths:       DefaultMinMonths,
		bondRatePercent: DefaultBondRatePercent,
		clock:           SystemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Calculator) MinMonths() int           { return c.minMonths }
func (c *Calculator) BondRatePercent() float64 { return c.bondRatePercent }
func (c *Calculator) Now() time.Time           { return c.clock.Now() }

// ComputePvfAccrual returns the employee's PVF accrual. Non-permanent staff
// and staff inside the eligibility window accrue nothing.
func (c *Calculator) ComputePvfAccrual(in AccrualInput, asOf time.Time) float64 {
	return pvfAccrual(in, ComputeTenure(in.StartDate, asOf), c.minMonths)
}

// Transform derives the metrics for rec as of the clock's current date.
func (c *Calculator) Transform(rec EmployeeRecord) DerivedRecord {
	return c.TransformAsOf(rec, c.clock.Now())
}

// TransformAll transforms each record with a single reading of the clock.
// Invalid records come back as empty DerivedRecords in the same position.
func (c *Calculator) TransformAll(recs []EmployeeRecord) []DerivedRecord {
	asOf := c.clock.Now()
	out := make([]DerivedRecord, len(recs))
	for i, rec := range recs {
		out[i] = c.TransformAsOf(rec, asOf)
	}
	return out
}

// TransformAsOf derives the metrics for rec as of asOf. A record without an
// employee id yields the empty DerivedRecord.
func (c *Calculator) TransformAsOf(rec EmployeeRecord, asOf time.Time) DerivedRecord {
	if !rec.IsValid() {
		return DerivedRecord{}
	}

	tenure := ComputeTenure(rec.StartDate, asOf)
	salary := accumulatedSalary(rec.Salary, tenure)
	contribution := ComputeEmployerContribution(salary)
	accrual := pvfAccrual(AccrualInput{
		Salary:            rec.Salary,
		AccumulatedSalary: salary,
		PvfRate:           rec.PvfRate,
		EmployeeType:      rec.EmployeeType,
		StartDate:         rec.StartDate,
	}, tenure, c.minMonths)
	age := ComputeAge(rec.BirthDate, asOf)
	income := c.projectedIncome(accrual, rec.StartDate, tenure, asOf)
	afterLeft := afterEarlyLeave(accrual, tenure)

	return DerivedRecord{
		EmployeeRecord:               rec.clone(),
		Age:                          ageOrZero(age),
		WorkingYearAccumulated:       Number(tenure.WorkingYearAccumulated),
		CompanyContribution:          Number(contribution),
		CompanyContributionAfterLeft: Number(afterLeft),
		PvfAccumulated:               Number(accrual),
		IncomeGrovBound:              Number(income),
	}
}

func ageOrZero(age float64) int {
	if math.IsNaN(age) || math.IsInf(age, 0) {
		return 0
	}
	return int(age)
}
