/*
Package pvf derives provident-fund (PVF) metrics from employee records.

PURPOSE:
  Given an employee record and an as-of date, compute age, tenure,
  accumulated salary, employer contribution, PVF accrual, the PVF balance an
  early leaver keeps, and the projected bond income on that balance.

KEY CONCEPTS IN THIS FILE (types.go):
  - EmployeeRecord: input row, read-only
  - DerivedRecord:  input row plus the six derived fields
  - TenureBreakdown: months/years accumulated since the start date

NUMERIC MODEL:
  All amounts are float64. Malformed dates do not raise: they turn into NaN
  and flow through every dependent field, and a zero tenure denominator in
  the projection yields Inf/NaN. Such values serialize as JSON null.

USAGE:
  calc := pvf.NewCalculator(pvf.WithClock(pvf.FixedClock{At: asOf}))
  out := calc.Transform(record)
  if out.IsEmpty() {
      // record had no employee id
  }

SEE ALSO:
  - calculator.go: Transform pipeline
  - tenure.go:     date arithmetic
  - fund.go:       salary, contribution, accrual and vesting rules
  - projection.go: investment income projection
*/
package pvf

import "encoding/json"

// =============================================================================
// EMPLOYEE RECORD - Input row
// =============================================================================

// EmployeeRecord is one row of the employee feed. JSON keys match the feed.
type EmployeeRecord struct {
	EmployeeID   int64    `json:"employeeid" csv:"employeeid"`
	FirstName    string   `json:"firstname" csv:"firstname"`
	LastName     string   `json:"lastname" csv:"lastname"`
	BirthDate    string   `json:"birthdate" csv:"birthdate"`
	StartDate    string   `json:"startdate" csv:"startdate"`
	EmployeeType string   `json:"employeetype" csv:"employeetype"`
	Salary       float64  `json:"salary" csv:"salary"`
	PvfRate      *float64 `json:"pvfrate" csv:"pvfrate,omitempty"`
}

// EmployeeTypePermanent is the only employee type that accrues PVF.
const EmployeeTypePermanent = "Permanent"

// IsValid reports whether the record carries an employee id.
func (r EmployeeRecord) IsValid() bool { return r.EmployeeID != 0 }

// RatePercent returns the PVF rate, treating nil as 0.
func (r EmployeeRecord) RatePercent() float64 {
	if r.PvfRate == nil {
		return 0
	}
	return *r.PvfRate
}

func (r EmployeeRecord) clone() EmployeeRecord {
	out := r
	if r.PvfRate != nil {
		rate := *r.PvfRate
		out.PvfRate = &rate
	}
	return out
}

// =============================================================================
// DERIVED RECORD - Output row
// =============================================================================

// DerivedRecord is an EmployeeRecord plus the derived metrics.
// CompanyContributionAfterLeft is the employee's PVF balance after the
// early-leave penalty, not the employer's share. IncomeGrovBound is the
// projected bond income; both names are kept from the domain vocabulary.
type DerivedRecord struct {
	EmployeeRecord

	Age                          int    `json:"age" csv:"age"`
	WorkingYearAccumulated       Number `json:"workingYearAccumulated" csv:"workingYearAccumulated"`
	CompanyContribution          Number `json:"companyContribution" csv:"companyContribution"`
	CompanyContributionAfterLeft Number `json:"companyContributionAfterLeft" csv:"companyContributionAfterLeft"`
	PvfAccumulated               Number `json:"pvfAccumulated" csv:"pvfAccumulated"`
	IncomeGrovBound              Number `json:"incomeGrovBound" csv:"incomeGrovBound"`
}

// IsEmpty reports whether d is the sentinel returned for invalid records.
func (d DerivedRecord) IsEmpty() bool {
	return !d.EmployeeRecord.IsValid()
}

type derivedJSON DerivedRecord

// MarshalJSON writes {} for the empty sentinel.
func (d DerivedRecord) MarshalJSON() ([]byte, error) {
	if d.IsEmpty() {
		return []byte("{}"), nil
	}
	return json.Marshal(derivedJSON(d))
}

// =============================================================================
// TENURE
// =============================================================================

// TenureBreakdown is the tenure derived from a start date.
// WorkingYearAccumulated is 0 for hires within the as-of calendar year.
type TenureBreakdown struct {
	MonthAccumulated       float64
	WorkingYearAccumulated float64
}
