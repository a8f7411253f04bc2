/*
errors.go - Error types for record diagnostics

PURPOSE:
  Transform never returns an error: invalid records become the empty
  DerivedRecord and malformed dates become NaN fields. Callers that want to
  count or log those rows run Validate first.

USAGE:
  if err := pvf.Validate(rec); errors.Is(err, pvf.ErrInvalidRecord) {
      skipped++
  }
*/
package pvf

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRecord marks a record without an employee id.
	ErrInvalidRecord = errors.New("invalid record: missing employee id")

	// ErrMalformedDate marks a date that is not D/M/YYYY.
	ErrMalformedDate = errors.New("malformed date")
)

// MalformedDateError names the offending field.
type MalformedDateError struct {
	EmployeeID int64
	Field      string
	Value      string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("employee %d: malformed %s %q (want D/M/YYYY)", e.EmployeeID, e.Field, e.Value)
}

func (e *MalformedDateError) Unwrap() error {
	return ErrMalformedDate
}

// Validate reports why rec would produce empty or NaN output.
// It returns ErrInvalidRecord, a joined set of *MalformedDateError, or nil.
func Validate(rec EmployeeRecord) error {
	if !rec.IsValid() {
		return ErrInvalidRecord
	}

	var errs []error
	if !ParseStartDate(rec.BirthDate).IsValid() {
		errs = append(errs, &MalformedDateError{EmployeeID: rec.EmployeeID, Field: "birthdate", Value: rec.BirthDate})
	}
	if !ParseStartDate(rec.StartDate).IsValid() {
		errs = append(errs, &MalformedDateError{EmployeeID: rec.EmployeeID, Field: "startdate", Value: rec.StartDate})
	}
	return errors.Join(errs...)
}
