/*
errors.go - Error types for the calculation engine

PURPOSE:
  The error taxonomy is deliberately narrow. Only malformed requests abort
  a calculation; every data-quality anomaly (non-numeric revenue, missing
  columns, employees absent from the timesheet) silently resolves to a zero
  contribution so one bad row never sinks a whole period's payroll run.

ERROR CATEGORIES:
  1. Input errors - rejected before any per-employee work begins
  2. Everything else - recovered locally, never surfaced

USAGE:
  if engine.IsInputError(err) {
      // report as a rejected request (HTTP 400)
  }
*/
package engine

import "errors"

var (
	// ErrNoEmployees is returned when the request names no employee ids.
	ErrNoEmployees = errors.New("no employees requested")

	// ErrInvalidPeriod is returned unless start_date is strictly before
	// end_date.
	ErrInvalidPeriod = errors.New("invalid period: start date must be before end date")

	// ErrNoEmployeeData is returned when the snapshot holds no employees
	// at all.
	ErrNoEmployeeData = errors.New("no employee data available")
)

// IsInputError returns true if the error is due to a malformed calculation
// request rather than an internal failure.
func IsInputError(err error) bool {
	return errors.Is(err, ErrNoEmployees) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrNoEmployeeData)
}
