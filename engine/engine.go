/*
engine.go - The single calculation entry point

PURPOSE:
  Ties the components together into one deterministic pass:

    validate request
      -> filter revenue to the period
      -> for each requested employee:
           attribute commissions (rates.go, attribution.go)
           resolve hours (hours.go)
           compose pay (pay.go)
      -> aggregate the summary (aggregate.go)

CONCURRENCY:
  The engine is synchronous and stateless per call. It holds no state
  between invocations, never mutates the snapshot, and needs no locking;
  concurrent calculations over the same snapshot require no coordination.
  Cancellation is caller-level - computation is bounded by input size and
  involves no I/O, so there is no internal timeout logic.

ERRORS:
  Only the input errors in errors.go abort a calculation. Unknown employee
  ids are skipped (pre-filtering is the caller's job), and excluded-from-
  payroll employees are never emitted even when explicitly requested.
*/
package engine

import "github.com/shopspring/decimal"

// Engine is the commission and pay calculation engine. The zero value is
// ready to use; it carries no configuration and no state.
type Engine struct{}

// Calculate runs one full calculation over the snapshot and returns the
// per-employee calculations plus the period summary. Identical inputs
// always produce identical output.
func (Engine) Calculate(input CalculationInput, snap Snapshot) (*CalculationResult, error) {
	if len(input.EmployeeIDs) == 0 {
		return nil, ErrNoEmployees
	}
	if !input.Period.Valid() {
		return nil, ErrInvalidPeriod
	}
	if len(snap.Employees) == 0 {
		return nil, ErrNoEmployeeData
	}

	revenue := filterRevenue(snap.Revenue, input.Period)

	calculations := make([]CommissionCalculation, 0, len(input.EmployeeIDs))
	seen := make(map[string]bool, len(input.EmployeeIDs))

	for _, id := range input.EmployeeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		emp, ok := snap.EmployeeByID(id)
		if !ok || emp.Status == StatusExcluded {
			continue
		}

		details := AttributeCommissions(emp, revenue, snap.BusinessUnits, snap.RateOverrides)
		byType, total := totalDetails(details)

		hours := ResolveHours(emp.Name, snap.Hours, snap.HoursOverrides)
		hourlyPay, bonus, finalPay := ComposePay(hours, emp.HourlyRate, total, emp.Plan)

		calculations = append(calculations, CommissionCalculation{
			EmployeeID:      emp.ID,
			EmployeeName:    emp.Name,
			Plan:            emp.Plan,
			Hours:           hours,
			HourlyPay:       hourlyPay,
			TotalsByType:    byType,
			TotalCommission: total,
			EfficiencyBonus: bonus,
			FinalPay:        finalPay,
			Details:         details,
		})
	}

	result := &CalculationResult{
		PayPeriodID:  input.PayPeriodID,
		Period:       input.Period,
		Calculations: calculations,
		Summary:      Aggregate(calculations),
	}
	if result.Summary.Efficiency.EmployeeCount > 0 {
		eff := result.Summary.Efficiency
		result.Efficiency = &eff
	}
	return result, nil
}

// filterRevenue keeps records dated inside the period. Records without a
// date are NOT filtered out; they are included, matching best-effort legacy
// behavior for partially filled imports.
func filterRevenue(revenue []RevenueRecord, period Period) []RevenueRecord {
	filtered := make([]RevenueRecord, 0, len(revenue))
	for _, r := range revenue {
		if r.Date.IsZero() || period.Contains(r.Date) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// totalDetails folds a detail list into per-type totals and the grand
// total. All three types are always present in the map so output shapes
// stay stable across employees.
func totalDetails(details []CommissionDetail) (map[CommissionType]decimal.Decimal, decimal.Decimal) {
	byType := make(map[CommissionType]decimal.Decimal, len(CommissionTypes))
	for _, t := range CommissionTypes {
		byType[t] = decimal.Zero
	}
	total := decimal.Zero
	for _, d := range details {
		byType[d.Type] = byType[d.Type].Add(d.Amount)
		total = total.Add(d.Amount)
	}
	return byType, total
}
