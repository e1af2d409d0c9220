/*
Package engine provides the core commission and pay calculation engine.

PURPOSE:
  This package contains the types and algorithms that turn an immutable
  snapshot of payroll data (employees, business units, revenue records,
  timesheet hours, overrides) into per-employee pay calculations and a
  period-level summary. It is the only part of the system with non-trivial
  rule logic: rate resolution, commission attribution, hourly-pay
  composition, and the efficiency-pay decision rule.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee / BusinessUnit / RevenueRecord: immutable snapshot inputs
  - RateOverrides / HoursOverrides: per-employee exceptions to defaults
  - CommissionDetail: one credited (job, type, employee) match
  - CommissionCalculation / CommissionSummary: pure calculation outputs
  - Snapshot: the single consistent view one calculation operates on

DESIGN PRINCIPLES:
  1. Purity: the engine never mutates its inputs and holds no state
     between invocations; outputs are a deterministic function of inputs.
  2. Precision: uses decimal.Decimal for all money and hour arithmetic.
  3. Tolerant defaults: malformed or missing data degrades to zero
     contribution instead of aborting a payroll run.
  4. Explicit configuration: business-unit settings and override maps are
     threaded through every call as parameters, never held as globals.

JOIN KEY:
  Employees are matched to revenue and hour rows by exact, case-sensitive
  display name. Two employees sharing a name will be merged. The contract
  is preserved deliberately; swap in a stable-id join here without touching
  the calculation logic.

SEE ALSO:
  - rates.go: override-aware rate resolution
  - attribution.go: per-job commission matching
  - pay.go: hourly pay and pay-plan composition
  - aggregate.go: period summary
  - engine.go: the calculation entry point
*/
package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// COMMISSION TYPES AND PAY PLANS
// =============================================================================

// CommissionType is one of the independently rated revenue-share categories.
type CommissionType string

const (
	LeadGeneration CommissionType = "lead_generation"
	Sales          CommissionType = "sales"
	WorkDone       CommissionType = "work_done"
)

// CommissionTypes lists all types in attribution order. Detail lists are
// emitted business-unit-then-type-then-source-row, so this order is part of
// the output contract.
var CommissionTypes = []CommissionType{LeadGeneration, Sales, WorkDone}

// PayPlan selects how commission combines with hourly pay.
type PayPlan string

const (
	// PlanHourlyPlusCommission pays hourly pay plus total commission.
	PlanHourlyPlusCommission PayPlan = "hourly_plus_commission"

	// PlanEfficiencyPay pays the greater of hourly pay or total commission.
	// It is a guaranteed minimum, never a bonus on top.
	PlanEfficiencyPay PayPlan = "efficiency_pay"
)

// EmployeeStatus reflects payroll eligibility.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "active"
	StatusInactive EmployeeStatus = "inactive"
	StatusHelper   EmployeeStatus = "helper_apprentice"

	// StatusExcluded employees are never emitted by the engine, even when
	// explicitly requested.
	StatusExcluded EmployeeStatus = "excluded_from_payroll"
)

// =============================================================================
// SNAPSHOT INPUTS
// =============================================================================

type Employee struct {
	ID         string
	Code       string // optional external payroll code
	Name       string // display name; the join key against revenue and hour rows
	HourlyRate decimal.Decimal
	Status     EmployeeStatus
	Plan       PayPlan
}

// BusinessUnit carries the default commission rates for one unit. The name
// is the unique key revenue records match against. Disabled units are
// skipped entirely by attribution.
type BusinessUnit struct {
	Name    string
	Enabled bool
	Rates   DefaultRates
}

// DefaultRates holds the three per-type default percentages, each in [0,100].
type DefaultRates struct {
	LeadGeneration decimal.Decimal
	Sales          decimal.Decimal
	WorkDone       decimal.Decimal
}

// For returns the default rate for a commission type. Unknown types resolve
// to zero, which attribution treats as "nothing configured".
func (r DefaultRates) For(t CommissionType) decimal.Decimal {
	switch t {
	case LeadGeneration:
		return r.LeadGeneration
	case Sales:
		return r.Sales
	case WorkDone:
		return r.WorkDone
	default:
		return decimal.Zero
	}
}

// RevenueRecord is one job row from the revenue snapshot. All crediting
// fields are optional; a job may credit zero, one, or many employees.
type RevenueRecord struct {
	BusinessUnit    string
	Revenue         decimal.Decimal
	JobNumber       string
	Date            Date // zero value = undated; undated jobs pass every period filter
	LeadGeneratedBy string
	SoldBy          string
	Technicians     string // raw delimiter-separated list ("Alice, Bob & Carol")
}

// TechnicianList splits the raw assigned-technicians field on commas and
// ampersands, trimming whitespace and dropping empties.
func (r RevenueRecord) TechnicianList() []string {
	fields := strings.FieldsFunc(r.Technicians, func(c rune) bool {
		return c == ',' || c == '&'
	})
	var names []string
	for _, f := range fields {
		if name := strings.TrimSpace(f); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// =============================================================================
// OVERRIDES
// =============================================================================

// RateOverride replaces a business unit's default rate for one exact
// (unit, employee, type) triple, but only while Enabled is true.
type RateOverride struct {
	Enabled bool
	Rate    decimal.Decimal
}

// RateOverrides is keyed unit name -> employee name -> commission type.
type RateOverrides map[string]map[string]map[CommissionType]RateOverride

// Lookup returns the override for the triple, if one exists at all.
// Callers must still check Enabled; a disabled override falls back to the
// unit default rather than erroring.
func (o RateOverrides) Lookup(unit, employee string, t CommissionType) (RateOverride, bool) {
	byEmployee, ok := o[unit]
	if !ok {
		return RateOverride{}, false
	}
	byType, ok := byEmployee[employee]
	if !ok {
		return RateOverride{}, false
	}
	ov, ok := byType[t]
	return ov, ok
}

// Set records an override, allocating nested maps as needed. Convenience
// for snapshot builders and fixtures.
func (o RateOverrides) Set(unit, employee string, t CommissionType, ov RateOverride) {
	byEmployee, ok := o[unit]
	if !ok {
		byEmployee = make(map[string]map[CommissionType]RateOverride)
		o[unit] = byEmployee
	}
	byType, ok := byEmployee[employee]
	if !ok {
		byType = make(map[CommissionType]RateOverride)
		byEmployee[employee] = byType
	}
	byType[t] = ov
}

// Hours is a regular/overtime/double-time breakdown.
type Hours struct {
	Regular    decimal.Decimal
	Overtime   decimal.Decimal
	DoubleTime decimal.Decimal
}

func (h Hours) Add(other Hours) Hours {
	return Hours{
		Regular:    h.Regular.Add(other.Regular),
		Overtime:   h.Overtime.Add(other.Overtime),
		DoubleTime: h.DoubleTime.Add(other.DoubleTime),
	}
}

func (h Hours) Total() decimal.Decimal {
	return h.Regular.Add(h.Overtime).Add(h.DoubleTime)
}

// HoursOverrides is keyed by employee name. An entry replaces ALL timesheet
// aggregation for that employee for the period; the override is
// all-or-nothing, never per hour bucket.
type HoursOverrides map[string]Hours

// HourRow is one normalized timesheet row. Raw uploads are normalized into
// this shape by the ingest package before the engine ever sees them.
type HourRow struct {
	EmployeeName string
	Hours
}

// =============================================================================
// SNAPSHOT - everything one calculation sees
// =============================================================================

// Snapshot is the immutable, caller-supplied view for a single calculation.
// The engine never writes back to it, so any number of calculations may run
// concurrently against the same snapshot without coordination.
type Snapshot struct {
	Employees      []Employee
	BusinessUnits  []BusinessUnit
	Revenue        []RevenueRecord
	Hours          []HourRow
	RateOverrides  RateOverrides
	HoursOverrides HoursOverrides
}

// EmployeeByID returns the employee with the given id, if present.
func (s Snapshot) EmployeeByID(id string) (Employee, bool) {
	for _, e := range s.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// =============================================================================
// CALCULATION OUTPUTS
// =============================================================================

// CommissionDetail is one credited (job, type, employee) match. Amount is
// Revenue x Rate / 100, rounded to the currency minor unit half away from
// zero.
type CommissionDetail struct {
	Type         CommissionType  `json:"type"`
	BusinessUnit string          `json:"business_unit"`
	JobNumber    string          `json:"job_number,omitempty"`
	Date         Date            `json:"date,omitzero"`
	Revenue      decimal.Decimal `json:"revenue"`
	Rate         decimal.Decimal `json:"rate"`
	Amount       decimal.Decimal `json:"amount"`
}

// CommissionCalculation is the full pay result for one employee for one
// period.
type CommissionCalculation struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	Plan         PayPlan `json:"pay_plan"`

	Hours     Hours           `json:"hours"`
	HourlyPay decimal.Decimal `json:"hourly_pay"`

	TotalsByType    map[CommissionType]decimal.Decimal `json:"totals_by_type"`
	TotalCommission decimal.Decimal                    `json:"total_commission"`

	// EfficiencyBonus is final pay minus hourly pay for efficiency-plan
	// employees (never negative under the max rule) and zero otherwise.
	EfficiencyBonus decimal.Decimal `json:"efficiency_bonus"`
	FinalPay        decimal.Decimal `json:"final_pay"`

	Details []CommissionDetail `json:"details"`
}

// EfficiencySummary aggregates statistics across employees on the
// efficiency-pay plan only.
type EfficiencySummary struct {
	EmployeeCount   int             `json:"employee_count"`
	AverageFinalPay decimal.Decimal `json:"average_final_pay"`

	// PositiveBonusCount counts strictly positive bonuses. The negative
	// bucket is unreachable under the max rule and stays zero.
	PositiveBonusCount int `json:"positive_bonus_count"`
	NegativeBonusCount int `json:"negative_bonus_count"`
}

// CommissionSummary is the period rollup. Derived, never persisted by the
// engine; recomputed on every request from the supplied snapshot.
type CommissionSummary struct {
	EmployeeCount   int             `json:"employee_count"`
	TotalCommission decimal.Decimal `json:"total_commission"`
	TotalHourlyPay  decimal.Decimal `json:"total_hourly_pay"`
	TotalFinalPay   decimal.Decimal `json:"total_final_pay"`

	ByType map[CommissionType]decimal.Decimal `json:"by_type"`

	// ByBusinessUnit is keyed by the unit name string, not a synthetic id.
	ByBusinessUnit map[string]decimal.Decimal `json:"by_business_unit"`

	Efficiency EfficiencySummary `json:"efficiency"`
}

// CalculationInput is the engine's single entry-point request.
type CalculationInput struct {
	EmployeeIDs []string
	Period      Period
	PayPeriodID string // optional caller reference, echoed back untouched
}

// CalculationResult pairs the per-employee calculations with the period
// summary. Efficiency is nil when no efficiency-plan employee was emitted.
type CalculationResult struct {
	PayPeriodID  string                  `json:"pay_period_id,omitempty"`
	Period       Period                  `json:"period"`
	Calculations []CommissionCalculation `json:"calculations"`
	Summary      CommissionSummary       `json:"summary"`
	Efficiency   *EfficiencySummary      `json:"efficiency_results,omitempty"`
}

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var hundred = decimal.NewFromInt(100)

// MustDecimal parses s, returning zero for anything non-numeric. Payroll
// imports prefer a zero contribution over a failed run.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// roundCurrency rounds to the pay currency's minor unit. decimal.Round is
// half-away-from-zero, matching payroll conventions (never banker's
// rounding).
func roundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
