/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

MONEY FIELDS:
  Rates, amounts and hours travel as decimal strings ("25.00"), never as
  floats. Parsing happens once, in handlers, via engine.MustDecimal or
  decimal.NewFromString for fields that must be validated.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Domain model these map onto
*/
package api

// =============================================================================
// EMPLOYEES AND BUSINESS UNITS
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Code       string `json:"code,omitempty"`
	Name       string `json:"name"`
	HourlyRate string `json:"hourly_rate"`
	Status     string `json:"status"`
	PayPlan    string `json:"pay_plan"`
}

// SaveEmployeeRequest creates or updates an employee.
type SaveEmployeeRequest struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	HourlyRate string `json:"hourly_rate"`
	Status     string `json:"status"`
	PayPlan    string `json:"pay_plan"`
}

// RatesDTO carries the three per-type percentage rates.
type RatesDTO struct {
	LeadGeneration string `json:"lead_generation"`
	Sales          string `json:"sales"`
	WorkDone       string `json:"work_done"`
}

// BusinessUnitDTO represents a business unit in API responses.
type BusinessUnitDTO struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Rates   RatesDTO `json:"rates"`
}

// SaveBusinessUnitRequest creates or updates a business unit.
type SaveBusinessUnitRequest struct {
	Name    string   `json:"name"`
	Enabled bool     `json:"enabled"`
	Rates   RatesDTO `json:"rates"`
}

// =============================================================================
// OVERRIDES
// =============================================================================

// RateOverrideRequest sets one (unit, employee, type) rate override.
type RateOverrideRequest struct {
	BusinessUnit   string `json:"business_unit"`
	EmployeeName   string `json:"employee_name"`
	CommissionType string `json:"commission_type"`
	Enabled        bool   `json:"enabled"`
	Rate           string `json:"rate"`
}

// HoursOverrideRequest sets the full hours triple for one employee.
type HoursOverrideRequest struct {
	EmployeeName string `json:"employee_name"`
	Regular      string `json:"regular"`
	Overtime     string `json:"overtime"`
	DoubleTime   string `json:"double_time"`
}

// =============================================================================
// CALCULATIONS
// =============================================================================

// CalculationRequest runs the engine over the stored snapshot.
type CalculationRequest struct {
	EmployeeIDs []string `json:"employee_ids"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	PayPeriodID string   `json:"pay_period_id,omitempty"`
}

// CalculationResponse wraps an engine result with its persisted run id.
type CalculationResponse struct {
	RunID  string `json:"run_id"`
	Result any    `json:"result"`
}

// RunSummaryDTO is a saved run without its result payload.
type RunSummaryDTO struct {
	ID          string `json:"id"`
	PayPeriodID string `json:"pay_period_id,omitempty"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	CreatedAt   string `json:"created_at"`
}

// =============================================================================
// IMPORTS AND SCENARIOS
// =============================================================================

// ImportRequest carries spreadsheet-shaped rows: one map per row, keyed by
// column header. Header sniffing happens in the ingest package.
type ImportRequest struct {
	Rows []map[string]string `json:"rows"`
}

// ImportResponse reports how many rows were accepted.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// LoadScenarioRequest selects a demo scenario by name.
type LoadScenarioRequest struct {
	Name string `json:"name"`
}

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
