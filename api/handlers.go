/*
handlers.go - HTTP API handlers for the commission engine

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Calculations:
    POST   /api/calculations           Run a calculation, persist the result
    GET    /api/calculations           List saved runs (metadata only)
    GET    /api/calculations/{id}      Fetch one saved run with full payload

  Configuration:
    GET    /api/employees              List employees
    POST   /api/employees              Create/update employee
    GET    /api/business-units         List business units
    POST   /api/business-units         Create/update business unit
    POST   /api/overrides/rates        Set a per-employee rate override
    POST   /api/overrides/hours        Set a per-employee hours override

  Imports:
    POST   /api/import/revenue         Import job revenue rows
    POST   /api/import/hours           Import timesheet rows

  Reports:
    GET    /api/reports/commission.xlsx?start=&end=  XLSX export

  Scenarios:
    POST   /api/scenarios/load         Load a demo scenario
    POST   /api/scenarios/reset        Clear the database

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Load the snapshot, call the engine
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, engine input errors (empty selection, bad period)
  - 404: Resource not found
  - 500: Internal errors
  Data-quality anomalies never surface here: the engine coerces them to
  zero contributions, so a calculation request fails only on bad input.

SEE ALSO:
  - dto.go: Request/response data structures
  - seed.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldserve/commission-engine/engine"
	"github.com/fieldserve/commission-engine/ingest"
	"github.com/fieldserve/commission-engine/report"
	"github.com/fieldserve/commission-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine engine.Engine
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{Store: store}
}

var maxRate = decimal.NewFromInt(100)

// parsePercentRate parses a commission rate and enforces the percentage
// range: 0 <= rate <= 100. Ill-ranged configuration is rejected here so
// the engine can trust every stored rate.
func parsePercentRate(s string) (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if rate.IsNegative() || rate.GreaterThan(maxRate) {
		return decimal.Decimal{}, fmt.Errorf("rate %s outside [0, 100]", rate)
	}
	return rate, nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// Calculate runs the engine over the stored snapshot and persists the result.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := calculationInput(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid calculation request", err)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	result, err := h.Engine.Calculate(input, snap)
	if err != nil {
		if engine.IsInputError(err) {
			writeError(w, r, http.StatusBadRequest, "Invalid calculation request", err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	run := sqlite.CalculationRun{
		ID:          uuid.NewString(),
		PayPeriodID: result.PayPeriodID,
		Period:      result.Period,
		Result:      result,
		CreatedAt:   time.Now(),
	}
	if err := h.Store.SaveRun(r.Context(), run); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save run", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, CalculationResponse{RunID: run.ID, Result: result})
}

func calculationInput(req CalculationRequest) (engine.CalculationInput, error) {
	start, err := engine.ParseDate(req.StartDate)
	if err != nil {
		return engine.CalculationInput{}, err
	}
	end, err := engine.ParseDate(req.EndDate)
	if err != nil {
		return engine.CalculationInput{}, err
	}
	return engine.CalculationInput{
		EmployeeIDs: req.EmployeeIDs,
		Period:      engine.Period{Start: start, End: end},
		PayPeriodID: req.PayPeriodID,
	}, nil
}

// ListCalculations returns saved run metadata, newest first.
func (h *Handler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list runs", err)
		return
	}

	dtos := make([]RunSummaryDTO, len(runs))
	for i, run := range runs {
		dtos[i] = RunSummaryDTO{
			ID:          run.ID,
			PayPeriodID: run.PayPeriodID,
			PeriodStart: run.Period.Start.String(),
			PeriodEnd:   run.Period.End.String(),
			CreatedAt:   run.CreatedAt.Format(time.RFC3339),
		}
	}
	render.JSON(w, r, dtos)
}

// GetCalculation returns a saved run with its full result payload.
func (h *Handler) GetCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.Store.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to get run", err)
		return
	}
	if run == nil {
		writeError(w, r, http.StatusNotFound, "Run not found", nil)
		return
	}

	render.JSON(w, r, CalculationResponse{RunID: run.ID, Result: run.Result})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = EmployeeDTO{
			ID:         e.ID,
			Code:       e.Code,
			Name:       e.Name,
			HourlyRate: e.HourlyRate.String(),
			Status:     string(e.Status),
			PayPlan:    string(e.Plan),
		}
	}
	render.JSON(w, r, dtos)
}

// SaveEmployee creates or updates an employee.
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	rate, err := decimal.NewFromString(req.HourlyRate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid hourly_rate", err)
		return
	}
	if rate.IsNegative() {
		writeError(w, r, http.StatusBadRequest, "hourly_rate must not be negative", nil)
		return
	}

	plan := engine.PayPlan(req.PayPlan)
	if plan == "" {
		plan = engine.PlanHourlyPlusCommission
	}
	status := engine.EmployeeStatus(req.Status)
	if status == "" {
		status = engine.StatusActive
	}

	e := engine.Employee{
		ID:         req.ID,
		Code:       req.Code,
		Name:       req.Name,
		HourlyRate: rate,
		Status:     status,
		Plan:       plan,
	}
	if err := h.Store.SaveEmployee(r.Context(), e); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, EmployeeDTO{
		ID:         e.ID,
		Code:       e.Code,
		Name:       e.Name,
		HourlyRate: e.HourlyRate.String(),
		Status:     string(e.Status),
		PayPlan:    string(e.Plan),
	})
}

// =============================================================================
// BUSINESS UNIT HANDLERS
// =============================================================================

// ListBusinessUnits returns all business units.
func (h *Handler) ListBusinessUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.Store.ListBusinessUnits(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list business units", err)
		return
	}

	dtos := make([]BusinessUnitDTO, len(units))
	for i, u := range units {
		dtos[i] = BusinessUnitDTO{
			Name:    u.Name,
			Enabled: u.Enabled,
			Rates: RatesDTO{
				LeadGeneration: u.Rates.LeadGeneration.String(),
				Sales:          u.Rates.Sales.String(),
				WorkDone:       u.Rates.WorkDone.String(),
			},
		}
	}
	render.JSON(w, r, dtos)
}

// SaveBusinessUnit creates or updates a business unit.
func (h *Handler) SaveBusinessUnit(w http.ResponseWriter, r *http.Request) {
	var req SaveBusinessUnitRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required", nil)
		return
	}

	rates, err := parseRates(req.Rates)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid rates", err)
		return
	}

	u := engine.BusinessUnit{Name: req.Name, Enabled: req.Enabled, Rates: rates}
	if err := h.Store.SaveBusinessUnit(r.Context(), u); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save business unit", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, BusinessUnitDTO{
		Name:    u.Name,
		Enabled: u.Enabled,
		Rates: RatesDTO{
			LeadGeneration: u.Rates.LeadGeneration.String(),
			Sales:          u.Rates.Sales.String(),
			WorkDone:       u.Rates.WorkDone.String(),
		},
	})
}

func parseRates(dto RatesDTO) (engine.DefaultRates, error) {
	leadGen, err := parsePercentRate(dto.LeadGeneration)
	if err != nil {
		return engine.DefaultRates{}, err
	}
	sales, err := parsePercentRate(dto.Sales)
	if err != nil {
		return engine.DefaultRates{}, err
	}
	workDone, err := parsePercentRate(dto.WorkDone)
	if err != nil {
		return engine.DefaultRates{}, err
	}
	return engine.DefaultRates{LeadGeneration: leadGen, Sales: sales, WorkDone: workDone}, nil
}

// =============================================================================
// OVERRIDE HANDLERS
// =============================================================================

// SetRateOverride sets one (unit, employee, type) rate override.
func (h *Handler) SetRateOverride(w http.ResponseWriter, r *http.Request) {
	var req RateOverrideRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.BusinessUnit == "" || req.EmployeeName == "" {
		writeError(w, r, http.StatusBadRequest, "business_unit and employee_name are required", nil)
		return
	}

	t := engine.CommissionType(req.CommissionType)
	if !validCommissionType(t) {
		writeError(w, r, http.StatusBadRequest, "Unknown commission_type", nil)
		return
	}

	rate, err := parsePercentRate(req.Rate)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid rate", err)
		return
	}

	ov := engine.RateOverride{Enabled: req.Enabled, Rate: rate}
	if err := h.Store.SaveRateOverride(r.Context(), req.BusinessUnit, req.EmployeeName, t, ov); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save override", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, RateOverrideRequest{
		BusinessUnit:   req.BusinessUnit,
		EmployeeName:   req.EmployeeName,
		CommissionType: string(t),
		Enabled:        ov.Enabled,
		Rate:           ov.Rate.String(),
	})
}

func validCommissionType(t engine.CommissionType) bool {
	for _, known := range engine.CommissionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SetHoursOverride sets the full hours triple for one employee. The
// override replaces timesheet hours entirely, including any bucket sent
// as zero.
func (h *Handler) SetHoursOverride(w http.ResponseWriter, r *http.Request) {
	var req HoursOverrideRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeName == "" {
		writeError(w, r, http.StatusBadRequest, "employee_name is required", nil)
		return
	}

	hours := engine.Hours{
		Regular:    engine.MustDecimal(req.Regular),
		Overtime:   engine.MustDecimal(req.Overtime),
		DoubleTime: engine.MustDecimal(req.DoubleTime),
	}
	if err := h.Store.SaveHoursOverride(r.Context(), req.EmployeeName, hours); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save override", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, HoursOverrideRequest{
		EmployeeName: req.EmployeeName,
		Regular:      hours.Regular.String(),
		Overtime:     hours.Overtime.String(),
		DoubleTime:   hours.DoubleTime.String(),
	})
}

// =============================================================================
// IMPORT HANDLERS
// =============================================================================

// ImportRevenue accepts spreadsheet-shaped revenue rows. Column headers are
// normalized by the ingest package; unparseable cells become zero.
func (h *Handler) ImportRevenue(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	records := ingest.RevenueRecords(req.Rows)
	if err := h.Store.AddRevenueRecords(r.Context(), records); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to store revenue", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ImportResponse{Imported: len(records)})
}

// ImportHours accepts spreadsheet-shaped timesheet rows.
func (h *Handler) ImportHours(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	rows := ingest.HourRows(req.Rows)
	if err := h.Store.AddHourRows(r.Context(), rows); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to store hours", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ImportResponse{Imported: len(rows)})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// ExportReport calculates over every stored employee for the requested
// period and streams the result as an XLSX workbook.
// GET /api/reports/commission.xlsx?start=2024-03-01&end=2024-03-15
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	start, err := engine.ParseDate(r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := engine.ParseDate(r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid end date", err)
		return
	}

	snap, err := h.Store.LoadSnapshot(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load snapshot", err)
		return
	}

	ids := make([]string, len(snap.Employees))
	for i, e := range snap.Employees {
		ids[i] = e.ID
	}

	input := engine.CalculationInput{
		EmployeeIDs: ids,
		Period:      engine.Period{Start: start, End: end},
	}
	result, err := h.Engine.Calculate(input, snap)
	if err != nil {
		if engine.IsInputError(err) {
			writeError(w, r, http.StatusBadRequest, "Invalid report request", err)
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Calculation failed", err)
		return
	}

	wb, err := report.CommissionWorkbook(result)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to build workbook", err)
		return
	}
	defer wb.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="commission-`+input.Period.Start.String()+`.xlsx"`)
	if err := wb.Write(w); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// LoadScenario resets the database and seeds the named demo scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := LoadSeedScenario(r.Context(), h.Store, req.Name); err != nil {
		writeError(w, r, http.StatusBadRequest, "Failed to load scenario", err)
		return
	}

	render.JSON(w, r, map[string]string{"loaded": req.Name})
}

// ResetDatabase clears every table.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	render.JSON(w, r, map[string]string{"status": "reset"})
}
