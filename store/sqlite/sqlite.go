/*
Package sqlite provides the SQLite-backed snapshot store.

PURPOSE:
  Persists the configuration and imported data the engine calculates over
  (employees, business units, overrides, revenue and hour rows) plus saved
  calculation runs. The engine itself is storage-free; this package is the
  collaborator that assembles its one consistent Snapshot per request.

KEY TABLES:
  employees:         Payroll identities, rates, status, pay plan
  business_units:    Unit defaults for the three commission types
  rate_overrides:    (unit, employee, type) -> enabled + rate
  hours_overrides:   employee -> regular/overtime/double-time
  revenue_records:   Imported job rows
  hour_entries:      Imported timesheet rows
  calculation_runs:  Persisted results, JSON-encoded, keyed by uuid

SNAPSHOT CONSISTENCY:
  LoadSnapshot reads every table under one read lock so a calculation sees
  a single consistent view; the engine never re-reads mid-calculation.

DECIMAL STORAGE:
  Rates, revenue and hours are stored as decimal text so values round-trip
  exactly. Floats never touch money.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/commission.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  snap, err := store.LoadSnapshot(ctx)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/types.go: Snapshot and the domain types persisted here
  - api/handlers.go: HTTP layer that drives this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fieldserve/commission-engine/engine"
)

// Store implements snapshot loading and run persistence over SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given path. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		code TEXT,
		name TEXT NOT NULL,
		hourly_rate TEXT NOT NULL,
		status TEXT NOT NULL,
		pay_plan TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_name ON employees(name);

	CREATE TABLE IF NOT EXISTS business_units (
		name TEXT PRIMARY KEY,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		lead_gen_rate TEXT NOT NULL,
		sales_rate TEXT NOT NULL,
		work_done_rate TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS rate_overrides (
		business_unit TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		commission_type TEXT NOT NULL,
		enabled BOOLEAN NOT NULL,
		rate TEXT NOT NULL,
		PRIMARY KEY (business_unit, employee_name, commission_type)
	);

	CREATE TABLE IF NOT EXISTS hours_overrides (
		employee_name TEXT PRIMARY KEY,
		regular TEXT NOT NULL,
		overtime TEXT NOT NULL,
		double_time TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS revenue_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		business_unit TEXT NOT NULL,
		revenue TEXT NOT NULL,
		job_number TEXT,
		job_date TEXT,
		lead_generated_by TEXT,
		sold_by TEXT,
		technicians TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_revenue_unit ON revenue_records(business_unit);
	CREATE INDEX IF NOT EXISTS idx_revenue_date ON revenue_records(job_date);

	CREATE TABLE IF NOT EXISTS hour_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_name TEXT NOT NULL,
		regular TEXT NOT NULL,
		overtime TEXT NOT NULL,
		double_time TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_hours_employee ON hour_entries(employee_name);

	CREATE TABLE IF NOT EXISTS calculation_runs (
		id TEXT PRIMARY KEY,
		pay_period_id TEXT,
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON calculation_runs(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e engine.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, code, name, hourly_rate, status, pay_plan)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			hourly_rate = excluded.hourly_rate,
			status = excluded.status,
			pay_plan = excluded.pay_plan`,
		e.ID, e.Code, e.Name, e.HourlyRate.String(), string(e.Status), string(e.Plan))
	return err
}

func (s *Store) ListEmployees(ctx context.Context) ([]engine.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listEmployees(ctx)
}

func (s *Store) listEmployees(ctx context.Context) ([]engine.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, hourly_rate, status, pay_plan
		FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []engine.Employee
	for rows.Next() {
		var e engine.Employee
		var rate, status, plan string
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &rate, &status, &plan); err != nil {
			return nil, err
		}
		e.HourlyRate = engine.MustDecimal(rate)
		e.Status = engine.EmployeeStatus(status)
		e.Plan = engine.PayPlan(plan)
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// BUSINESS UNITS
// =============================================================================

func (s *Store) SaveBusinessUnit(ctx context.Context, u engine.BusinessUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO business_units (name, enabled, lead_gen_rate, sales_rate, work_done_rate)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			enabled = excluded.enabled,
			lead_gen_rate = excluded.lead_gen_rate,
			sales_rate = excluded.sales_rate,
			work_done_rate = excluded.work_done_rate`,
		u.Name, u.Enabled, u.Rates.LeadGeneration.String(), u.Rates.Sales.String(), u.Rates.WorkDone.String())
	return err
}

func (s *Store) ListBusinessUnits(ctx context.Context) ([]engine.BusinessUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listBusinessUnits(ctx)
}

func (s *Store) listBusinessUnits(ctx context.Context) ([]engine.BusinessUnit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, enabled, lead_gen_rate, sales_rate, work_done_rate
		FROM business_units ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []engine.BusinessUnit
	for rows.Next() {
		var u engine.BusinessUnit
		var leadGen, sales, workDone string
		if err := rows.Scan(&u.Name, &u.Enabled, &leadGen, &sales, &workDone); err != nil {
			return nil, err
		}
		u.Rates = engine.DefaultRates{
			LeadGeneration: engine.MustDecimal(leadGen),
			Sales:          engine.MustDecimal(sales),
			WorkDone:       engine.MustDecimal(workDone),
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// =============================================================================
// OVERRIDES
// =============================================================================

func (s *Store) SaveRateOverride(ctx context.Context, unit, employeeName string, t engine.CommissionType, ov engine.RateOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rate_overrides (business_unit, employee_name, commission_type, enabled, rate)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(business_unit, employee_name, commission_type) DO UPDATE SET
			enabled = excluded.enabled,
			rate = excluded.rate`,
		unit, employeeName, string(t), ov.Enabled, ov.Rate.String())
	return err
}

func (s *Store) SaveHoursOverride(ctx context.Context, employeeName string, h engine.Hours) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO hours_overrides (employee_name, regular, overtime, double_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(employee_name) DO UPDATE SET
			regular = excluded.regular,
			overtime = excluded.overtime,
			double_time = excluded.double_time`,
		employeeName, h.Regular.String(), h.Overtime.String(), h.DoubleTime.String())
	return err
}

func (s *Store) loadRateOverrides(ctx context.Context) (engine.RateOverrides, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT business_unit, employee_name, commission_type, enabled, rate
		FROM rate_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := engine.RateOverrides{}
	for rows.Next() {
		var unit, name, commissionType, rate string
		var enabled bool
		if err := rows.Scan(&unit, &name, &commissionType, &enabled, &rate); err != nil {
			return nil, err
		}
		overrides.Set(unit, name, engine.CommissionType(commissionType), engine.RateOverride{
			Enabled: enabled,
			Rate:    engine.MustDecimal(rate),
		})
	}
	return overrides, rows.Err()
}

func (s *Store) loadHoursOverrides(ctx context.Context) (engine.HoursOverrides, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_name, regular, overtime, double_time
		FROM hours_overrides`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	overrides := engine.HoursOverrides{}
	for rows.Next() {
		var name, regular, overtime, doubleTime string
		if err := rows.Scan(&name, &regular, &overtime, &doubleTime); err != nil {
			return nil, err
		}
		overrides[name] = engine.Hours{
			Regular:    engine.MustDecimal(regular),
			Overtime:   engine.MustDecimal(overtime),
			DoubleTime: engine.MustDecimal(doubleTime),
		}
	}
	return overrides, rows.Err()
}

// =============================================================================
// IMPORTED DATA
// =============================================================================

// AddRevenueRecords appends imported job rows atomically.
func (s *Store) AddRevenueRecords(ctx context.Context, records []engine.RevenueRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range records {
		var jobDate string
		if !r.Date.IsZero() {
			jobDate = r.Date.String()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO revenue_records
				(business_unit, revenue, job_number, job_date, lead_generated_by, sold_by, technicians)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.BusinessUnit, r.Revenue.String(), r.JobNumber, jobDate,
			r.LeadGeneratedBy, r.SoldBy, r.Technicians); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AddHourRows appends imported timesheet rows atomically.
func (s *Store) AddHourRows(ctx context.Context, rows []engine.HourRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hour_entries (employee_name, regular, overtime, double_time)
			VALUES (?, ?, ?, ?)`,
			r.EmployeeName, r.Regular.String(), r.Overtime.String(), r.DoubleTime.String()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) loadRevenue(ctx context.Context) ([]engine.RevenueRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT business_unit, revenue, job_number, job_date, lead_generated_by, sold_by, technicians
		FROM revenue_records ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []engine.RevenueRecord
	for rows.Next() {
		var r engine.RevenueRecord
		var revenue, jobDate string
		if err := rows.Scan(&r.BusinessUnit, &revenue, &r.JobNumber, &jobDate,
			&r.LeadGeneratedBy, &r.SoldBy, &r.Technicians); err != nil {
			return nil, err
		}
		r.Revenue = engine.MustDecimal(revenue)
		if jobDate != "" {
			if d, err := engine.ParseDate(jobDate); err == nil {
				r.Date = d
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) loadHours(ctx context.Context) ([]engine.HourRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_name, regular, overtime, double_time
		FROM hour_entries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []engine.HourRow
	for rows.Next() {
		var r engine.HourRow
		var regular, overtime, doubleTime string
		if err := rows.Scan(&r.EmployeeName, &regular, &overtime, &doubleTime); err != nil {
			return nil, err
		}
		r.Hours = engine.Hours{
			Regular:    engine.MustDecimal(regular),
			Overtime:   engine.MustDecimal(overtime),
			DoubleTime: engine.MustDecimal(doubleTime),
		}
		entries = append(entries, r)
	}
	return entries, rows.Err()
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// LoadSnapshot assembles the full snapshot under a single read lock so a
// calculation operates on one consistent view.
func (s *Store) LoadSnapshot(ctx context.Context) (engine.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees, err := s.listEmployees(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	units, err := s.listBusinessUnits(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	revenue, err := s.loadRevenue(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	hours, err := s.loadHours(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	rateOverrides, err := s.loadRateOverrides(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	hoursOverrides, err := s.loadHoursOverrides(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}

	return engine.Snapshot{
		Employees:      employees,
		BusinessUnits:  units,
		Revenue:        revenue,
		Hours:          hours,
		RateOverrides:  rateOverrides,
		HoursOverrides: hoursOverrides,
	}, nil
}

// Reset clears every table. Used by the demo scenario loader and tests.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{
		"employees", "business_units", "rate_overrides",
		"hours_overrides", "revenue_records", "hour_entries", "calculation_runs",
	} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// CALCULATION RUNS
// =============================================================================

// CalculationRun is one persisted engine result.
type CalculationRun struct {
	ID          string
	PayPeriodID string
	Period      engine.Period
	Result      *engine.CalculationResult
	CreatedAt   time.Time
}

func (s *Store) SaveRun(ctx context.Context, run CalculationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	resultJSON, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculation_runs (id, pay_period_id, period_start, period_end, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.PayPeriodID, run.Period.Start.String(), run.Period.End.String(),
		string(resultJSON), run.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// GetRun returns a saved run, or nil when no run has that id.
func (s *Store) GetRun(ctx context.Context, id string) (*CalculationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, pay_period_id, period_start, period_end, result_json, created_at
		FROM calculation_runs WHERE id = ?`, id)

	var run CalculationRun
	var start, end, resultJSON, createdAt string
	err := row.Scan(&run.ID, &run.PayPeriodID, &start, &end, &resultJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.Period = parsePeriod(start, end)
	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	var result engine.CalculationResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	run.Result = &result
	return &run, nil
}

// ListRuns returns saved runs, newest first, without the (possibly large)
// result payloads.
func (s *Store) ListRuns(ctx context.Context) ([]CalculationRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, pay_period_id, period_start, period_end, created_at
		FROM calculation_runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []CalculationRun
	for rows.Next() {
		var run CalculationRun
		var start, end, createdAt string
		if err := rows.Scan(&run.ID, &run.PayPeriodID, &start, &end, &createdAt); err != nil {
			return nil, err
		}
		run.Period = parsePeriod(start, end)
		run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func parsePeriod(start, end string) engine.Period {
	var p engine.Period
	if d, err := engine.ParseDate(start); err == nil {
		p.Start = d
	}
	if d, err := engine.ParseDate(end); err == nil {
		p.End = d
	}
	return p
}
