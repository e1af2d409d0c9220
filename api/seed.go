/*
seed.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, business
	units, imported rows and overrides that demonstrate specific features.

AVAILABLE SCENARIOS:

	service-shop:    Two units, mixed attribution, one rate override
	efficiency-crew: Efficiency-pay technicians, commission vs hourly floor

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create business units with default rates
 3. Create employees
 4. Import revenue and timesheet rows
 5. Optionally set overrides

USAGE VIA API:

	POST /api/scenarios/load
	{"name": "service-shop"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario handler
*/
package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fieldserve/commission-engine/engine"
	"github.com/fieldserve/commission-engine/store/sqlite"
)

// LoadSeedScenario resets the store and seeds the named scenario.
func LoadSeedScenario(ctx context.Context, store *sqlite.Store, name string) error {
	if err := store.Reset(ctx); err != nil {
		return err
	}

	switch name {
	case "service-shop":
		return loadServiceShop(ctx, store)
	case "efficiency-crew":
		return loadEfficiencyCrew(ctx, store)
	default:
		return fmt.Errorf("unknown scenario: %q", name)
	}
}

func seedDate(s string) engine.Date {
	d, _ := engine.ParseDate(s)
	return d
}

// loadServiceShop seeds a two-unit shop with mixed attribution: one job
// sold by one employee, one job worked by two technicians, and a sales
// rate override for the senior tech.
func loadServiceShop(ctx context.Context, store *sqlite.Store) error {
	employees := []engine.Employee{
		{
			ID:         "emp-1",
			Code:       "JS",
			Name:       "J. Smith",
			HourlyRate: decimal.RequireFromString("25"),
			Status:     engine.StatusActive,
			Plan:       engine.PlanHourlyPlusCommission,
		},
		{
			ID:         "emp-2",
			Code:       "AJ",
			Name:       "A. Jones",
			HourlyRate: decimal.RequireFromString("30"),
			Status:     engine.StatusActive,
			Plan:       engine.PlanHourlyPlusCommission,
		},
		{
			ID:         "emp-3",
			Code:       "TO",
			Name:       "T. Owner",
			HourlyRate: decimal.Zero,
			Status:     engine.StatusExcluded,
			Plan:       engine.PlanHourlyPlusCommission,
		},
	}
	for _, e := range employees {
		if err := store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	units := []engine.BusinessUnit{
		{
			Name:    "HVAC",
			Enabled: true,
			Rates: engine.DefaultRates{
				LeadGeneration: decimal.RequireFromString("2"),
				Sales:          decimal.RequireFromString("3"),
				WorkDone:       decimal.RequireFromString("5"),
			},
		},
		{
			Name:    "Plumbing",
			Enabled: true,
			Rates: engine.DefaultRates{
				LeadGeneration: decimal.RequireFromString("1"),
				Sales:          decimal.RequireFromString("4"),
				WorkDone:       decimal.RequireFromString("6"),
			},
		},
	}
	for _, u := range units {
		if err := store.SaveBusinessUnit(ctx, u); err != nil {
			return err
		}
	}

	if err := store.AddRevenueRecords(ctx, []engine.RevenueRecord{
		{
			BusinessUnit: "HVAC",
			Revenue:      decimal.RequireFromString("1000"),
			JobNumber:    "H-1",
			Date:         seedDate("2024-03-10"),
			SoldBy:       "J. Smith",
		},
		{
			BusinessUnit: "HVAC",
			Revenue:      decimal.RequireFromString("900"),
			JobNumber:    "H-2",
			Date:         seedDate("2024-03-12"),
			Technicians:  "J. Smith & A. Jones",
		},
		{
			BusinessUnit:    "Plumbing",
			Revenue:         decimal.RequireFromString("600"),
			JobNumber:       "P-1",
			Date:            seedDate("2024-03-14"),
			LeadGeneratedBy: "A. Jones",
			SoldBy:          "A. Jones",
			Technicians:     "A. Jones",
		},
	}); err != nil {
		return err
	}

	if err := store.AddHourRows(ctx, []engine.HourRow{
		{EmployeeName: "J. Smith", Hours: engine.Hours{
			Regular:    decimal.RequireFromString("40"),
			Overtime:   decimal.RequireFromString("5"),
			DoubleTime: decimal.Zero,
		}},
		{EmployeeName: "A. Jones", Hours: engine.Hours{
			Regular:    decimal.RequireFromString("40"),
			Overtime:   decimal.Zero,
			DoubleTime: decimal.Zero,
		}},
	}); err != nil {
		return err
	}

	return store.SaveRateOverride(ctx, "HVAC", "A. Jones", engine.Sales, engine.RateOverride{
		Enabled: true,
		Rate:    decimal.RequireFromString("4.5"),
	})
}

// loadEfficiencyCrew seeds efficiency-pay technicians: one whose commission
// beats the hourly base and one protected by the hourly floor.
func loadEfficiencyCrew(ctx context.Context, store *sqlite.Store) error {
	employees := []engine.Employee{
		{
			ID:         "emp-10",
			Code:       "RB",
			Name:       "R. Brooks",
			HourlyRate: decimal.RequireFromString("28"),
			Status:     engine.StatusActive,
			Plan:       engine.PlanEfficiencyPay,
		},
		{
			ID:         "emp-11",
			Code:       "MC",
			Name:       "M. Chen",
			HourlyRate: decimal.RequireFromString("32"),
			Status:     engine.StatusActive,
			Plan:       engine.PlanEfficiencyPay,
		},
	}
	for _, e := range employees {
		if err := store.SaveEmployee(ctx, e); err != nil {
			return err
		}
	}

	if err := store.SaveBusinessUnit(ctx, engine.BusinessUnit{
		Name:    "Electrical",
		Enabled: true,
		Rates: engine.DefaultRates{
			LeadGeneration: decimal.RequireFromString("2"),
			Sales:          decimal.RequireFromString("4"),
			WorkDone:       decimal.RequireFromString("8"),
		},
	}); err != nil {
		return err
	}

	if err := store.AddRevenueRecords(ctx, []engine.RevenueRecord{
		{
			BusinessUnit: "Electrical",
			Revenue:      decimal.RequireFromString("18000"),
			JobNumber:    "E-1",
			Date:         seedDate("2024-03-05"),
			Technicians:  "R. Brooks",
		},
		{
			BusinessUnit: "Electrical",
			Revenue:      decimal.RequireFromString("2500"),
			JobNumber:    "E-2",
			Date:         seedDate("2024-03-08"),
			Technicians:  "M. Chen",
		},
	}); err != nil {
		return err
	}

	return store.AddHourRows(ctx, []engine.HourRow{
		{EmployeeName: "R. Brooks", Hours: engine.Hours{
			Regular:    decimal.RequireFromString("40"),
			Overtime:   decimal.Zero,
			DoubleTime: decimal.Zero,
		}},
		{EmployeeName: "M. Chen", Hours: engine.Hours{
			Regular:    decimal.RequireFromString("40"),
			Overtime:   decimal.RequireFromString("4"),
			DoubleTime: decimal.Zero,
		}},
	})
}
