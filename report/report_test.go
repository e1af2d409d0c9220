package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/commission-engine/engine"
)

func sampleResult(t *testing.T) *engine.CalculationResult {
	t.Helper()
	start, err := engine.ParseDate("2024-03-01")
	require.NoError(t, err)
	end, err := engine.ParseDate("2024-03-15")
	require.NoError(t, err)
	jobDate, err := engine.ParseDate("2024-03-10")
	require.NoError(t, err)

	return &engine.CalculationResult{
		Period: engine.Period{Start: start, End: end},
		Calculations: []engine.CommissionCalculation{{
			EmployeeID:   "emp-1",
			EmployeeName: "J. Smith",
			Plan:         engine.PlanHourlyPlusCommission,
			Hours: engine.Hours{
				Regular:  decimal.RequireFromString("40"),
				Overtime: decimal.RequireFromString("5"),
			},
			HourlyPay: decimal.RequireFromString("1187.50"),
			TotalsByType: map[engine.CommissionType]decimal.Decimal{
				engine.LeadGeneration: decimal.Zero,
				engine.Sales:          decimal.RequireFromString("30"),
				engine.WorkDone:       decimal.RequireFromString("45"),
			},
			TotalCommission: decimal.RequireFromString("75"),
			FinalPay:        decimal.RequireFromString("1262.50"),
			Details: []engine.CommissionDetail{{
				Type:         engine.Sales,
				BusinessUnit: "HVAC",
				JobNumber:    "H-1",
				Date:         jobDate,
				Revenue:      decimal.RequireFromString("1000"),
				Rate:         decimal.RequireFromString("3"),
				Amount:       decimal.RequireFromString("30"),
			}},
		}},
		Summary: engine.CommissionSummary{
			EmployeeCount:   1,
			TotalCommission: decimal.RequireFromString("75"),
			TotalHourlyPay:  decimal.RequireFromString("1187.50"),
			TotalFinalPay:   decimal.RequireFromString("1262.50"),
			ByType: map[engine.CommissionType]decimal.Decimal{
				engine.LeadGeneration: decimal.Zero,
				engine.Sales:          decimal.RequireFromString("30"),
				engine.WorkDone:       decimal.RequireFromString("45"),
			},
		},
	}
}

func TestCommissionWorkbookSheets(t *testing.T) {
	wb, err := CommissionWorkbook(sampleResult(t))
	require.NoError(t, err)
	defer wb.Close()

	assert.ElementsMatch(t, []string{summarySheet, detailsSheet}, wb.GetSheetList())

	// Header and the one employee row on Summary
	name, err := wb.GetCellValue(summarySheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Employee", name)

	employee, err := wb.GetCellValue(summarySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "J. Smith", employee)

	finalPay, err := wb.GetCellValue(summarySheet, "L2")
	require.NoError(t, err)
	assert.Equal(t, "1262.5", finalPay)

	// One credit row on Details
	unit, err := wb.GetCellValue(detailsSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "HVAC", unit)

	amount, err := wb.GetCellValue(detailsSheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "30", amount)
}

func TestCommissionWorkbookTotalsRow(t *testing.T) {
	result := sampleResult(t)
	wb, err := CommissionWorkbook(result)
	require.NoError(t, err)
	defer wb.Close()

	// One employee row (2), spacer (3), totals (4)
	label, err := wb.GetCellValue(summarySheet, "A4")
	require.NoError(t, err)
	assert.Contains(t, label, "TOTAL")
	assert.Contains(t, label, "2024-03-01")

	total, err := wb.GetCellValue(summarySheet, "L4")
	require.NoError(t, err)
	assert.Equal(t, "1262.5", total)
}
