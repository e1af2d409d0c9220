/*
Package report renders calculation results as XLSX workbooks.

PURPOSE:
  Payroll teams review commission runs in spreadsheets. This package turns
  an engine result into a workbook with a Summary sheet (one row per
  employee plus period totals) and a Details sheet (one row per commission
  credit, in the engine's deterministic order).

NUMBER FORMAT:
  Money cells are written as float64 only at the rendering edge, from
  already-rounded decimals. All arithmetic stays in the engine.

SEE ALSO:
  - engine/types.go: CalculationResult this renders
  - api/handlers.go: ExportReport streams the workbook over HTTP
*/
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fieldserve/commission-engine/engine"
)

const (
	summarySheet = "Summary"
	detailsSheet = "Details"
)

// CommissionWorkbook builds the two-sheet workbook for one result. The
// caller owns the returned file and must Close it.
func CommissionWorkbook(result *engine.CalculationResult) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(detailsSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSummary(f, result, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeDetails(f, result, headerStyle); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeSummary(f *excelize.File, result *engine.CalculationResult, headerStyle int) error {
	headers := []string{
		"Employee", "Pay Plan",
		"Regular Hours", "Overtime Hours", "Double-Time Hours",
		"Hourly Pay", "Lead Generation", "Sales", "Work Done",
		"Total Commission", "Efficiency Bonus", "Final Pay",
	}
	if err := writeHeaderRow(f, summarySheet, headers, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, calc := range result.Calculations {
		values := []any{
			calc.EmployeeName,
			string(calc.Plan),
			money(calc.Hours.Regular),
			money(calc.Hours.Overtime),
			money(calc.Hours.DoubleTime),
			money(calc.HourlyPay),
			money(calc.TotalsByType[engine.LeadGeneration]),
			money(calc.TotalsByType[engine.Sales]),
			money(calc.TotalsByType[engine.WorkDone]),
			money(calc.TotalCommission),
			money(calc.EfficiencyBonus),
			money(calc.FinalPay),
		}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return err
		}
		row++
	}

	// Blank spacer, then period totals.
	row++
	totals := []any{
		fmt.Sprintf("TOTAL (%s)", result.Period),
		"",
		"", "", "",
		money(result.Summary.TotalHourlyPay),
		money(result.Summary.ByType[engine.LeadGeneration]),
		money(result.Summary.ByType[engine.Sales]),
		money(result.Summary.ByType[engine.WorkDone]),
		money(result.Summary.TotalCommission),
		"",
		money(result.Summary.TotalFinalPay),
	}
	if err := writeRow(f, summarySheet, row, totals); err != nil {
		return err
	}

	return f.SetPanes(summarySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
}

func writeDetails(f *excelize.File, result *engine.CalculationResult, headerStyle int) error {
	headers := []string{
		"Employee", "Business Unit", "Commission Type",
		"Job Number", "Job Date", "Revenue", "Rate %", "Amount",
	}
	if err := writeHeaderRow(f, detailsSheet, headers, headerStyle); err != nil {
		return err
	}

	row := 2
	for _, calc := range result.Calculations {
		for _, d := range calc.Details {
			values := []any{
				calc.EmployeeName,
				d.BusinessUnit,
				string(d.Type),
				d.JobNumber,
				d.Date.String(),
				money(d.Revenue),
				money(d.Rate),
				money(d.Amount),
			}
			if err := writeRow(f, detailsSheet, row, values); err != nil {
				return err
			}
			row++
		}
	}

	return f.SetPanes(detailsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) error {
	for i, name := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}
	lastCol, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", lastCol, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func money(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
