/*
Package ingest normalizes raw tabular rows into the engine's typed records.

PURPOSE:
  Upstream upload parsers hand over loosely-shaped rows (header name ->
  cell string, straight out of a CSV or XLSX sheet). Real spreadsheets name
  their columns inconsistently, so this adapter owns all column-name
  detection; the calculation engine itself never sniffs names.

ACCEPTED HEADERS:
  Hours rows come in two naming schemes:
    "Reg Hours" / "Regular Hours"
    "OT Hours"  / "Overtime Hours"
    "DT Hours"  / "Double Time Hours"
  Revenue rows accept the common aliases per field (see the alias tables
  below). Header matching is case-insensitive and whitespace-trimmed.

DATA QUALITY:
  Nothing here ever raises on bad data. Non-numeric or missing cells
  coerce to zero, unparseable dates coerce to the absent date, and rows
  with no recognizable employee or business unit are dropped. A malformed
  row in a large import must never abort a period's payroll run.
*/
package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fieldserve/commission-engine/engine"
)

// Alias tables, first match wins. Checked against normalized (lowercased,
// trimmed) header names.
var (
	employeeAliases    = []string{"employee", "employee name", "name", "technician"}
	regularAliases     = []string{"reg hours", "regular hours"}
	overtimeAliases    = []string{"ot hours", "overtime hours"}
	doubleTimeAliases  = []string{"dt hours", "double time hours"}
	unitAliases        = []string{"business unit", "unit", "department"}
	revenueAliases     = []string{"revenue", "amount", "total"}
	jobNumberAliases   = []string{"job #", "job number", "job", "invoice #", "invoice number"}
	dateAliases        = []string{"date", "job date", "invoice date", "completion date"}
	leadGenAliases     = []string{"lead generated by", "lead gen", "lead by"}
	soldByAliases      = []string{"sold by", "salesperson", "sold"}
	techniciansAliases = []string{"assigned technicians", "technicians", "technician(s)", "assigned techs"}
)

// HourRows converts raw timesheet rows. Rows without an employee name are
// dropped; everything else coerces missing cells to zero.
func HourRows(rows []map[string]string) []engine.HourRow {
	out := make([]engine.HourRow, 0, len(rows))
	for _, raw := range rows {
		row := normalize(raw)
		name := strings.TrimSpace(pick(row, employeeAliases))
		if name == "" {
			continue
		}
		out = append(out, engine.HourRow{
			EmployeeName: name,
			Hours: engine.Hours{
				Regular:    cell(row, regularAliases),
				Overtime:   cell(row, overtimeAliases),
				DoubleTime: cell(row, doubleTimeAliases),
			},
		})
	}
	return out
}

// RevenueRecords converts raw revenue rows. Rows without a business unit
// are dropped; non-numeric revenue becomes zero, bad dates become the
// absent date (and therefore pass every period filter).
func RevenueRecords(rows []map[string]string) []engine.RevenueRecord {
	out := make([]engine.RevenueRecord, 0, len(rows))
	for _, raw := range rows {
		row := normalize(raw)
		unit := strings.TrimSpace(pick(row, unitAliases))
		if unit == "" {
			continue
		}
		out = append(out, engine.RevenueRecord{
			BusinessUnit:    unit,
			Revenue:         cell(row, revenueAliases),
			JobNumber:       strings.TrimSpace(pick(row, jobNumberAliases)),
			Date:            cellDate(row, dateAliases),
			LeadGeneratedBy: strings.TrimSpace(pick(row, leadGenAliases)),
			SoldBy:          strings.TrimSpace(pick(row, soldByAliases)),
			Technicians:     pick(row, techniciansAliases),
		})
	}
	return out
}

func normalize(raw map[string]string) map[string]string {
	row := make(map[string]string, len(raw))
	for k, v := range raw {
		row[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return row
}

func pick(row map[string]string, aliases []string) string {
	for _, a := range aliases {
		if v, ok := row[a]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// cell parses a numeric cell, tolerating currency formatting ("$1,200.50").
// Anything unparseable is zero.
func cell(row map[string]string, aliases []string) decimal.Decimal {
	s := strings.TrimSpace(pick(row, aliases))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func cellDate(row map[string]string, aliases []string) engine.Date {
	s := strings.TrimSpace(pick(row, aliases))
	if s == "" {
		return engine.Date{}
	}
	d, err := engine.ParseDate(s)
	if err != nil {
		return engine.Date{}
	}
	return d
}
