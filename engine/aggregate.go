package engine

import "github.com/shopspring/decimal"

// =============================================================================
// PERIOD AGGREGATOR - folds per-employee calculations into the summary
// =============================================================================

// Aggregate combines all employees' calculations into the period summary.
// Totals by type always carry all three commission types (zero-valued when
// unused); totals by business unit are keyed by the unit name string.
// Empty input yields an all-zero summary, never an error.
func Aggregate(calculations []CommissionCalculation) CommissionSummary {
	summary := CommissionSummary{
		ByType:         make(map[CommissionType]decimal.Decimal, len(CommissionTypes)),
		ByBusinessUnit: make(map[string]decimal.Decimal),
	}
	for _, t := range CommissionTypes {
		summary.ByType[t] = decimal.Zero
	}

	var efficiencyTotal decimal.Decimal

	for _, c := range calculations {
		summary.EmployeeCount++
		summary.TotalCommission = summary.TotalCommission.Add(c.TotalCommission)
		summary.TotalHourlyPay = summary.TotalHourlyPay.Add(c.HourlyPay)
		summary.TotalFinalPay = summary.TotalFinalPay.Add(c.FinalPay)

		for t, amount := range c.TotalsByType {
			summary.ByType[t] = summary.ByType[t].Add(amount)
		}
		for _, d := range c.Details {
			summary.ByBusinessUnit[d.BusinessUnit] = summary.ByBusinessUnit[d.BusinessUnit].Add(d.Amount)
		}

		if c.Plan != PlanEfficiencyPay {
			continue
		}
		summary.Efficiency.EmployeeCount++
		efficiencyTotal = efficiencyTotal.Add(c.FinalPay)
		switch {
		case c.EfficiencyBonus.IsPositive():
			summary.Efficiency.PositiveBonusCount++
		case c.EfficiencyBonus.IsNegative():
			// Unreachable under the max rule.
			summary.Efficiency.NegativeBonusCount++
		}
	}

	if n := summary.Efficiency.EmployeeCount; n > 0 {
		summary.Efficiency.AverageFinalPay = roundCurrency(
			efficiencyTotal.Div(decimal.NewFromInt(int64(n))))
	}

	return summary
}
