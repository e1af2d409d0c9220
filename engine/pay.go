/*
pay.go - Hourly pay composition and the pay-plan decision rule

PURPOSE:
  Converts resolved hours into hourly pay and combines it with total
  commission according to the employee's pay plan.

MULTIPLIERS:
  hourly_pay = regular x rate + overtime x rate x 1.5 + double x rate x 2.0

PAY PLANS:
  HourlyPlusCommission: final = hourly + commission, bonus always zero.
  EfficiencyPay:        final = max(hourly, commission),
                        bonus = final - hourly (zero when hourly wins).
  Efficiency pay is a guaranteed minimum, never a sum; final pay can never
  fall below hourly pay.

Negative inputs are rejected at the data-model boundary, not here; there
are no error conditions.
*/
package engine

import "github.com/shopspring/decimal"

var (
	overtimeMultiplier   = decimal.NewFromFloat(1.5)
	doubleTimeMultiplier = decimal.NewFromInt(2)
)

// ComposePay returns (hourly pay, efficiency bonus, final pay) for one
// employee, all rounded to the currency minor unit.
func ComposePay(hours Hours, hourlyRate, commissionTotal decimal.Decimal, plan PayPlan) (hourlyPay, efficiencyBonus, finalPay decimal.Decimal) {
	hourlyPay = roundCurrency(
		hours.Regular.Mul(hourlyRate).
			Add(hours.Overtime.Mul(hourlyRate).Mul(overtimeMultiplier)).
			Add(hours.DoubleTime.Mul(hourlyRate).Mul(doubleTimeMultiplier)))

	switch plan {
	case PlanEfficiencyPay:
		finalPay = decimal.Max(hourlyPay, commissionTotal)
		efficiencyBonus = finalPay.Sub(hourlyPay)
	default:
		finalPay = hourlyPay.Add(commissionTotal)
		efficiencyBonus = decimal.Zero
	}
	return hourlyPay, efficiencyBonus, finalPay
}
