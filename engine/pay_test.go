package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldserve/commission-engine/engine"
)

func TestComposePay_HourlyPlusCommission(t *testing.T) {
	// GIVEN: rate=25.00, regular=40, ot=5, dt=0, commission=120.00
	// THEN:  hourly = 40x25 + 5x25x1.5 = 1187.50, final = 1307.50, bonus = 0

	hours := engine.Hours{Regular: dec("40"), Overtime: dec("5"), DoubleTime: dec("0")}

	hourly, bonus, final := engine.ComposePay(hours, dec("25"), dec("120"), engine.PlanHourlyPlusCommission)

	assert.True(t, hourly.Equal(dec("1187.50")), "hourly: %s", hourly)
	assert.True(t, bonus.IsZero())
	assert.True(t, final.Equal(dec("1307.50")), "final: %s", final)
}

func TestComposePay_EfficiencyPay_CommissionWins(t *testing.T) {
	// GIVEN: Same hours/rate but commission=1500.00 on the efficiency plan
	// THEN:  final = max(1187.50, 1500.00) = 1500.00, bonus = 312.50

	hours := engine.Hours{Regular: dec("40"), Overtime: dec("5")}

	hourly, bonus, final := engine.ComposePay(hours, dec("25"), dec("1500"), engine.PlanEfficiencyPay)

	assert.True(t, hourly.Equal(dec("1187.50")))
	assert.True(t, bonus.Equal(dec("312.50")))
	assert.True(t, final.Equal(dec("1500")))
}

func TestComposePay_EfficiencyPay_HourlyFloor(t *testing.T) {
	// Efficiency pay is a guaranteed minimum: when hourly pay wins, final
	// pay equals hourly pay and the bonus is exactly zero, never negative.

	hours := engine.Hours{Regular: dec("40"), Overtime: dec("5")}

	hourly, bonus, final := engine.ComposePay(hours, dec("25"), dec("800"), engine.PlanEfficiencyPay)

	assert.True(t, final.Equal(hourly))
	assert.True(t, bonus.IsZero())
	assert.True(t, final.GreaterThanOrEqual(hourly), "final pay can never fall below hourly pay")
}

func TestComposePay_DoubleTimeMultiplier(t *testing.T) {
	hours := engine.Hours{Regular: dec("0"), Overtime: dec("0"), DoubleTime: dec("4")}

	hourly, _, _ := engine.ComposePay(hours, dec("10"), dec("0"), engine.PlanHourlyPlusCommission)
	assert.True(t, hourly.Equal(dec("80")), "4 x 10 x 2.0 = 80, got %s", hourly)
}

func TestComposePay_ZeroEverything(t *testing.T) {
	hourly, bonus, final := engine.ComposePay(engine.Hours{}, dec("25"), dec("0"), engine.PlanEfficiencyPay)

	assert.True(t, hourly.IsZero())
	assert.True(t, bonus.IsZero())
	assert.True(t, final.IsZero())
}
