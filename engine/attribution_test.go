package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldserve/commission-engine/engine"
)

func job(unit, revenue string, mutate func(*engine.RevenueRecord)) engine.RevenueRecord {
	r := engine.RevenueRecord{BusinessUnit: unit, Revenue: dec(revenue)}
	if mutate != nil {
		mutate(&r)
	}
	return r
}

func namedEmployee(name string) engine.Employee {
	return engine.Employee{
		ID:         "emp-" + name,
		Name:       name,
		HourlyRate: dec("20"),
		Status:     engine.StatusActive,
		Plan:       engine.PlanHourlyPlusCommission,
	}
}

// =============================================================================
// MATCHING
// =============================================================================

func TestAttribute_SalesExactMatch(t *testing.T) {
	// GIVEN: {unit="HVAC", revenue=1000, sold_by="J. Smith"}, sold-by rate 3%
	// WHEN: Attributing for J. Smith
	// THEN: One Sales detail, amount = 30.00

	revenue := []engine.RevenueRecord{
		job("HVAC", "1000", func(r *engine.RevenueRecord) { r.SoldBy = "J. Smith" }),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{hvacUnit()}, nil)

	require.Len(t, details, 1)
	assert.Equal(t, engine.Sales, details[0].Type)
	assert.Equal(t, "HVAC", details[0].BusinessUnit)
	assert.True(t, details[0].Amount.Equal(dec("30")), "1000 x 3%% = 30.00, got %s", details[0].Amount)
}

func TestAttribute_MultiTechnicianFanOut(t *testing.T) {
	// GIVEN: A 900 job assigned to "Alice, Bob & Carol" at a 5% work-done rate
	// WHEN: Attributing for each technician
	// THEN: Each receives an independent 45.00 detail on the FULL revenue,
	//       not a 15.00 three-way split

	unit := engine.BusinessUnit{
		Name:    "HVAC",
		Enabled: true,
		Rates:   engine.DefaultRates{WorkDone: dec("5")},
	}
	revenue := []engine.RevenueRecord{
		job("HVAC", "900", func(r *engine.RevenueRecord) { r.Technicians = "Alice, Bob & Carol" }),
	}

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		details := engine.AttributeCommissions(namedEmployee(name), revenue, []engine.BusinessUnit{unit}, nil)
		require.Len(t, details, 1, "%s should be credited", name)
		assert.Equal(t, engine.WorkDone, details[0].Type)
		assert.True(t, details[0].Amount.Equal(dec("45")), "%s: want 45.00, got %s", name, details[0].Amount)
	}

	// An unassigned name earns nothing.
	details := engine.AttributeCommissions(namedEmployee("Dave"), revenue, []engine.BusinessUnit{unit}, nil)
	assert.Empty(t, details)
}

func TestAttribute_MultipleTypesAreIndependent(t *testing.T) {
	// GIVEN: J. Smith both sold and worked the same job
	// WHEN: Attributing
	// THEN: Two independent details, one per type - no mutual exclusion

	revenue := []engine.RevenueRecord{
		job("HVAC", "1000", func(r *engine.RevenueRecord) {
			r.SoldBy = "J. Smith"
			r.Technicians = "J. Smith"
		}),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{hvacUnit()}, nil)

	require.Len(t, details, 2)
	assert.Equal(t, engine.Sales, details[0].Type)
	assert.True(t, details[0].Amount.Equal(dec("30")))
	assert.Equal(t, engine.WorkDone, details[1].Type)
	assert.True(t, details[1].Amount.Equal(dec("50")))
}

// =============================================================================
// SUPPRESSION
// =============================================================================

func TestAttribute_ZeroRateSuppression(t *testing.T) {
	// GIVEN: work_done_rate = 0 and no override
	// WHEN: A technician matches
	// THEN: No WorkDone detail is emitted at all (no zero-amount rows)

	unit := engine.BusinessUnit{
		Name:    "HVAC",
		Enabled: true,
		Rates:   engine.DefaultRates{Sales: dec("3")}, // work-done left at zero
	}
	revenue := []engine.RevenueRecord{
		job("HVAC", "900", func(r *engine.RevenueRecord) { r.Technicians = "J. Smith" }),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{unit}, nil)
	assert.Empty(t, details)

	// An enabled override restores the type.
	overrides := engine.RateOverrides{}
	overrides.Set("HVAC", "J. Smith", engine.WorkDone, engine.RateOverride{Enabled: true, Rate: dec("4")})

	details = engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{unit}, overrides)
	require.Len(t, details, 1)
	assert.True(t, details[0].Amount.Equal(dec("36")))
}

func TestAttribute_DisabledUnitSkipped(t *testing.T) {
	unit := hvacUnit()
	unit.Enabled = false

	revenue := []engine.RevenueRecord{
		job("HVAC", "1000", func(r *engine.RevenueRecord) { r.SoldBy = "J. Smith" }),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{unit}, nil)
	assert.Empty(t, details)
}

func TestAttribute_EmptyCreditFieldsNeverMatch(t *testing.T) {
	// A job with blank crediting fields must not match an employee whose
	// name is also blank-ish; empty strings are "no credit", not a wildcard.
	revenue := []engine.RevenueRecord{
		job("HVAC", "1000", nil),
	}

	emp := namedEmployee("")
	details := engine.AttributeCommissions(emp, revenue, []engine.BusinessUnit{hvacUnit()}, nil)
	assert.Empty(t, details)
}

// =============================================================================
// ROUNDING AND ORDERING
// =============================================================================

func TestAttribute_RoundsHalfAwayFromZero(t *testing.T) {
	// GIVEN: 2.50 revenue at 5% = 0.125
	// THEN: Rounds to 0.13 (banker's rounding would give 0.12)

	unit := engine.BusinessUnit{
		Name:    "HVAC",
		Enabled: true,
		Rates:   engine.DefaultRates{Sales: dec("5")},
	}
	revenue := []engine.RevenueRecord{
		job("HVAC", "2.50", func(r *engine.RevenueRecord) { r.SoldBy = "J. Smith" }),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{unit}, nil)
	require.Len(t, details, 1)
	assert.True(t, details[0].Amount.Equal(dec("0.13")), "want 0.13, got %s", details[0].Amount)
}

func TestAttribute_UnitThenTypeThenRowOrder(t *testing.T) {
	// Details must come out business-unit, then type, then source-row order
	// for reproducible output and stable fixtures.

	units := []engine.BusinessUnit{hvacUnit(), plumbingUnit()}
	revenue := []engine.RevenueRecord{
		job("Plumbing", "100", func(r *engine.RevenueRecord) {
			r.JobNumber = "P-1"
			r.SoldBy = "J. Smith"
		}),
		job("HVAC", "200", func(r *engine.RevenueRecord) {
			r.JobNumber = "H-1"
			r.LeadGeneratedBy = "J. Smith"
			r.Technicians = "J. Smith"
		}),
		job("HVAC", "300", func(r *engine.RevenueRecord) {
			r.JobNumber = "H-2"
			r.LeadGeneratedBy = "J. Smith"
		}),
	}

	details := engine.AttributeCommissions(smith(), revenue, units, nil)

	require.Len(t, details, 4)
	// HVAC (first unit): both lead-gen rows in source order, then work-done.
	assert.Equal(t, "H-1", details[0].JobNumber)
	assert.Equal(t, engine.LeadGeneration, details[0].Type)
	assert.Equal(t, "H-2", details[1].JobNumber)
	assert.Equal(t, engine.LeadGeneration, details[1].Type)
	assert.Equal(t, "H-1", details[2].JobNumber)
	assert.Equal(t, engine.WorkDone, details[2].Type)
	// Plumbing last.
	assert.Equal(t, "P-1", details[3].JobNumber)
	assert.Equal(t, engine.Sales, details[3].Type)
}

func TestTechnicianList_SplitsAndTrims(t *testing.T) {
	r := engine.RevenueRecord{Technicians: " Alice ,Bob&  Carol , "}
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, r.TechnicianList())

	r = engine.RevenueRecord{Technicians: ""}
	assert.Empty(t, r.TechnicianList())
}

func TestAttribute_DetailCarriesJobReference(t *testing.T) {
	revenue := []engine.RevenueRecord{
		job("HVAC", "1000", func(r *engine.RevenueRecord) {
			r.SoldBy = "J. Smith"
			r.JobNumber = "J-42"
			r.Date = date(2025, time.March, 14)
		}),
	}

	details := engine.AttributeCommissions(smith(), revenue, []engine.BusinessUnit{hvacUnit()}, nil)
	require.Len(t, details, 1)
	assert.Equal(t, "J-42", details[0].JobNumber)
	assert.Equal(t, "2025-03-14", details[0].Date.String())
	assert.True(t, details[0].Revenue.Equal(dec("1000")))
	assert.True(t, details[0].Rate.Equal(dec("3")))
}
