package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fieldserve/commission-engine/engine"
)

func hourRow(name, reg, ot, dt string) engine.HourRow {
	return engine.HourRow{
		EmployeeName: name,
		Hours: engine.Hours{
			Regular:    dec(reg),
			Overtime:   dec(ot),
			DoubleTime: dec(dt),
		},
	}
}

func TestResolveHours_SumsMatchingRows(t *testing.T) {
	// GIVEN: Three timesheet rows, two for J. Smith
	// WHEN: Resolving hours without an override
	// THEN: Only J. Smith's rows are summed

	rows := []engine.HourRow{
		hourRow("J. Smith", "8", "1", "0"),
		hourRow("A. Jones", "40", "0", "0"),
		hourRow("J. Smith", "32", "4", "2"),
	}

	got := engine.ResolveHours("J. Smith", rows, nil)

	assert.True(t, got.Regular.Equal(dec("40")))
	assert.True(t, got.Overtime.Equal(dec("5")))
	assert.True(t, got.DoubleTime.Equal(dec("2")))
}

func TestResolveHours_OverrideIsAllOrNothing(t *testing.T) {
	// GIVEN: Timesheet rows AND an hours override for the employee
	// WHEN: Resolving hours
	// THEN: The override's three values are returned verbatim; the rows are
	//       ignored entirely, including buckets the override leaves at zero

	rows := []engine.HourRow{
		hourRow("J. Smith", "40", "10", "4"),
	}
	overrides := engine.HoursOverrides{
		"J. Smith": {Regular: dec("38"), Overtime: dec("0"), DoubleTime: dec("0")},
	}

	got := engine.ResolveHours("J. Smith", rows, overrides)

	assert.True(t, got.Regular.Equal(dec("38")))
	assert.True(t, got.Overtime.IsZero(), "override replaces ALL buckets, not just non-zero ones")
	assert.True(t, got.DoubleTime.IsZero())
}

func TestResolveHours_NoRowsNoOverride_Zeros(t *testing.T) {
	got := engine.ResolveHours("Nobody", nil, engine.HoursOverrides{})

	assert.True(t, got.Regular.IsZero())
	assert.True(t, got.Overtime.IsZero())
	assert.True(t, got.DoubleTime.IsZero())
}

func TestResolveHours_NameMatchIsExact(t *testing.T) {
	// Case and whitespace differences do not match; the name string is the
	// documented join key.
	rows := []engine.HourRow{
		hourRow("j. smith", "40", "0", "0"),
		hourRow("J. Smith ", "40", "0", "0"),
	}

	got := engine.ResolveHours("J. Smith", rows, nil)
	assert.True(t, got.Total().IsZero())
}
