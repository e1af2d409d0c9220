package engine

import "github.com/shopspring/decimal"

// =============================================================================
// RATE RESOLVER - override-aware effective rate lookup
// =============================================================================

// ResolveRate returns the effective commission percentage for the exact
// (business unit, employee, commission type) triple. An enabled override
// wins; anything else - no override, or one with its flag off - silently
// falls back to the unit default. There are no error conditions.
func ResolveRate(employee Employee, unit BusinessUnit, t CommissionType, overrides RateOverrides) decimal.Decimal {
	if ov, ok := overrides.Lookup(unit.Name, employee.Name, t); ok && ov.Enabled {
		return ov.Rate
	}
	return unit.Rates.For(t)
}
