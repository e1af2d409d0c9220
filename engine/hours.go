package engine

// =============================================================================
// HOURS RESOLVER - effective period hours per employee
// =============================================================================

// ResolveHours returns the effective regular/overtime/double-time hours for
// one employee. A present override returns its three values verbatim; the
// override is all-or-nothing, never per bucket. Otherwise all rows matching
// the employee name are summed. An employee with no rows and no override
// resolves to zeros, never an error.
func ResolveHours(employeeName string, rows []HourRow, overrides HoursOverrides) Hours {
	if h, ok := overrides[employeeName]; ok {
		return h
	}

	var total Hours
	for _, row := range rows {
		if row.EmployeeName != employeeName {
			continue
		}
		total = total.Add(row.Hours)
	}
	return total
}
