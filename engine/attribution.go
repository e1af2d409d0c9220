/*
attribution.go - Per-job commission matching

PURPOSE:
  Scans the (already period-filtered) revenue snapshot and produces one
  CommissionDetail per (job, type) match for a given employee. This is the
  largest rule surface in the engine:

  - Lead generation credits the exact "lead generated by" name.
  - Sales credits the exact "sold by" name.
  - Work done credits every name in the assigned-technicians list, split on
    commas and ampersands. Each matched technician is credited on the FULL
    job revenue, not a split; three technicians on a 900 job at 5% earn
    45.00 each.
  - A job matching in several types yields one independent detail per type;
    there is no mutual exclusion.

ORDERING:
  Details are emitted business-unit, then commission-type, then source-row
  order, so identical snapshots always produce identical output.

SUPPRESSION:
  Disabled units are skipped outright. A type whose resolved rate is zero
  emits no detail at all, keeping detail lists lean.
*/
package engine

// AttributeCommissions produces the full detail list for one employee
// across every enabled business unit and commission type.
func AttributeCommissions(employee Employee, revenue []RevenueRecord, units []BusinessUnit, overrides RateOverrides) []CommissionDetail {
	var details []CommissionDetail

	for _, unit := range units {
		if !unit.Enabled {
			continue
		}
		for _, t := range CommissionTypes {
			rate := ResolveRate(employee, unit, t, overrides)
			if rate.IsZero() {
				continue
			}
			for _, job := range revenue {
				if job.BusinessUnit != unit.Name {
					continue
				}
				if !jobCredits(job, t, employee.Name) {
					continue
				}
				details = append(details, CommissionDetail{
					Type:         t,
					BusinessUnit: unit.Name,
					JobNumber:    job.JobNumber,
					Date:         job.Date,
					Revenue:      job.Revenue,
					Rate:         rate,
					Amount:       roundCurrency(job.Revenue.Mul(rate).Div(hundred)),
				})
			}
		}
	}
	return details
}

// jobCredits reports whether the job credits the named employee under the
// given commission type. Matching is exact and case-sensitive on the
// display name.
func jobCredits(job RevenueRecord, t CommissionType, employeeName string) bool {
	switch t {
	case LeadGeneration:
		return job.LeadGeneratedBy != "" && job.LeadGeneratedBy == employeeName
	case Sales:
		return job.SoldBy != "" && job.SoldBy == employeeName
	case WorkDone:
		for _, tech := range job.TechnicianList() {
			if tech == employeeName {
				return true
			}
		}
		return false
	default:
		return false
	}
}
