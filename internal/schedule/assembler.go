package schedule

import (
	"sort"

	"bilancio/internal/calendar"
	"bilancio/internal/core"
)

// Warning flags an obligation that was skipped for this computation pass
// because of a data-integrity problem. One bad record never blocks the
// rest of the account's schedule.
type Warning struct {
	ObligationID int64  `json:"obligationId"`
	Label        string `json:"label"`
	Reason       string `json:"reason"`
}

// Build assembles the outstanding schedule for one account: it expands
// every active obligation of the account over the window, drops
// occurrences already realized by a transaction, and returns the rest
// sorted by due date (ties broken by obligation id).
//
// When anticipate is set and today is within MonthEndWindowDays of
// month-end, the window extends into the first days of the next month so
// obligations due just after the rollover are already visible.
//
// Overdue occurrences from the current month stay in the output; a
// past-due occurrence belonging to an earlier month is never resurrected.
func Build(accountID int64, obs []core.RecurringObligation, txs []core.Transaction, today core.Date, anticipate bool) ([]Occurrence, []Warning) {
	includeNextMonth := anticipate && calendar.DaysUntilEndOfMonth(today) <= MonthEndWindowDays

	var (
		out      []Occurrence
		warnings []Warning
	)
	for _, ob := range obs {
		if ob.AccountID != accountID || !ob.IsActive {
			continue
		}
		if w, ok := integrityCheck(ob); !ok {
			warnings = append(warnings, w)
			continue
		}
		for _, occ := range Generate(ob, today, includeNextMonth) {
			if IsRealized(ob, occ.DueDate, txs) {
				continue
			}
			if occ.DueDate.BeforeDay(today) && !sameMonth(occ.DueDate, today) {
				continue
			}
			out = append(out, occ)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueDate.SameDay(out[j].DueDate) {
			return out[i].DueDate.BeforeDay(out[j].DueDate)
		}
		return out[i].ObligationID < out[j].ObligationID
	})
	return out, warnings
}

// Upcoming returns the subset of occurrences that are not overdue; only
// these count toward the forecast balance.
func Upcoming(occs []Occurrence) []Occurrence {
	var out []Occurrence
	for _, occ := range occs {
		if !occ.IsOverdue {
			out = append(out, occ)
		}
	}
	return out
}

// integrityCheck guards against records that slipped past boundary
// validation: unknown frequency tags and unusable day values.
func integrityCheck(ob core.RecurringObligation) (Warning, bool) {
	if _, err := GetMonthChecker(ob.Frequency); err != nil {
		return Warning{ObligationID: ob.ID, Label: ob.Label, Reason: err.Error()}, false
	}
	if ob.DayOfMonth < 1 {
		return Warning{ObligationID: ob.ID, Label: ob.Label, Reason: "missing day of month"}, false
	}
	if ob.Frequency == core.Weekly && ob.DayOfMonth > 7 {
		return Warning{ObligationID: ob.ID, Label: ob.Label, Reason: "weekday out of range"}, false
	}
	if ob.DayOfMonth > 31 {
		return Warning{ObligationID: ob.ID, Label: ob.Label, Reason: "day of month out of range"}, false
	}
	return Warning{}, true
}

func sameMonth(a, b core.Date) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
