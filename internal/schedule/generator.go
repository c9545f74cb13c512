package schedule

import (
	"sort"

	"bilancio/internal/calendar"
	"bilancio/internal/core"
)

// Occurrence is one concrete, dated instance an obligation implies inside
// the projection window. Occurrences are derived on every request and
// never persisted.
type Occurrence struct {
	ObligationID int64
	Label        string
	SubCategory  string
	DueDate      core.Date
	SignedCents  int64
	IsOverdue    bool
}

// Generate expands one obligation over the projection window: the whole
// of today's month, plus the first MonthEndWindowDays days of the next
// month when includeNextMonth is set. The caller decides the lookahead
// based on proximity to month-end.
//
// Weekly obligations emit an occurrence on every matching weekday of the
// window. Month-based ones emit at most one occurrence per applicable
// month, on the obligation's day clamped to the month's length (day 31
// in a 30-day month falls due on the 30th).
func Generate(ob core.RecurringObligation, today core.Date, includeNextMonth bool) []Occurrence {
	year, month := today.Year(), today.Month()

	var occs []Occurrence
	occs = appendMonthOccurrences(occs, ob, today, year, month, 1, calendar.DaysInMonth(year, month))

	if includeNextMonth {
		ny, nm := calendar.NextMonth(year, month)
		occs = appendMonthOccurrences(occs, ob, today, ny, nm, 1, MonthEndWindowDays)
	}

	sort.SliceStable(occs, func(i, j int) bool {
		if !occs[i].DueDate.SameDay(occs[j].DueDate) {
			return occs[i].DueDate.BeforeDay(occs[j].DueDate)
		}
		return occs[i].ObligationID < occs[j].ObligationID
	})
	return occs
}

// appendMonthOccurrences emits ob's occurrences falling between firstDay
// and lastDay of the given month.
func appendMonthOccurrences(occs []Occurrence, ob core.RecurringObligation, today core.Date, year, month, firstDay, lastDay int) []Occurrence {
	if ob.Frequency == core.Weekly {
		for day := firstDay; day <= lastDay; day++ {
			due := core.NewDate(year, month, day)
			if calendar.ISOWeekdayMatches(due, ob.DayOfMonth) {
				occs = append(occs, newOccurrence(ob, due, today))
			}
		}
		return occs
	}

	if !AppliesToMonth(ob.Frequency, month-1) {
		return occs
	}
	day := calendar.ClampDay(year, month, ob.DayOfMonth)
	if day < firstDay || day > lastDay {
		return occs
	}
	return append(occs, newOccurrence(ob, core.NewDate(year, month, day), today))
}

func newOccurrence(ob core.RecurringObligation, due, today core.Date) Occurrence {
	return Occurrence{
		ObligationID: ob.ID,
		Label:        ob.Label,
		SubCategory:  ob.SubCategory,
		DueDate:      due,
		SignedCents:  ob.SignedCents(),
		IsOverdue:    due.BeforeDay(today),
	}
}

// NetOnDay returns the obligation's signed amount if it falls due on the
// given date, zero otherwise. Used by the forecaster's day-by-day
// next-month simulation.
func NetOnDay(ob core.RecurringObligation, date core.Date) int64 {
	if ob.Frequency == core.Weekly {
		if ob.DayOfMonth >= 1 && ob.DayOfMonth <= 7 && calendar.ISOWeekdayMatches(date, ob.DayOfMonth) {
			return ob.SignedCents()
		}
		return 0
	}
	if ob.DayOfMonth < 1 || ob.DayOfMonth > 31 {
		return 0
	}
	if !AppliesToMonth(ob.Frequency, date.Month()-1) {
		return 0
	}
	if calendar.ClampDay(date.Year(), date.Month(), ob.DayOfMonth) == date.Day() {
		return ob.SignedCents()
	}
	return 0
}
