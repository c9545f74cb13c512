// Package schedule is the recurring-obligation projection engine: it
// expands obligation templates into dated occurrences, filters out the
// ones already realized by a transaction, and classifies the rest as
// upcoming or overdue.
//
// This file implements the month-level gate: given a frequency tag and a
// calendar month, does the recurrence apply in that month at all? Each
// frequency has its own checker; the registry maps tags to checkers.
package schedule

import (
	"fmt"

	"bilancio/internal/core"
)

// MonthEndWindowDays is the month-end proximity window: within this many
// days of month-end the schedule anticipates into the next month, and
// the forecaster simulates the same number of days past the rollover.
const MonthEndWindowDays = 5

// MonthChecker decides whether a recurrence applies in a given month.
// monthIndex is zero-based (January = 0).
type MonthChecker interface {
	Applies(monthIndex int) bool
}

// everyMonthChecker gates monthly obligations, and weekly ones too: the
// weekly grain is handled per-day by the generator, so the month gate is
// always open.
type everyMonthChecker struct{}

func (everyMonthChecker) Applies(int) bool { return true }

// intervalChecker gates frequencies that fire every n-th month counted
// from January: bimonthly (2), quarterly (3), biannual (6).
type intervalChecker struct {
	every int
}

func (c intervalChecker) Applies(monthIndex int) bool {
	return monthIndex%c.every == 0
}

// yearlyChecker fires in January only.
type yearlyChecker struct{}

func (yearlyChecker) Applies(monthIndex int) bool { return monthIndex == 0 }

var monthCheckers = map[core.Frequency]MonthChecker{
	core.Weekly:    everyMonthChecker{},
	core.Monthly:   everyMonthChecker{},
	core.Bimonthly: intervalChecker{every: 2},
	core.Quarterly: intervalChecker{every: 3},
	core.Biannual:  intervalChecker{every: 6},
	core.Yearly:    yearlyChecker{},
}

// GetMonthChecker returns the checker for a frequency tag, or an error
// for unknown tags so callers can surface the data-integrity issue.
func GetMonthChecker(frequency core.Frequency) (MonthChecker, error) {
	checker, ok := monthCheckers[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}

// AppliesToMonth reports whether the frequency applies in the zero-based
// month. Unknown frequencies never apply; they are a data problem, not a
// silent fallback to monthly.
func AppliesToMonth(frequency core.Frequency, monthIndex int) bool {
	checker, err := GetMonthChecker(frequency)
	if err != nil {
		return false
	}
	return checker.Applies(monthIndex)
}
