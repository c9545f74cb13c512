// Package calendar is the single place where raw date arithmetic happens.
// Every month-rollover, weekday and month-length question in the projection
// engine goes through these helpers so the semantics stay consistent.
package calendar

import (
	"time"

	"bilancio/internal/core"
)

// DaysInMonth returns the number of days in month (1-12) of year.
func DaysInMonth(year, month int) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysUntilEndOfMonth returns how many days remain in d's month after d.
// The last day of the month returns 0.
func DaysUntilEndOfMonth(d core.Date) int {
	return DaysInMonth(d.Year(), d.Month()) - d.Day()
}

// NextMonth returns the year and month (1-12) following the given one.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// ClampDay limits day to the length of month: day 31 in a 30-day month
// yields 30. Days below 1 are returned unchanged so callers can reject
// them instead of silently repairing bad data.
func ClampDay(year, month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// WeekdayIndex returns the 0-indexed weekday of d with Sunday as 0,
// matching time.Weekday. A stored ISO weekday 1-7 (7 = Sunday) compares
// against this as isoWeekday % 7.
func WeekdayIndex(d core.Date) int {
	return int(d.Time.Weekday())
}

// ISOWeekdayMatches reports whether d falls on the stored ISO weekday
// (1 = Monday .. 7 = Sunday).
func ISOWeekdayMatches(d core.Date, isoWeekday int) bool {
	return WeekdayIndex(d) == isoWeekday%7
}
