// Package forecast folds realized transactions and the outstanding
// schedule into the balances shown to the user: the current balance, the
// forecast for the rest of the month, and the near-month-end low-balance
// warning.
package forecast

import (
	"errors"

	"bilancio/internal/calendar"
	"bilancio/internal/core"
	"bilancio/internal/schedule"
)

// ErrNotReady signals that the snapshot is incomplete and no forecast
// can be computed yet. Callers must treat this as "not yet available",
// never as a balance of zero.
var ErrNotReady = errors.New("forecast not ready")

// Snapshot is the immutable input of one forecast computation. The
// engine never mutates it, so a snapshot can be shared across calls.
type Snapshot struct {
	Account      *core.Account
	Obligations  []core.RecurringObligation
	Transactions []core.Transaction
	Today        core.Date
}

// Result is a computed forecast.
//
// LowestNextMonthCents is the projected minimum balance over the first
// days of the next month. It is only computed within
// schedule.MonthEndWindowDays of month-end and only reported when the
// minimum goes negative; zero means "no warning".
type Result struct {
	CurrentCents         int64
	ForecastCents        int64
	LowestNextMonthCents int64
	Schedule             []schedule.Occurrence
	Warnings             []schedule.Warning
}

// Compute runs one full projection pass over the snapshot.
//
// The invariant this maintains: ForecastCents equals the account's
// initial balance, plus all signed realized transactions, plus the
// signed amounts of all non-overdue outstanding occurrences.
func Compute(snap Snapshot) (Result, error) {
	if snap.Account == nil || snap.Today.IsZero() {
		return Result{}, ErrNotReady
	}
	accountID := snap.Account.ID

	current := snap.Account.InitialBalance.Cents
	for _, tx := range snap.Transactions {
		if tx.AccountID == accountID {
			current += tx.SignedCents()
		}
	}

	occs, warnings := schedule.Build(accountID, snap.Obligations, snap.Transactions, snap.Today, true)

	// Overdue occurrences stay visible in the schedule but are excluded
	// from the forecast sum: only what is still expected to post on time
	// counts.
	forecastCents := current
	for _, occ := range occs {
		if !occ.IsOverdue {
			forecastCents += occ.SignedCents
		}
	}

	res := Result{
		CurrentCents:  current,
		ForecastCents: forecastCents,
		Schedule:      occs,
		Warnings:      warnings,
	}
	res.LowestNextMonthCents = lowestNextMonth(snap, current)
	return res, nil
}

// lowestNextMonth simulates the first days of the next month and returns
// the running minimum balance if it goes negative, zero otherwise. Only
// computed when today is within the month-end window.
func lowestNextMonth(snap Snapshot, current int64) int64 {
	if calendar.DaysUntilEndOfMonth(snap.Today) > schedule.MonthEndWindowDays {
		return 0
	}
	accountID := snap.Account.ID

	// Balance at the end of this month: everything still outstanding in
	// the current month, without next-month lookahead.
	remaining, _ := schedule.Build(accountID, snap.Obligations, snap.Transactions, snap.Today, false)
	balance := current
	for _, occ := range remaining {
		balance += occ.SignedCents
	}

	lowest := balance
	ny, nm := calendar.NextMonth(snap.Today.Year(), snap.Today.Month())
	for day := 1; day <= schedule.MonthEndWindowDays; day++ {
		date := core.NewDate(ny, nm, day)
		for _, ob := range snap.Obligations {
			if ob.AccountID != accountID || !ob.IsActive {
				continue
			}
			balance += schedule.NetOnDay(ob, date)
		}
		if balance < lowest {
			lowest = balance
		}
	}

	if lowest < 0 {
		return lowest
	}
	return 0
}
