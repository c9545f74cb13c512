package schedule

import "bilancio/internal/core"

// IsRealized reports whether a due occurrence of the obligation already
// has a matching realized transaction: same obligation back-reference
// and the exact same calendar day.
//
// The match is deliberately strict. A payment recorded one day early or
// late does not realize the occurrence, which then stays listed as due
// or overdue. Unlinked transactions (zero ObligationID) never match.
func IsRealized(ob core.RecurringObligation, dueDate core.Date, txs []core.Transaction) bool {
	for _, tx := range txs {
		if tx.ObligationID == ob.ID && tx.Date.SameDay(dueDate) {
			return true
		}
	}
	return false
}
