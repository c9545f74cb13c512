package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func account(initialCents int64) *core.Account {
	return &core.Account{ID: 1, Name: "Checking", InitialBalance: core.Money{Cents: initialCents}, IsActive: true}
}

func obligation(id int64, label string, cents int64, day int, freq core.Frequency, flow core.Flow) core.RecurringObligation {
	return core.RecurringObligation{
		ID: id, Label: label, Amount: core.Money{Cents: cents},
		DayOfMonth: day, Frequency: freq, AccountID: 1,
		Flow: flow, IsActive: true,
	}
}

func TestCompute_NotReady(t *testing.T) {
	_, err := Compute(Snapshot{Today: core.NewDate(2024, 3, 10)})
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = Compute(Snapshot{Account: account(0)})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestCompute_OverdueRentExcludedFromForecast(t *testing.T) {
	// Monthly rent of 800, due the 1st, unpaid, today the 10th: the
	// occurrence is overdue, listed in the schedule, and excluded from
	// the forecast sum.
	snap := Snapshot{
		Account:     account(100000),
		Obligations: []core.RecurringObligation{obligation(1, "Rent", 80000, 1, core.Monthly, core.FlowExpense)},
		Today:       core.NewDate(2024, 3, 10),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), res.CurrentCents)
	assert.Equal(t, int64(100000), res.ForecastCents)
	require.Len(t, res.Schedule, 1)
	assert.True(t, res.Schedule[0].IsOverdue)
	assert.Equal(t, int64(-80000), res.Schedule[0].SignedCents)
}

func TestCompute_RealizedOccurrenceDisappears(t *testing.T) {
	rent := obligation(1, "Rent", 80000, 1, core.Monthly, core.FlowExpense)
	paid := core.Transaction{
		ID: 7, Date: core.NewDate(2024, 3, 1), Amount: core.Money{Cents: 80000},
		AccountID: 1, Flow: core.FlowExpense, ObligationID: 1,
	}
	snap := Snapshot{
		Account:      account(100000),
		Obligations:  []core.RecurringObligation{rent},
		Transactions: []core.Transaction{paid},
		Today:        core.NewDate(2024, 3, 10),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	assert.Empty(t, res.Schedule)
	assert.Equal(t, int64(20000), res.CurrentCents, "current reflects the paid rent")
	assert.Equal(t, res.CurrentCents, res.ForecastCents)
}

func TestCompute_WeeklyForecast(t *testing.T) {
	// Groceries of 50 every Sunday; April 2024 has four Sundays and
	// today is the 1st, so the forecast drops by 200.
	snap := Snapshot{
		Account:     account(100000),
		Obligations: []core.RecurringObligation{obligation(2, "Groceries", 5000, 7, core.Weekly, core.FlowExpense)},
		Today:       core.NewDate(2024, 4, 1),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	assert.Equal(t, int64(100000), res.CurrentCents)
	assert.Equal(t, int64(80000), res.ForecastCents)
	assert.Len(t, res.Schedule, 4)
}

func TestCompute_CurrentIndependentOfObligations(t *testing.T) {
	txs := []core.Transaction{
		{ID: 1, Date: core.NewDate(2024, 3, 2), Amount: core.Money{Cents: 200000}, AccountID: 1, Flow: core.FlowIncome},
		{ID: 2, Date: core.NewDate(2024, 3, 5), Amount: core.Money{Cents: 12550}, AccountID: 1, Flow: core.FlowExpense},
		// Another account's transaction never counts.
		{ID: 3, Date: core.NewDate(2024, 3, 5), Amount: core.Money{Cents: 99900}, AccountID: 2, Flow: core.FlowExpense},
	}
	wantCurrent := int64(50000 + 200000 - 12550)

	withoutObs := Snapshot{Account: account(50000), Transactions: txs, Today: core.NewDate(2024, 3, 10)}
	withObs := withoutObs
	withObs.Obligations = []core.RecurringObligation{
		obligation(1, "Rent", 80000, 1, core.Monthly, core.FlowExpense),
		obligation(2, "Salary", 250000, 27, core.Monthly, core.FlowIncome),
	}

	a, err := Compute(withoutObs)
	require.NoError(t, err)
	b, err := Compute(withObs)
	require.NoError(t, err)

	assert.Equal(t, wantCurrent, a.CurrentCents)
	assert.Equal(t, wantCurrent, b.CurrentCents, "current balance must not depend on obligation data")
}

func TestCompute_LowestNextMonthWarning(t *testing.T) {
	// February 2023 has 28 days; on the 27th one day remains, so the
	// month-end simulation runs. The account holds 40 after the paid
	// February occurrence; the March 2nd expense of 50 pushes the
	// projected balance to -10 inside the five-day window.
	expense := obligation(1, "Car insurance", 5000, 2, core.Monthly, core.FlowExpense)
	paidFeb := core.Transaction{
		ID: 4, Date: core.NewDate(2023, 2, 2), Amount: core.Money{Cents: 5000},
		AccountID: 1, Flow: core.FlowExpense, ObligationID: 1,
	}
	snap := Snapshot{
		Account:      account(9000),
		Obligations:  []core.RecurringObligation{expense},
		Transactions: []core.Transaction{paidFeb},
		Today:        core.NewDate(2023, 2, 27),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	assert.Equal(t, int64(4000), res.CurrentCents)
	// Anticipation pulls the March 2nd occurrence into the forecast.
	assert.Equal(t, int64(-1000), res.ForecastCents)
	assert.Equal(t, int64(-1000), res.LowestNextMonthCents)
}

func TestCompute_NoWarningFarFromMonthEnd(t *testing.T) {
	expense := obligation(1, "Car insurance", 5000, 2, core.Monthly, core.FlowExpense)
	snap := Snapshot{
		Account:     account(1000),
		Obligations: []core.RecurringObligation{expense},
		Today:       core.NewDate(2023, 2, 10),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	// Even though the balance would go negative, the warning is only
	// computed within five days of month-end.
	assert.Equal(t, int64(0), res.LowestNextMonthCents)
}

func TestCompute_NoWarningWhenPositive(t *testing.T) {
	salary := obligation(1, "Salary", 250000, 1, core.Monthly, core.FlowIncome)
	snap := Snapshot{
		Account:     account(10000),
		Obligations: []core.RecurringObligation{salary},
		Today:       core.NewDate(2023, 2, 27),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	assert.Equal(t, int64(0), res.LowestNextMonthCents, "positive minimum reports the no-warning sentinel")
}

func TestCompute_WarningsSurfaceBadRecords(t *testing.T) {
	bad := obligation(9, "Mystery", 1000, 1, "fortnightly", core.FlowExpense)
	good := obligation(1, "Rent", 80000, 1, core.Monthly, core.FlowExpense)
	snap := Snapshot{
		Account:     account(100000),
		Obligations: []core.RecurringObligation{bad, good},
		Today:       core.NewDate(2024, 3, 10),
	}

	res, err := Compute(snap)
	require.NoError(t, err)

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, int64(9), res.Warnings[0].ObligationID)
	require.Len(t, res.Schedule, 1, "the malformed record must not block the healthy one")
}
