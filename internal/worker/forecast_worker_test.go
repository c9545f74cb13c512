package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/metrics"
)

type fakeSource struct {
	accounts  []core.Account
	snapshots map[int64]forecast.Snapshot
}

func (f *fakeSource) ListAccounts(_ context.Context, _ bool) ([]core.Account, error) {
	return f.accounts, nil
}

func (f *fakeSource) LoadSnapshot(_ context.Context, accountID int64, today core.Date) (forecast.Snapshot, error) {
	snap, ok := f.snapshots[accountID]
	if !ok {
		return forecast.Snapshot{}, assert.AnError
	}
	snap.Today = today
	return snap, nil
}

type fakePublisher struct {
	alerts []*amqp.LowBalanceAlertMessage
}

func (f *fakePublisher) PublishLowBalanceAlert(_ context.Context, msg *amqp.LowBalanceAlertMessage) error {
	f.alerts = append(f.alerts, msg)
	return nil
}

// Feb 27 2023: one day to month-end, so the next-month simulation runs.
func fixedClock() time.Time {
	return time.Date(2023, 2, 27, 9, 30, 0, 0, time.UTC)
}

func tightAccount() forecast.Snapshot {
	return forecast.Snapshot{
		Account: &core.Account{ID: 1, Name: "Checking", InitialBalance: core.Money{Cents: 4000}, IsActive: true},
		Obligations: []core.RecurringObligation{{
			ID: 1, Label: "Insurance", Amount: core.Money{Cents: 5000},
			DayOfMonth: 2, Frequency: core.Monthly, AccountID: 1,
			Flow: core.FlowExpense, IsActive: true,
		}},
		Transactions: []core.Transaction{{
			ID: 1, Date: core.NewDate(2023, 2, 2), Amount: core.Money{Cents: 5000},
			AccountID: 1, Flow: core.FlowExpense, SubCategoryID: 1, ObligationID: 1,
		}},
	}
}

func comfortableAccount() forecast.Snapshot {
	return forecast.Snapshot{
		Account: &core.Account{ID: 2, Name: "Savings", InitialBalance: core.Money{Cents: 500000}, IsActive: true},
	}
}

func TestHandleAccountChanged_PublishesAlert(t *testing.T) {
	source := &fakeSource{snapshots: map[int64]forecast.Snapshot{1: tightAccount()}}
	publisher := &fakePublisher{}
	w := NewForecastWorker(source, publisher, metrics.NewMetrics()).WithClock(fixedClock)

	err := w.HandleAccountChanged(context.Background(), amqp.NewAccountChangedMessage(1, amqp.ReasonTransaction))
	require.NoError(t, err)

	require.Len(t, publisher.alerts, 1)
	alert := publisher.alerts[0]
	assert.Equal(t, int64(1), alert.AccountID)
	assert.Equal(t, int64(-1000), alert.LowestCents)
	assert.Equal(t, "2023-02-27", alert.AsOf)
	assert.NotEmpty(t, alert.AlertID)
}

func TestHandleAccountChanged_NoAlertWhenHealthy(t *testing.T) {
	source := &fakeSource{snapshots: map[int64]forecast.Snapshot{2: comfortableAccount()}}
	publisher := &fakePublisher{}
	w := NewForecastWorker(source, publisher, nil).WithClock(fixedClock)

	err := w.HandleAccountChanged(context.Background(), amqp.NewAccountChangedMessage(2, amqp.ReasonObligation))
	require.NoError(t, err)
	assert.Empty(t, publisher.alerts)
}

func TestHandleAccountChanged_LoadFailure(t *testing.T) {
	source := &fakeSource{snapshots: map[int64]forecast.Snapshot{}}
	w := NewForecastWorker(source, nil, nil).WithClock(fixedClock)

	err := w.HandleAccountChanged(context.Background(), amqp.NewAccountChangedMessage(7, amqp.ReasonAccount))
	assert.Error(t, err)
}

func TestSweep_ContinuesPastFailures(t *testing.T) {
	source := &fakeSource{
		accounts: []core.Account{{ID: 1}, {ID: 2}, {ID: 3}}, // 3 has no snapshot
		snapshots: map[int64]forecast.Snapshot{
			1: tightAccount(),
			2: comfortableAccount(),
		},
	}
	publisher := &fakePublisher{}
	w := NewForecastWorker(source, publisher, metrics.NewMetrics()).WithClock(fixedClock)

	processed, err := w.Sweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, processed, "the failing account is skipped, not fatal")
	assert.Len(t, publisher.alerts, 1, "only the tight account alerts")
}

func TestSweep_NilPublisherStillComputes(t *testing.T) {
	source := &fakeSource{
		accounts:  []core.Account{{ID: 1}},
		snapshots: map[int64]forecast.Snapshot{1: tightAccount()},
	}
	w := NewForecastWorker(source, nil, nil).WithClock(fixedClock)

	processed, err := w.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}
