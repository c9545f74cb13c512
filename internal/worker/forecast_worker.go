// Package worker recomputes account forecasts outside the request path:
// reactively when an account-change event arrives, and periodically as a
// sweep over all active accounts. Whenever a projection dips negative in
// the next-month window it publishes a low-balance alert.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/metrics"
)

// SnapshotSource is the slice of the repository the worker needs.
type SnapshotSource interface {
	ListAccounts(ctx context.Context, onlyActive bool) ([]core.Account, error)
	LoadSnapshot(ctx context.Context, accountID int64, today core.Date) (forecast.Snapshot, error)
}

// AlertPublisher emits low-balance alerts. Nil-able in tests and when
// AMQP is not configured.
type AlertPublisher interface {
	PublishLowBalanceAlert(ctx context.Context, msg *amqp.LowBalanceAlertMessage) error
}

type ForecastWorker struct {
	source    SnapshotSource
	publisher AlertPublisher
	metrics   *metrics.Metrics

	// now is injected so tests control the calendar day.
	now func() time.Time
}

func NewForecastWorker(source SnapshotSource, publisher AlertPublisher, m *metrics.Metrics) *ForecastWorker {
	return &ForecastWorker{
		source:    source,
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock overrides the worker's clock.
func (w *ForecastWorker) WithClock(now func() time.Time) *ForecastWorker {
	w.now = now
	return w
}

// HandleAccountChanged recomputes one account's forecast in response to
// a change event.
func (w *ForecastWorker) HandleAccountChanged(ctx context.Context, msg *amqp.AccountChangedMessage) error {
	slog.InfoContext(ctx, "Recomputing forecast",
		"account_id", msg.AccountID,
		"reason", msg.Reason)
	return w.recompute(ctx, msg.AccountID)
}

// Sweep recomputes the forecast of every active account. Errors on
// individual accounts are logged and counted but never abort the sweep.
func (w *ForecastWorker) Sweep(ctx context.Context) (int, error) {
	accounts, err := w.source.ListAccounts(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	processed := 0
	for _, account := range accounts {
		if err := w.recompute(ctx, account.ID); err != nil {
			slog.ErrorContext(ctx, "Sweep forecast failed",
				"account_id", account.ID,
				"error", err)
			continue
		}
		processed++
	}

	slog.InfoContext(ctx, "Forecast sweep complete",
		"processed", processed,
		"total", len(accounts))
	return processed, nil
}

func (w *ForecastWorker) recompute(ctx context.Context, accountID int64) error {
	today := core.DateOf(w.now())

	snap, err := w.source.LoadSnapshot(ctx, accountID, today)
	if err != nil {
		w.count("error")
		return fmt.Errorf("load snapshot: %w", err)
	}

	res, err := forecast.Compute(snap)
	if err != nil {
		w.count("not_ready")
		return fmt.Errorf("compute forecast: %w", err)
	}
	w.count("ok")
	if w.metrics != nil {
		w.metrics.ScheduleWarnings(len(res.Warnings))
	}

	for _, warning := range res.Warnings {
		slog.WarnContext(ctx, "Obligation skipped during projection",
			"account_id", accountID,
			"obligation_id", warning.ObligationID,
			"reason", warning.Reason)
	}

	if res.LowestNextMonthCents >= 0 {
		return nil
	}

	slog.WarnContext(ctx, "Projected negative balance next month",
		"account_id", accountID,
		"lowest_cents", res.LowestNextMonthCents)

	if w.publisher == nil {
		return nil
	}
	alert := &amqp.LowBalanceAlertMessage{
		AlertID:     uuid.New().String(),
		AccountID:   accountID,
		LowestCents: res.LowestNextMonthCents,
		AsOf:        today.ISO(),
		Timestamp:   w.now(),
	}
	if err := w.publisher.PublishLowBalanceAlert(ctx, alert); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	if w.metrics != nil {
		w.metrics.AlertPublished()
	}
	return nil
}

func (w *ForecastWorker) count(outcome string) {
	if w.metrics != nil {
		w.metrics.ForecastComputed(outcome)
	}
}
