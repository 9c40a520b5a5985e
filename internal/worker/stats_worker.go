// Package worker runs the post-transaction background effects: the
// statistics update and the SMS notification. Both are best-effort;
// a failure in one does not stop the other and neither is retried.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"sika/internal/amqp"
	"sika/internal/core"
	"sika/internal/notify"
	"sika/internal/services"
	"sika/internal/store"
)

type StatsWorker struct {
	store    store.Store
	stats    *services.StatsService
	notifier notify.Notifier
}

func NewStatsWorker(st store.Store, stats *services.StatsService, notifier notify.Notifier) *StatsWorker {
	return &StatsWorker{
		store:    st,
		stats:    stats,
		notifier: notifier,
	}
}

// Process runs both background effects for a recorded transaction.
// Errors are logged and dropped; the transaction record itself already
// persisted before this runs and stays persisted regardless.
func (w *StatsWorker) Process(ctx context.Context, t core.Transaction) {
	if err := w.stats.Apply(ctx, t); err != nil {
		slog.ErrorContext(ctx, "Statistics update failed",
			"error", err,
			"transaction_id", t.ID,
			"user_id", t.UserID)
	}

	if err := w.sendSMS(ctx, t); err != nil {
		slog.ErrorContext(ctx, "SMS notification failed",
			"error", err,
			"transaction_id", t.ID,
			"user_id", t.UserID)
	}
}

func (w *StatsWorker) sendSMS(ctx context.Context, t core.Transaction) error {
	user, err := w.store.GetUser(ctx, t.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", t.UserID, err)
	}
	if err := w.notifier.Notify(ctx, user.PhoneNumber, notify.TransactionMessage(t)); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	slog.InfoContext(ctx, "SMS notification sent",
		"transaction_id", t.ID,
		"user_id", t.UserID,
		"phone_number", user.PhoneNumber)
	return nil
}

// HandleTransactionRecorded adapts Process to AMQP consumption: the
// message carries only ids, so the full record is fetched first.
func (w *StatsWorker) HandleTransactionRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	t, err := w.store.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("load transaction %s: %w", msg.TransactionID, err)
	}
	w.Process(ctx, t)
	return nil
}
