// Package notify delivers transaction SMS notifications. Delivery is
// best-effort; callers log and drop failures.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"sika/internal/core"
)

// Notifier sends a message to a phone number.
type Notifier interface {
	Notify(ctx context.Context, phoneNumber, message string) error
}

// TransactionMessage renders the SMS body for a recorded transaction.
func TransactionMessage(t core.Transaction) string {
	amount := strconv.FormatFloat(t.Amount, 'f', -1, 64)
	return fmt.Sprintf("Hi %s,\nYour account has been %sed, GHS %s", t.FullName, t.Type, amount)
}

// LogNotifier writes the message to the log instead of sending it.
// Used when no SMS provider is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, phoneNumber, message string) error {
	slog.InfoContext(ctx, "SMS delivery skipped (no provider configured)",
		"phone_number", phoneNumber,
		"message", message)
	return nil
}
