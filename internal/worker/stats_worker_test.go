package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sika/internal/amqp"
	"sika/internal/core"
	"sika/internal/services"
	"sika/internal/store/memory"
)

type recordingNotifier struct {
	mu       sync.Mutex
	phones   []string
	messages []string
	fail     bool
}

func (n *recordingNotifier) Notify(_ context.Context, phone, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("gateway unavailable")
	}
	n.phones = append(n.phones, phone)
	n.messages = append(n.messages, message)
	return nil
}

func setup(t *testing.T) (*memory.Store, *StatsWorker, *recordingNotifier, string) {
	t.Helper()
	mem := memory.New()
	notifier := &recordingNotifier{}
	w := NewStatsWorker(mem, services.NewStatsService(mem), notifier)

	userID, err := mem.InsertUser(context.Background(), core.User{
		Name:        "Ama Mensah",
		Email:       "ama@example.com",
		PhoneNumber: "+233546744163",
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return mem, w, notifier, userID
}

func recorded(t *testing.T, mem *memory.Store, userID string, amount float64, typ core.TransactionType) core.Transaction {
	t.Helper()
	tx := core.Transaction{
		UserID:   userID,
		FullName: "Ama Mensah",
		Date:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		Amount:   amount,
		Type:     typ,
	}
	id, err := mem.InsertTransaction(context.Background(), tx)
	if err != nil {
		t.Fatalf("insert transaction: %v", err)
	}
	tx.ID = id
	return tx
}

func TestProcessUpdatesStatsAndNotifies(t *testing.T) {
	ctx := context.Background()
	mem, w, notifier, userID := setup(t)

	w.Process(ctx, recorded(t, mem, userID, 100, core.Credit))

	u, _ := mem.GetUser(ctx, userID)
	if u.Balance != 100 || u.TotalNumberOfTransactions != 1 {
		t.Fatalf("aggregates not updated: %+v", u)
	}
	if len(notifier.phones) != 1 || notifier.phones[0] != "+233546744163" {
		t.Fatalf("notified phones = %v", notifier.phones)
	}
	want := "Hi Ama Mensah,\nYour account has been credited, GHS 100"
	if notifier.messages[0] != want {
		t.Fatalf("message = %q, want %q", notifier.messages[0], want)
	}
}

// A notification failure must not undo or block the stats update, and
// a stats failure must not block the notification path.
func TestProcessEffectsAreIndependent(t *testing.T) {
	ctx := context.Background()
	mem, w, notifier, userID := setup(t)
	notifier.fail = true

	w.Process(ctx, recorded(t, mem, userID, 50, core.Credit))

	u, _ := mem.GetUser(ctx, userID)
	if u.Balance != 50 {
		t.Fatalf("stats not applied despite SMS failure: balance = %v", u.Balance)
	}
}

func TestProcessUnknownUserLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	mem, w, notifier, userID := setup(t)

	orphan := recorded(t, mem, "no-such-user", 75, core.Credit)
	w.Process(ctx, orphan) // logs and drops, must not panic

	u, _ := mem.GetUser(ctx, userID)
	if u.TotalNumberOfTransactions != 0 {
		t.Fatalf("unrelated user mutated: %+v", u)
	}
	if len(notifier.phones) != 0 {
		t.Fatalf("notification sent for unknown user")
	}

	// The orphan transaction record itself stays persisted.
	if _, err := mem.GetTransaction(ctx, orphan.ID); err != nil {
		t.Fatalf("orphan transaction removed: %v", err)
	}
}

func TestHandleTransactionRecorded(t *testing.T) {
	ctx := context.Background()
	mem, w, _, userID := setup(t)
	tx := recorded(t, mem, userID, 20, core.Debit)

	msg := amqp.NewTransactionRecordedMessage(tx.ID, userID)
	if err := w.HandleTransactionRecorded(ctx, msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	u, _ := mem.GetUser(ctx, userID)
	if u.Balance != -20 {
		t.Fatalf("balance = %v, want -20", u.Balance)
	}
}

func TestHandleTransactionRecordedMissingTransaction(t *testing.T) {
	_, w, _, _ := setup(t)
	msg := amqp.NewTransactionRecordedMessage("missing", "u")
	if err := w.HandleTransactionRecorded(context.Background(), msg); err == nil {
		t.Fatalf("expected error for missing transaction")
	}
}
