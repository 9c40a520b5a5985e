package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sika/internal/core"
	"sika/internal/store"
	"sika/internal/store/memory"
)

func newUser(t *testing.T, s *memory.Store) string {
	t.Helper()
	id, err := s.InsertUser(context.Background(), core.User{
		Name:        "Ama Mensah",
		Email:       "ama@example.com",
		PhoneNumber: "+233546744163",
	})
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func tx(userID string, amount float64, typ core.TransactionType) core.Transaction {
	return core.Transaction{
		ID:       "t-" + userID,
		UserID:   userID,
		FullName: "Ama Mensah",
		Date:     time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Amount:   amount,
		Type:     typ,
	}
}

func TestApplyPersistsAggregates(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewStatsService(mem)
	id := newUser(t, mem)

	if err := svc.Apply(ctx, tx(id, 100, core.Credit)); err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if err := svc.Apply(ctx, tx(id, 30, core.Debit)); err != nil {
		t.Fatalf("apply debit: %v", err)
	}

	u, err := mem.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if u.Balance != 70 {
		t.Fatalf("balance = %v, want 70", u.Balance)
	}
	if u.TotalNumberOfTransactions != 2 {
		t.Fatalf("count = %d, want 2", u.TotalNumberOfTransactions)
	}
	if u.DateWithHighestTransaction != "2024-01-01" {
		t.Fatalf("peak date = %q", u.DateWithHighestTransaction)
	}
}

func TestApplyUnknownUserWritesNothing(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewStatsService(mem)
	known := newUser(t, mem)

	err := svc.Apply(ctx, tx("no-such-user", 50, core.Credit))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// The one user that does exist is untouched.
	u, _ := mem.GetUser(ctx, known)
	if u.Balance != 0 || u.TotalNumberOfTransactions != 0 {
		t.Fatalf("unrelated user mutated: %+v", u)
	}
}

func TestApplyRejectsInvalidTransaction(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewStatsService(mem)
	id := newUser(t, mem)

	bad := tx(id, 10, "transfer")
	if err := svc.Apply(ctx, bad); err == nil {
		t.Fatalf("expected validation error")
	}

	u, _ := mem.GetUser(ctx, id)
	if u.TotalNumberOfTransactions != 0 {
		t.Fatalf("invalid transaction was applied")
	}
}

// Concurrent runs for one user must serialize; N credits of 1 leave
// the balance at exactly N.
func TestApplyConcurrentSameUser(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewStatsService(mem)
	id := newUser(t, mem)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := svc.Apply(ctx, tx(id, 1, core.Credit)); err != nil {
				t.Errorf("apply: %v", err)
			}
		}()
	}
	wg.Wait()

	u, _ := mem.GetUser(ctx, id)
	if u.Balance != n {
		t.Fatalf("balance = %v, want %d", u.Balance, n)
	}
	if u.TotalNumberOfTransactions != n {
		t.Fatalf("count = %d, want %d", u.TotalNumberOfTransactions, n)
	}
}

// Replaying the same recorded transaction doubles the aggregates; the
// engine does not deduplicate.
func TestApplyDuplicateNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := NewStatsService(mem)
	id := newUser(t, mem)

	same := tx(id, 100, core.Credit)
	if err := svc.Apply(ctx, same); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := svc.Apply(ctx, same); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	u, _ := mem.GetUser(ctx, id)
	if u.Balance != 200 {
		t.Fatalf("balance = %v, want 200 (duplicate applied twice)", u.Balance)
	}
	if u.TotalNumberOfTransactions != 2 {
		t.Fatalf("count = %d, want 2", u.TotalNumberOfTransactions)
	}
}
