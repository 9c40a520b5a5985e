package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"sika/internal/core"
	"sika/internal/store"
)

func TestUserLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, err := s.InsertUser(ctx, core.User{Name: "Ama", Email: "ama@example.com", PhoneNumber: "+233546744163"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	u, err := s.GetUser(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.ID != id || u.Name != "Ama" {
		t.Fatalf("got %+v", u)
	}

	u.Balance = 42
	if _, err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	u, _ = s.GetUser(ctx, id)
	if u.Balance != 42 {
		t.Fatalf("balance = %v, want 42", u.Balance)
	}

	users, err := s.ListUsers(ctx)
	if err != nil || len(users) != 1 {
		t.Fatalf("list = %v, %v", users, err)
	}

	removed, err := s.DeleteUser(ctx, id)
	if err != nil || removed.ID != id {
		t.Fatalf("delete = %+v, %v", removed, err)
	}
	if _, err := s.GetUser(ctx, id); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUser = %v", err)
	}
	if _, err := s.UpdateUser(ctx, core.User{ID: "missing"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateUser = %v", err)
	}
	if _, err := s.DeleteTransaction(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("DeleteTransaction = %v", err)
	}
}

func TestListTransactionsByUser(t *testing.T) {
	ctx := context.Background()
	s := New()

	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	for i, tx := range []core.Transaction{
		{UserID: "u1", Date: day(3), Amount: 3, Type: core.Credit},
		{UserID: "u2", Date: day(1), Amount: 9, Type: core.Credit},
		{UserID: "u1", Date: day(1), Amount: 1, Type: core.Debit},
	} {
		if _, err := s.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	txs, err := s.ListTransactionsByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if !txs[0].Date.Before(txs[1].Date) {
		t.Fatalf("transactions not ordered by date: %v", txs)
	}
}

// Mutating a returned record must not leak back into the store.
func TestGetUserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	id, _ := s.InsertUser(ctx, core.User{
		Name: "Ama", Email: "a@b.c", PhoneNumber: "1",
		Transactions: map[string][]float64{"2024-01-01": {10}},
	})

	u, _ := s.GetUser(ctx, id)
	u.Transactions["2024-01-01"][0] = 999

	again, _ := s.GetUser(ctx, id)
	if again.Transactions["2024-01-01"][0] != 10 {
		t.Fatalf("store record mutated through returned copy")
	}
}
