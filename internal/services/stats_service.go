package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"sika/internal/core"
	"sika/internal/store"
)

// StatsService owns the mutation of a user's aggregate fields. Runs
// for the same user are serialized so the read-modify-write against
// the store cannot interleave; distinct users proceed in parallel.
type StatsService struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewStatsService(st store.Store) *StatsService {
	return &StatsService{
		store: st,
		locks: make(map[string]*sync.Mutex),
	}
}

// Apply folds a recorded transaction into the owning user's aggregates
// and persists the result. Returns store.ErrNotFound (wrapped) without
// writing anything when the user id does not resolve.
func (s *StatsService) Apply(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}

	lock := s.userLock(t.UserID)
	lock.Lock()
	defer lock.Unlock()

	user, err := s.store.GetUser(ctx, t.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", t.UserID, err)
	}

	core.ApplyTransaction(&user, t)

	if _, err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("persist user %s: %w", t.UserID, err)
	}

	slog.InfoContext(ctx, "User statistics updated",
		"user_id", t.UserID,
		"transaction_id", t.ID,
		"transaction_type", string(t.Type),
		"amount", t.Amount,
		"balance", user.Balance,
		"total_transactions", user.TotalNumberOfTransactions)

	return nil
}

func (s *StatsService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}
