package tasks

import (
	"context"
	"sync"
	"testing"
	"time"

	"sika/internal/core"
)

func TestInProcessRunsAllScheduledWork(t *testing.T) {
	var mu sync.Mutex
	var seen []string

	d := NewInProcess(func(_ context.Context, tx core.Transaction) {
		mu.Lock()
		seen = append(seen, tx.ID)
		mu.Unlock()
	}, 2, time.Second)

	for _, id := range []string{"a", "b", "c", "d"} {
		if err := d.TransactionRecorded(context.Background(), core.Transaction{ID: id}); err != nil {
			t.Fatalf("dispatch %s: %v", id, err)
		}
	}
	d.Wait()

	if len(seen) != 4 {
		t.Fatalf("processed %d items, want 4: %v", len(seen), seen)
	}
}

// The work context must outlive the request context that scheduled it.
func TestInProcessDetachesFromRequestContext(t *testing.T) {
	done := make(chan error, 1)
	d := NewInProcess(func(ctx context.Context, _ core.Transaction) {
		select {
		case <-time.After(50 * time.Millisecond):
			done <- ctx.Err()
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}, 1, time.Second)

	reqCtx, cancel := context.WithCancel(context.Background())
	if err := d.TransactionRecorded(reqCtx, core.Transaction{ID: "t1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	cancel() // request finished before the work did

	if err := <-done; err != nil {
		t.Fatalf("work context cancelled with the request: %v", err)
	}
	d.Wait()
}

func TestInProcessBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	running, peak := 0, 0

	d := NewInProcess(func(context.Context, core.Transaction) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		running--
		mu.Unlock()
	}, 2, time.Second)

	for i := 0; i < 6; i++ {
		_ = d.TransactionRecorded(context.Background(), core.Transaction{})
	}
	d.Wait()

	if peak > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", peak)
	}
}
