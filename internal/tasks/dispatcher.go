// Package tasks schedules the post-transaction background work. The
// HTTP layer hands a recorded transaction to a Dispatcher and moves
// on; completion is not guaranteed and failures never reach the
// request that triggered them.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"sika/internal/amqp"
	"sika/internal/core"
)

// Dispatcher schedules the background effects of a recorded
// transaction. An error means the work could not be scheduled; it
// never reflects the outcome of the work itself.
type Dispatcher interface {
	TransactionRecorded(ctx context.Context, t core.Transaction) error
}

// ProcessFunc runs the background effects for one transaction.
type ProcessFunc func(ctx context.Context, t core.Transaction)

// InProcess runs background work on a bounded goroutine group inside
// the API process. Work items get their own context so they survive
// the end of the HTTP request that scheduled them.
type InProcess struct {
	group   *errgroup.Group
	process ProcessFunc
	timeout time.Duration
}

func NewInProcess(process ProcessFunc, workers int, timeout time.Duration) *InProcess {
	g := &errgroup.Group{}
	g.SetLimit(workers)
	return &InProcess{
		group:   g,
		process: process,
		timeout: timeout,
	}
}

func (d *InProcess) TransactionRecorded(ctx context.Context, t core.Transaction) error {
	d.group.Go(func() error {
		runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()
		d.process(runCtx, t)
		return nil
	})
	slog.DebugContext(ctx, "Scheduled background work",
		"transaction_id", t.ID,
		"user_id", t.UserID)
	return nil
}

// Wait blocks until all scheduled work has finished. Used on shutdown.
func (d *InProcess) Wait() {
	_ = d.group.Wait()
}

// AMQP hands background work to the broker; a separate worker process
// consumes it.
type AMQP struct {
	client *amqp.Client
}

func NewAMQP(client *amqp.Client) *AMQP {
	return &AMQP{client: client}
}

func (d *AMQP) TransactionRecorded(ctx context.Context, t core.Transaction) error {
	if err := d.client.PublishTransactionRecorded(ctx, t.ID, t.UserID); err != nil {
		return fmt.Errorf("publish transaction recorded: %w", err)
	}
	return nil
}
