package queue

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
	"github.com/uhyunpark/swaproute/pkg/storage"
)

// Memory dispatches orders to a pool of worker goroutines inside the same
// process. Durability comes from the journal: an order is recorded before it
// is buffered and cleared only after the handler acknowledges it, so a crash
// mid-flight leaves it pending for Replay on the next start.
type Memory struct {
	jobs    chan core.Order
	workers int
	handler Handler
	journal *storage.Journal
	log     *zap.SugaredLogger
	wg      sync.WaitGroup
}

func NewMemory(workers, buffer int, journal *storage.Journal, handler Handler, log *zap.SugaredLogger) *Memory {
	if workers < 1 {
		workers = 1
	}
	return &Memory{
		jobs:    make(chan core.Order, buffer),
		workers: workers,
		handler: handler,
		journal: journal,
		log:     log,
	}
}

func (q *Memory) Enqueue(ctx context.Context, ord core.Order) error {
	if err := q.journal.Record(ord); err != nil {
		return err
	}
	select {
	case q.jobs <- ord:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("enqueue %s: %w", ord.ID, ctx.Err())
	}
}

// Replay re-buffers every journaled order that never reached a terminal
// state. Call once before Start accepts new traffic.
func (q *Memory) Replay(ctx context.Context) error {
	pending, err := q.journal.Pending()
	if err != nil {
		return err
	}
	for _, ord := range pending {
		select {
		case q.jobs <- ord:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if len(pending) > 0 {
		q.log.Infow("journal_replayed", "orders", len(pending))
	}
	return nil
}

func (q *Memory) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.work(ctx)
	}
	q.log.Infow("queue_started", "mode", "memory", "workers", q.workers)
}

func (q *Memory) work(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ord := <-q.jobs:
			if err := q.handler(ctx, ord); err != nil {
				// Stays in the journal; redelivered on next startup.
				q.log.Errorw("handler_failed", "order_id", ord.ID, "err", err)
				continue
			}
			if err := q.journal.Done(ord.ID); err != nil {
				q.log.Errorw("journal_done_failed", "order_id", ord.ID, "err", err)
			}
		}
	}
}

// Close waits for in-flight workers to observe cancellation.
func (q *Memory) Close() error {
	q.wg.Wait()
	return nil
}
