// Package queue feeds accepted orders to the orchestrator. Two transports
// exist: an in-process worker pool backed by the storage journal, and Kafka,
// where the broker owns durability and redelivery. Both deliver at least
// once; the handler must tolerate seeing an order twice.
package queue

import (
	"context"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Handler processes one dequeued order. A nil return acknowledges the
// delivery; an error leaves it pending for redelivery.
type Handler func(ctx context.Context, ord core.Order) error

// Queue is the submission layer's view of the work queue.
type Queue interface {
	// Enqueue durably accepts an order for processing.
	Enqueue(ctx context.Context, ord core.Order) error
	// Start begins dispatching to the handler until ctx is cancelled.
	Start(ctx context.Context)
	Close() error
}
