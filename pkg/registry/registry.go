// Package registry maps order identifiers to live notification channels.
package registry

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Sender is the send capability of one subscriber channel. The transport
// layer owns the underlying connection; the registry only holds this
// reference. Send must not block — implementations back it with a buffered
// queue and report an error when the subscriber cannot keep up.
type Sender interface {
	Send(payload []byte) error
}

// Registry holds at most one Sender per order id. It is the only state in
// the system touched by more than one flow (order-processing goroutines
// publish, transport callbacks attach and detach), so every operation takes
// the one internal mutex and is atomic with respect to the others.
type Registry struct {
	mu       sync.Mutex
	channels map[string]Sender
	log      *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Registry {
	return &Registry{
		channels: make(map[string]Sender),
		log:      log,
	}
}

// Attach registers ch as the subscriber for orderID, replacing any channel
// previously attached under the same id. The registry never queues multiple
// subscribers per order.
func (r *Registry) Attach(orderID string, ch Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[orderID] = ch
	r.log.Infow("subscriber_attached", "order_id", orderID)
}

// Detach removes the channel for orderID if one is present. Detaching an
// absent id is a no-op.
func (r *Registry) Detach(orderID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.channels[orderID]; ok {
		delete(r.channels, orderID)
		r.log.Infow("subscriber_detached", "order_id", orderID)
	}
}

// DetachChannel removes the entry for orderID only while ch is still the
// attached channel. Transport teardown detaches by identity so a replaced
// connection closing late cannot evict its replacement.
func (r *Registry) DetachChannel(orderID string, ch Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.channels[orderID]; ok && cur == ch {
		delete(r.channels, orderID)
		r.log.Infow("subscriber_detached", "order_id", orderID)
	}
}

// Publish delivers ev to the channel currently attached to orderID, if any.
// Delivery is best-effort: no channel means the event is dropped, and a send
// failure evicts the stale channel and drops the event the same way. Publish
// never blocks and never surfaces an error to the caller.
func (r *Registry) Publish(orderID string, ev core.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		r.log.Errorw("event_marshal_failed", "order_id", orderID, "err", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[orderID]
	if !ok {
		return
	}
	if err := ch.Send(payload); err != nil {
		// Treat a dead channel the same as an absent one.
		delete(r.channels, orderID)
		r.log.Infow("subscriber_evicted", "order_id", orderID, "err", err)
	}
}

// Len reports the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}
