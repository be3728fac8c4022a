// Package orchestrator drives dequeued swap orders through their lifecycle:
// quote fan-out, route selection, execution, and a notification at every
// transition.
package orchestrator

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
	"github.com/uhyunpark/swaproute/pkg/exec"
	"github.com/uhyunpark/swaproute/pkg/quote"
)

// QuoteCollector is the aggregation step's contract (satisfied by
// *quote.Aggregator; tests inject deterministic fakes).
type QuoteCollector interface {
	Collect(ctx context.Context, tokenIn, tokenOut string, amount float64) ([]core.Quote, []quote.SourceError, error)
}

// Publisher delivers lifecycle events best-effort (satisfied by
// *registry.Registry).
type Publisher interface {
	Publish(orderID string, ev core.Event)
}

// Orchestrator owns each order exclusively from dequeue to terminal state.
// Distinct orders are processed by independent goroutines with no ordering
// between them; the steps within one Process call are strictly sequential.
type Orchestrator struct {
	quotes   QuoteCollector
	executor exec.Executor
	events   Publisher
	log      *zap.SugaredLogger
}

func New(quotes QuoteCollector, executor exec.Executor, events Publisher, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		quotes:   quotes,
		executor: executor,
		events:   events,
		log:      log,
	}
}

// Process runs ord to a terminal state. Once started there is no mid-flight
// cancellation: an order-level failure lands in the failed state with a
// reason, and the per-order error is reported on the event stream rather
// than returned. The returned error is reserved for the queue contract and
// is always nil today; redelivery policy lives in the queue collaborator.
func (o *Orchestrator) Process(ctx context.Context, ord core.Order) error {
	log := o.log.With("order_id", ord.ID, "token_in", ord.TokenIn, "token_out", ord.TokenOut)

	o.transition(&ord, core.Pending)
	o.emit(&ord, nil)

	o.transition(&ord, core.Routing)
	o.emit(&ord, nil)

	quotes, failures, err := o.quotes.Collect(ctx, ord.TokenIn, ord.TokenOut, ord.Amount)
	for _, f := range failures {
		log.Infow("quote_source_failed", "source", f.Source, "err", f.Err)
	}
	if err != nil {
		if !errors.Is(err, core.ErrNoQuotes) {
			log.Errorw("quote_aggregation_failed", "err", err)
		}
		o.fail(&ord, core.ReasonNoQuotes)
		return nil
	}

	ord.Quotes = quotes
	best, err := quote.SelectBest(quotes)
	if err != nil {
		// Collect returned a non-empty set, so this cannot happen; treat it
		// like an empty quote set if it ever does.
		o.fail(&ord, core.ReasonNoQuotes)
		return nil
	}
	ord.ChosenDex = best.Source
	log.Infow("route_selected", "dex", best.Source, "price", best.Price, "quotes", len(quotes))
	// Second routing event carries the full quote set and the choice.
	o.emit(&ord, func(ev *core.Event) {
		ev.Quotes = ord.Quotes
		ev.ChosenDex = ord.ChosenDex
	})

	o.transition(&ord, core.Building)
	o.emit(&ord, nil)

	o.transition(&ord, core.Submitted)
	o.emit(&ord, nil)

	settlement, err := o.executor.Execute(ctx, ord.ChosenDex, ord.TokenIn, ord.TokenOut, ord.Amount)
	if err != nil {
		log.Warnw("execution_failed", "dex", ord.ChosenDex, "err", err)
		o.fail(&ord, core.ReasonExecutionFailed)
		return nil
	}

	ord.Settlement = &settlement
	o.transition(&ord, core.Confirmed)
	log.Infow("order_confirmed", "tx_ref", settlement.TransactionRef, "executed_price", settlement.ExecutedPrice)
	o.emit(&ord, func(ev *core.Event) {
		ev.TransactionRef = settlement.TransactionRef
		ev.ExecutedPrice = settlement.ExecutedPrice
	})
	return nil
}

func (o *Orchestrator) transition(ord *core.Order, next core.State) {
	if err := ord.Advance(next); err != nil {
		// State ordering is enforced by the sequence above; a violation is a
		// bug worth crashing loudly over in development.
		o.log.DPanicw("state_transition_rejected", "order_id", ord.ID, "err", err)
	}
}

func (o *Orchestrator) fail(ord *core.Order, reason string) {
	o.transition(ord, core.Failed)
	o.emit(ord, func(ev *core.Event) { ev.Reason = reason })
}

// emit publishes one event for the order's current state. decorate, when
// non-nil, adds the state-specific payload.
func (o *Orchestrator) emit(ord *core.Order, decorate func(*core.Event)) {
	ev := core.Event{OrderID: ord.ID, Status: ord.State.String()}
	if decorate != nil {
		decorate(&ev)
	}
	o.events.Publish(ord.ID, ev)
}
