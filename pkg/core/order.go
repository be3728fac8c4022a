package core

import (
	"errors"
	"fmt"
)

// State is an order's position in the swap lifecycle. States only move
// forward: queued -> pending -> routing -> building -> submitted -> confirmed,
// with failed as an alternate terminal reachable from any non-terminal state
// after queued.
type State int

const (
	Queued State = iota
	Pending
	Routing
	Building
	Submitted
	Confirmed
	Failed
)

func (s State) String() string {
	switch s {
	case Queued:
		return "queued"
	case Pending:
		return "pending"
	case Routing:
		return "routing"
	case Building:
		return "building"
	case Submitted:
		return "submitted"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transition is allowed out of s.
func (s State) Terminal() bool {
	return s == Confirmed || s == Failed
}

var ErrStateRegression = errors.New("order state cannot move backwards")

// Order is one swap request moving through the lifecycle. It is owned
// exclusively by the goroutine processing it; nothing here is safe for
// concurrent mutation.
type Order struct {
	ID         string      `json:"orderId"`
	TokenIn    string      `json:"tokenIn"`
	TokenOut   string      `json:"tokenOut"`
	Amount     float64     `json:"amount"`
	State      State       `json:"-"`
	Quotes     []Quote     `json:"-"`
	ChosenDex  string      `json:"-"`
	Settlement *Settlement `json:"-"`
}

// Advance moves the order to next. Regressions and transitions out of a
// terminal state are programming errors and rejected.
func (o *Order) Advance(next State) error {
	if o.State.Terminal() {
		return fmt.Errorf("order %s: %w: already %s", o.ID, ErrStateRegression, o.State)
	}
	if next != Failed && next <= o.State {
		return fmt.Errorf("order %s: %w: %s -> %s", o.ID, ErrStateRegression, o.State, next)
	}
	o.State = next
	return nil
}

// Validate checks the submission-time invariants. An order failing here must
// never be queued.
func (o *Order) Validate() error {
	if o.TokenIn == "" {
		return fmt.Errorf("%w: tokenIn is required", ErrInvalidOrder)
	}
	if o.TokenOut == "" {
		return fmt.Errorf("%w: tokenOut is required", ErrInvalidOrder)
	}
	if o.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %v", ErrInvalidOrder, o.Amount)
	}
	return nil
}
