package core

import "errors"

// Failure reasons carried on terminal failed events.
const (
	ReasonNoQuotes        = "NoQuotesAvailable"
	ReasonExecutionFailed = "ExecutionFailed"
)

var (
	// ErrInvalidOrder marks a malformed submission, rejected at the API
	// boundary before anything is queued.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrNoQuotes means every configured price source failed for an order.
	ErrNoQuotes = errors.New("no quotes available")
)

// Event is one lifecycle notification, delivered best-effort to whichever
// subscriber is attached to the order at the moment it is emitted. Optional
// fields are populated per state: quotes and chosenDex on the routing event
// that follows selection, transactionRef and executedPrice on confirmed,
// reason on failed.
type Event struct {
	OrderID        string  `json:"orderId"`
	Status         string  `json:"status"`
	Quotes         []Quote `json:"quotes,omitempty"`
	ChosenDex      string  `json:"chosenDex,omitempty"`
	TransactionRef string  `json:"transactionRef,omitempty"`
	ExecutedPrice  float64 `json:"executedPrice,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}
