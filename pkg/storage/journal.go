// Package storage persists accepted orders until they reach a terminal
// state, giving the in-process queue at-least-once redelivery across
// restarts.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Journal is a pebble-backed pending set keyed by order id. Record before
// dispatch, Done at a terminal state; whatever is still present at startup
// was accepted but never finished and gets re-dispatched.
type Journal struct {
	db *pebble.DB
}

func OpenJournal(path string) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// keys: o:<orderId>
func kOrder(id string) []byte { return append([]byte("o:"), id...) }

// Record durably stores ord before it is handed to a worker. Idempotent:
// re-recording an order overwrites the same entry.
func (j *Journal) Record(ord core.Order) error {
	val, err := json.Marshal(ord)
	if err != nil {
		return fmt.Errorf("encode order %s: %w", ord.ID, err)
	}
	if err := j.db.Set(kOrder(ord.ID), val, pebble.Sync); err != nil {
		return fmt.Errorf("record order %s: %w", ord.ID, err)
	}
	return nil
}

// Done removes the order from the pending set. Safe to call for ids that
// were never recorded.
func (j *Journal) Done(orderID string) error {
	if err := j.db.Delete(kOrder(orderID), pebble.Sync); err != nil {
		return fmt.Errorf("complete order %s: %w", orderID, err)
	}
	return nil
}

// Pending returns every recorded order that has not been marked done, for
// redelivery at startup.
func (j *Journal) Pending() ([]core.Order, error) {
	iter, err := j.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte("o:"),
		UpperBound: []byte("o;"), // ';' is ':'+1
	})
	if err != nil {
		return nil, fmt.Errorf("journal scan: %w", err)
	}
	defer iter.Close()

	var out []core.Order
	for iter.First(); iter.Valid(); iter.Next() {
		var ord core.Order
		if err := json.Unmarshal(iter.Value(), &ord); err != nil {
			return nil, fmt.Errorf("decode journal entry %q: %w", iter.Key(), err)
		}
		out = append(out, ord)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("journal scan: %w", err)
	}
	return out, nil
}
