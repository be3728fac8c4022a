// Package quote fans an order's parameters out to every configured liquidity
// source and reduces the answers to a single route.
package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Source is one liquidity provider. Implementations are expected to be safe
// for concurrent use; the aggregator queries all sources from separate
// goroutines.
type Source interface {
	Name() string
	Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (core.Quote, error)
}

// SourceError records one source's failure for diagnostics. A failed source
// is excluded from selection but does not fail the aggregation unless every
// source fails.
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Aggregator queries all sources concurrently and waits for every one of
// them to settle. There is no fastest-wins short circuit: the fan-out is a
// join, not a race.
type Aggregator struct {
	sources []Source
	timeout time.Duration // per-source budget; 0 disables
	log     *zap.SugaredLogger
}

func NewAggregator(sources []Source, perSourceTimeout time.Duration, log *zap.SugaredLogger) *Aggregator {
	return &Aggregator{sources: sources, timeout: perSourceTimeout, log: log}
}

// Sources returns the configured source names.
func (a *Aggregator) Sources() []string {
	names := make([]string, len(a.sources))
	for i, s := range a.sources {
		names[i] = s.Name()
	}
	return names
}

// Collect queries every source for (tokenIn, tokenOut, amount) and returns
// the successful quotes plus the failures. One source's failure never cancels
// the others; a timed-out source is a normal per-source failure. Collect
// returns core.ErrNoQuotes only when every source failed.
func (a *Aggregator) Collect(ctx context.Context, tokenIn, tokenOut string, amount float64) ([]core.Quote, []SourceError, error) {
	type outcome struct {
		quote core.Quote
		err   error
	}
	outcomes := make([]outcome, len(a.sources))

	var wg sync.WaitGroup
	for i, src := range a.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			qctx := ctx
			if a.timeout > 0 {
				var cancel context.CancelFunc
				qctx, cancel = context.WithTimeout(ctx, a.timeout)
				defer cancel()
			}
			q, err := src.Quote(qctx, tokenIn, tokenOut, amount)
			outcomes[i] = outcome{quote: q, err: err}
		}(i, src)
	}
	wg.Wait()

	var quotes []core.Quote
	var failures []SourceError
	for i, out := range outcomes {
		if out.err != nil {
			failures = append(failures, SourceError{Source: a.sources[i].Name(), Err: out.err})
			a.log.Debugw("source_failed",
				"source", a.sources[i].Name(),
				"token_in", tokenIn, "token_out", tokenOut,
				"err", out.err)
			continue
		}
		quotes = append(quotes, out.quote)
	}

	if len(quotes) == 0 {
		return nil, failures, fmt.Errorf("%w: all %d sources failed for %s/%s",
			core.ErrNoQuotes, len(a.sources), tokenIn, tokenOut)
	}
	return quotes, failures, nil
}
