// Package providers holds the stand-in liquidity sources and executor used
// until real DEX adapters are wired. They answer with randomized latency and
// price jitter so the pipeline sees realistic variance; the orchestrator
// treats them as opaque providers behind the quote.Source and exec.Executor
// contracts.
package providers

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/uhyunpark/swaproute/pkg/core"
	"github.com/uhyunpark/swaproute/pkg/util"
)

// lockedRand guards a seeded *rand.Rand; sources are queried from many
// goroutines at once.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// MockSource simulates one DEX price endpoint. Each call sleeps a random
// duration up to MaxLatency and answers BasePrice disturbed by up to ±Jitter
// (fractional). FailRate in [0,1] injects provider errors.
type MockSource struct {
	SourceName string
	BasePrice  float64
	FeeRate    float64
	MaxLatency time.Duration
	Jitter     float64
	FailRate   float64

	Clock util.Clock
	rng   *lockedRand
}

// NewMockSource builds a source with its own seeded RNG. Pass a fixed seed
// for reproducible tests.
func NewMockSource(name string, basePrice float64, seed int64) *MockSource {
	return &MockSource{
		SourceName: name,
		BasePrice:  basePrice,
		FeeRate:    0.003,
		MaxLatency: 150 * time.Millisecond,
		Jitter:     0.02,
		Clock:      util.RealClock{},
		rng:        newLockedRand(seed),
	}
}

func (s *MockSource) Name() string { return s.SourceName }

func (s *MockSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (core.Quote, error) {
	if err := s.sleep(ctx); err != nil {
		return core.Quote{}, err
	}
	if s.FailRate > 0 && s.rng.Float64() < s.FailRate {
		return core.Quote{}, fmt.Errorf("%s: provider unavailable", s.SourceName)
	}
	// Symmetric jitter around the base price.
	price := s.BasePrice * (1 + s.Jitter*(2*s.rng.Float64()-1))
	return core.Quote{Source: s.SourceName, Price: price, Fee: s.FeeRate}, nil
}

func (s *MockSource) sleep(ctx context.Context) error {
	if s.MaxLatency <= 0 {
		return ctx.Err()
	}
	d := time.Duration(s.rng.Float64() * float64(s.MaxLatency))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.Clock.After(d):
		return nil
	}
}

// MockExecutor simulates the settlement leg. It prices the fill off its own
// base price with bounded slippage and returns a fresh transaction reference.
type MockExecutor struct {
	BasePrice  float64
	Slippage   float64 // max fractional deviation from BasePrice
	MaxLatency time.Duration
	FailRate   float64

	Clock util.Clock
	rng   *lockedRand
}

func NewMockExecutor(basePrice float64, seed int64) *MockExecutor {
	return &MockExecutor{
		BasePrice:  basePrice,
		Slippage:   0.01,
		MaxLatency: 300 * time.Millisecond,
		Clock:      util.RealClock{},
		rng:        newLockedRand(seed),
	}
}

func (e *MockExecutor) Execute(ctx context.Context, route, tokenIn, tokenOut string, amount float64) (core.Settlement, error) {
	if e.MaxLatency > 0 {
		d := time.Duration(e.rng.Float64() * float64(e.MaxLatency))
		select {
		case <-ctx.Done():
			return core.Settlement{}, ctx.Err()
		case <-e.Clock.After(d):
		}
	}
	if e.FailRate > 0 && e.rng.Float64() < e.FailRate {
		return core.Settlement{}, fmt.Errorf("route %s: commit rejected", route)
	}
	price := e.BasePrice * (1 + e.Slippage*(2*e.rng.Float64()-1))
	return core.Settlement{
		TransactionRef: uuid.NewString(),
		ExecutedPrice:  price,
	}, nil
}
