package quote

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// stubSource answers with a fixed quote or error after an optional delay.
type stubSource struct {
	name  string
	price float64
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Quote(ctx context.Context, tokenIn, tokenOut string, amount float64) (core.Quote, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return core.Quote{}, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	if s.err != nil {
		return core.Quote{}, s.err
	}
	return core.Quote{Source: s.name, Price: s.price, Fee: 0.003}, nil
}

func testLog() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func TestAggregatorCollectAll(t *testing.T) {
	a := NewAggregator([]Source{
		&stubSource{name: "orca", price: 99.5},
		&stubSource{name: "raydium", price: 101.0},
		&stubSource{name: "meteora", price: 100.2},
	}, 0, testLog())

	quotes, failures, err := a.Collect(context.Background(), "USDC", "SOL", 100)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Len(t, quotes, 3)
}

func TestAggregatorPartialFailure(t *testing.T) {
	boom := errors.New("rate limited")
	slow := &stubSource{name: "meteora", price: 100.2, delay: 30 * time.Millisecond}
	a := NewAggregator([]Source{
		&stubSource{name: "orca", err: boom},
		&stubSource{name: "raydium", price: 101.0},
		slow,
	}, 0, testLog())

	quotes, failures, err := a.Collect(context.Background(), "USDC", "SOL", 100)
	require.NoError(t, err, "partial failure is not an aggregation error")
	assert.Len(t, quotes, 2, "slow source must still be awaited, not raced")
	require.Len(t, failures, 1)
	assert.Equal(t, "orca", failures[0].Source)
	assert.ErrorIs(t, failures[0].Err, boom)
	assert.EqualValues(t, 1, slow.calls.Load())
}

func TestAggregatorAllFail(t *testing.T) {
	a := NewAggregator([]Source{
		&stubSource{name: "orca", err: errors.New("down")},
		&stubSource{name: "raydium", err: errors.New("down too")},
	}, 0, testLog())

	quotes, failures, err := a.Collect(context.Background(), "USDC", "SOL", 100)
	require.ErrorIs(t, err, core.ErrNoQuotes)
	assert.Empty(t, quotes)
	assert.Len(t, failures, 2)
}

func TestAggregatorPerSourceTimeout(t *testing.T) {
	a := NewAggregator([]Source{
		&stubSource{name: "orca", price: 99.5},
		&stubSource{name: "glacial", price: 120, delay: time.Second},
	}, 20*time.Millisecond, testLog())

	quotes, failures, err := a.Collect(context.Background(), "USDC", "SOL", 100)
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "orca", quotes[0].Source)
	require.Len(t, failures, 1)
	assert.Equal(t, "glacial", failures[0].Source)
}

func TestAggregatorSources(t *testing.T) {
	a := NewAggregator([]Source{
		&stubSource{name: "orca"},
		&stubSource{name: "raydium"},
	}, 0, testLog())
	assert.Equal(t, []string{"orca", "raydium"}, a.Sources())
}
