package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderAdvance(t *testing.T) {
	t.Run("full forward path", func(t *testing.T) {
		ord := Order{ID: "o1", State: Queued}
		for _, next := range []State{Pending, Routing, Building, Submitted, Confirmed} {
			require.NoError(t, ord.Advance(next))
			assert.Equal(t, next, ord.State)
		}
	})

	t.Run("no regression", func(t *testing.T) {
		ord := Order{ID: "o1", State: Building}
		err := ord.Advance(Routing)
		require.ErrorIs(t, err, ErrStateRegression)
		assert.Equal(t, Building, ord.State, "rejected transition must not mutate state")
	})

	t.Run("no repeat", func(t *testing.T) {
		ord := Order{ID: "o1", State: Routing}
		require.ErrorIs(t, ord.Advance(Routing), ErrStateRegression)
	})

	t.Run("failed reachable from any active state", func(t *testing.T) {
		for _, from := range []State{Pending, Routing, Building, Submitted} {
			ord := Order{ID: "o1", State: from}
			require.NoError(t, ord.Advance(Failed), "from %s", from)
		}
	})

	t.Run("terminal states locked", func(t *testing.T) {
		for _, terminal := range []State{Confirmed, Failed} {
			ord := Order{ID: "o1", State: terminal}
			require.ErrorIs(t, ord.Advance(Failed), ErrStateRegression)
		}
	})
}

func TestOrderValidate(t *testing.T) {
	valid := Order{ID: "o1", TokenIn: "USDC", TokenOut: "SOL", Amount: 100}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name  string
		morph func(*Order)
	}{
		{"missing tokenIn", func(o *Order) { o.TokenIn = "" }},
		{"missing tokenOut", func(o *Order) { o.TokenOut = "" }},
		{"zero amount", func(o *Order) { o.Amount = 0 }},
		{"negative amount", func(o *Order) { o.Amount = -3 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ord := valid
			tc.morph(&ord)
			assert.ErrorIs(t, ord.Validate(), ErrInvalidOrder)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "queued", Queued.String())
	assert.Equal(t, "confirmed", Confirmed.String())
	assert.Equal(t, "failed", Failed.String())
	assert.False(t, Submitted.Terminal())
	assert.True(t, Failed.Terminal())
}
