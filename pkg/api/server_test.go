package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uhyunpark/swaproute/pkg/core"
	"github.com/uhyunpark/swaproute/pkg/registry"
)

// fakeQueue captures enqueued orders.
type fakeQueue struct {
	mu       sync.Mutex
	enqueued []core.Order
}

func (f *fakeQueue) Enqueue(ctx context.Context, ord core.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, ord)
	return nil
}

func (f *fakeQueue) Start(ctx context.Context) {}
func (f *fakeQueue) Close() error              { return nil }

func (f *fakeQueue) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.enqueued)
}

func newTestServer() (*Server, *fakeQueue, *registry.Registry) {
	log := zap.NewNop().Sugar()
	q := &fakeQueue{}
	reg := registry.New(log)
	return NewServer(q, reg, []string{"meteora", "orca", "raydium"}, log), q, reg
}

func postSwap(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/swaps", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSubmitSwapAccepted(t *testing.T) {
	s, q, _ := newTestServer()

	rec := postSwap(t, s, `{"tokenIn":"USDC","tokenOut":"SOL","amount":100}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp SubmitSwapResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "queued", resp.Status)

	require.Equal(t, 1, q.count())
	ord := q.enqueued[0]
	assert.Equal(t, resp.OrderID, ord.ID)
	assert.Equal(t, "USDC", ord.TokenIn)
	assert.Equal(t, "SOL", ord.TokenOut)
	assert.Equal(t, 100.0, ord.Amount)
}

func TestSubmitSwapValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing tokenIn", `{"tokenOut":"SOL","amount":100}`},
		{"missing tokenOut", `{"tokenIn":"USDC","amount":100}`},
		{"missing amount", `{"tokenIn":"USDC","tokenOut":"SOL"}`},
		{"negative amount", `{"tokenIn":"USDC","tokenOut":"SOL","amount":-5}`},
		{"malformed json", `{"tokenIn":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, q, _ := newTestServer()
			rec := postSwap(t, s, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, q.count(), "rejected submissions must never be queued")
		})
	}
}

func TestGetSources(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sources", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SourcesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"meteora", "orca", "raydium"}, resp.Sources)
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "ok"))
}
