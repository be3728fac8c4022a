package api

// API request/response types for the REST endpoints.

// SubmitSwapRequest is the body of POST /api/v1/swaps.
type SubmitSwapRequest struct {
	TokenIn  string  `json:"tokenIn"`  // e.g. "USDC"
	TokenOut string  `json:"tokenOut"` // e.g. "SOL"
	Amount   float64 `json:"amount"`   // input token quantity, must be > 0
}

// SubmitSwapResponse acknowledges an accepted submission. Lifecycle events
// stream over /ws?orderId=<orderId>.
type SubmitSwapResponse struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

// SourcesResponse lists the configured liquidity sources.
type SourcesResponse struct {
	Sources []string `json:"sources"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
