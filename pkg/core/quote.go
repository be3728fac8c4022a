package core

// Quote is a price offer from one liquidity source for a specific
// (tokenIn, tokenOut, amount). Quotes are never cached or reused across
// orders; a quote detached from the order that requested it is meaningless.
type Quote struct {
	Source string  `json:"source"`
	Price  float64 `json:"price"` // output units per input unit
	Fee    float64 `json:"fee"`   // fractional rate in [0,1)
}

// Settlement is the record returned by a successful execution. ExecutedPrice
// may differ from the quoted price; slippage is expected.
type Settlement struct {
	TransactionRef string  `json:"transactionRef"`
	ExecutedPrice  float64 `json:"executedPrice"`
}
