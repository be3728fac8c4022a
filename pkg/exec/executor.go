// Package exec defines the execution stage: committing a selected route.
package exec

import (
	"context"

	"github.com/uhyunpark/swaproute/pkg/core"
)

// Executor commits a swap on the chosen route. ExecutedPrice in the returned
// settlement may differ from the quoted price (slippage). Failure here is
// terminal for the order: no retries happen inside an Executor; a caller
// wanting retries re-runs the whole lifecycle.
type Executor interface {
	Execute(ctx context.Context, route, tokenIn, tokenOut string, amount float64) (core.Settlement, error)
}
