package quote

import (
	"errors"
	"sort"

	"github.com/uhyunpark/swaproute/pkg/core"
)

var ErrNoRoutes = errors.New("no routes to select from")

// SelectBest picks the quote with the greatest price. The input set carries
// no meaningful order (it reflects goroutine completion), so candidates are
// first put in canonical order by source name; ties on price then resolve to
// the lexically first source, making selection reproducible across runs.
func SelectBest(quotes []core.Quote) (core.Quote, error) {
	if len(quotes) == 0 {
		return core.Quote{}, ErrNoRoutes
	}

	ranked := make([]core.Quote, len(quotes))
	copy(ranked, quotes)
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Source < ranked[j].Source })

	best := ranked[0]
	for _, q := range ranked[1:] {
		if q.Price > best.Price {
			best = q
		}
	}
	return best, nil
}
