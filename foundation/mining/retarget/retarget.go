// Package retarget recommends difficulty changes based on how fast recent
// blocks were mined.
package retarget

import (
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
)

// Delta represents the recommendation for the next difficulty.
type Delta int

// The set of recommendations the controller can produce.
const (
	Decrease  Delta = -1
	Unchanged Delta = 0
	Increase  Delta = 1
)

// String implements the fmt.Stringer interface.
func (d Delta) String() string {
	switch d {
	case Decrease:
		return "decrease"
	case Increase:
		return "increase"
	}
	return "unchanged"
}

// =============================================================================

// Recommend evaluates the most recent interval of blocks against the target
// block time. It only fires at batch boundaries: unless the chain length is
// nonzero and a multiple of the interval, the recommendation is Unchanged.
// The caller decides whether to apply the recommendation to the next mining
// request; this function holds no difficulty state.
func Recommend(blocks []ledger.Block, interval int, targetTime float64) Delta {
	if interval < 1 || len(blocks) == 0 || len(blocks)%interval != 0 {
		return Unchanged
	}

	var total float64
	for _, block := range blocks[len(blocks)-interval:] {
		total += block.MiningTime
	}
	mean := total / float64(interval)

	switch {
	case mean < targetTime:
		return Increase
	case mean > targetTime:
		return Decrease
	}

	return Unchanged
}
