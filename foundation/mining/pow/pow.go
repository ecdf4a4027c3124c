// Package pow implements the proof of work search. The nonce space is
// partitioned across a set of goroutines that race to find a hash below
// the difficulty target.
package pow

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
)

// MaxNonce bounds the nonce universe. Every search covers [0, MaxNonce)
// exactly once across all workers.
const MaxNonce = uint64(1) << 32

// ErrNoSolution is returned when no nonce in the universe produced a hash
// below the target. This is an expected outcome at high difficulties, not
// a fault. The search is never widened or retried automatically.
var ErrNoSolution = errors.New("nonce space exhausted without a solution")

// EventHandler defines a function that is called when events occur during
// the search.
type EventHandler func(v string, args ...any)

// =============================================================================

// Args represents the input for a search operation.
type Args struct {
	Template      ledger.Template
	Bits          uint
	Workers       int    // Defaults to the number of CPUs when not positive.
	MaxNonce      uint64 // Defaults to MaxNonce. Tests shrink it to force exhaustion.
	CancelOnSolve bool   // Opt-in early stop, see Search.
	EvHandler     EventHandler
}

// Stats represents the observability side effects of a search.
type Stats struct {
	Elapsed  time.Duration
	HashRate float64 // Nonce universe size divided by elapsed wall time.
}

// Range represents the half open interval of nonces assigned to one worker.
type Range struct {
	Lo uint64
	Hi uint64
}

// Ranges partitions the nonce universe [0, maxNonce) into workers
// contiguous, disjoint sub-ranges. The final range absorbs the remainder
// of the integer division so the union is always exhaustive.
func Ranges(workers int, maxNonce uint64) []Range {
	step := maxNonce / uint64(workers)

	ranges := make([]Range, workers)
	for i := range ranges {
		ranges[i] = Range{Lo: uint64(i) * step, Hi: uint64(i+1) * step}
	}
	ranges[workers-1].Hi = maxNonce

	return ranges
}

// =============================================================================

// Search runs one scanning goroutine per sub-range and waits for all of
// them to finish before selecting a result. Each worker scans its range in
// increasing order on its own copy of the template and exits its loop at
// the first nonce it finds. When more than one worker finds a nonce the
// one with the lowest worker index wins.
//
// By default every worker runs to completion even after another worker has
// found a solution. With CancelOnSolve a worker stops early once a lower
// indexed worker has recorded a find; a higher indexed find can never
// displace a lower indexed one, so the selected block is the same either
// way.
func Search(ctx context.Context, args Args) (ledger.Block, Stats, error) {
	ev := func(v string, evArgs ...any) {
		if args.EvHandler != nil {
			args.EvHandler(v, evArgs...)
		}
	}

	workers := args.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	maxNonce := args.MaxNonce
	if maxNonce == 0 {
		maxNonce = MaxNonce
	}

	// Reject a bad difficulty before any worker launches.
	target, err := difficulty.Target(args.Bits)
	if err != nil {
		return ledger.Block{}, Stats{}, err
	}

	ev("pow: search: started: block[%d] bits[%d] workers[%d]", args.Template.BlockNumber, args.Bits, workers)
	defer ev("pow: search: completed: block[%d]", args.Template.BlockNumber)

	ranges := Ranges(workers, maxNonce)
	results := make([]*ledger.Block, workers)

	// Lowest worker index that has found a solution so far. Only consulted
	// when CancelOnSolve is set.
	var solved atomic.Int64
	solved.Store(int64(workers))

	var wg sync.WaitGroup
	wg.Add(workers)

	// We don't want to start the clock until all the G's are running.
	hasStarted := make(chan bool)

	t := time.Now()

	for i, rng := range ranges {
		go func(i int, rng Range, tmpl ledger.Template) {
			defer wg.Done()
			hasStarted <- true

			for nonce := rng.Lo; nonce < rng.Hi; nonce++ {

				// Keep the cancellation checks off the hot path.
				if nonce&0xFFFF == 0 {
					if ctx.Err() != nil {
						ev("pow: search: G %d: CANCELLED", i)
						return
					}
					if args.CancelOnSolve && solved.Load() < int64(i) {
						ev("pow: search: G %d: solved by lower worker, stopping", i)
						return
					}
				}

				hash := tmpl.HashWithNonce(nonce)
				if !difficulty.Accepts(hash, target) {
					continue
				}

				block := ledger.NewBlock(tmpl, nonce, hash)
				results[i] = &block

				for {
					cur := solved.Load()
					if int64(i) >= cur || solved.CompareAndSwap(cur, int64(i)) {
						break
					}
				}

				ev("pow: search: G %d: SOLVED: nonce[%d] hash[%s]", i, nonce, hash)
				return
			}
		}(i, rng, args.Template)
	}

	// Wait for the G's to report they are running, then for all of them
	// to finish or exhaust their ranges.
	for i := 0; i < workers; i++ {
		<-hasStarted
	}
	wg.Wait()

	elapsed := time.Since(t)
	stats := Stats{
		Elapsed:  elapsed,
		HashRate: float64(maxNonce) / elapsed.Seconds(),
	}

	ev("pow: search: hash rate[%.2f] hashes/second", stats.HashRate)

	if err := ctx.Err(); err != nil {
		return ledger.Block{}, stats, err
	}

	for _, result := range results {
		if result != nil {
			return *result, stats, nil
		}
	}

	return ledger.Block{}, stats, ErrNoSolution
}
