package retarget_test

import (
	"testing"

	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/retarget"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// chain fabricates a chain whose most recent blocks took the specified
// number of seconds each to mine.
func chain(length int, miningTime float64) []ledger.Block {
	blocks := make([]ledger.Block, length)
	for i := range blocks {
		blocks[i] = ledger.Block{
			BlockNumber: uint64(i + 1),
			MiningTime:  miningTime,
		}
	}
	return blocks
}

// =============================================================================

func Test_Recommend(t *testing.T) {
	const (
		interval   = 10
		targetTime = 600.0
	)

	tt := []struct {
		name   string
		blocks []ledger.Block
		exp    retarget.Delta
	}{
		{"empty-chain", nil, retarget.Unchanged},
		{"off-boundary", chain(7, 1), retarget.Unchanged},
		{"off-boundary-fast", chain(11, 1), retarget.Unchanged},
		{"fast-blocks", chain(10, 60), retarget.Increase},
		{"slow-blocks", chain(20, 900), retarget.Decrease},
		{"on-target", chain(10, targetTime), retarget.Unchanged},
	}

	t.Log("Given the need to recommend difficulty changes from mining times.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen evaluating a chain of %d blocks.", testID, len(tst.blocks))
			{
				f := func(t *testing.T) {
					got := retarget.Recommend(tst.blocks, interval, targetTime)
					if got != tst.exp {
						t.Errorf("\t%s\tTest %d:\tShould recommend %s, got %s.", failed, testID, tst.exp, got)
					} else {
						t.Logf("\t%s\tTest %d:\tShould recommend %s.", success, testID, got)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_RecentBatchOnly(t *testing.T) {
	t.Log("Given the need to evaluate only the most recent batch of blocks.")
	{
		t.Logf("\tTest 0:\tWhen old blocks were slow but the recent batch is fast.")
		{
			blocks := chain(20, 900)
			for i := 10; i < 20; i++ {
				blocks[i].MiningTime = 60
			}

			got := retarget.Recommend(blocks, 10, 600)
			if got != retarget.Increase {
				t.Errorf("\t%s\tTest 0:\tShould recommend increase from the recent batch, got %s.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould recommend increase from the recent batch.", success)
			}
		}
	}
}
