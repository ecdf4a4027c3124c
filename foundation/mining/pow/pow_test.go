package pow_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/pow"
	"github.com/ardanlabs/minesim/foundation/mining/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// =============================================================================

func Test_Ranges(t *testing.T) {
	t.Log("Given the need to partition the nonce space across workers.")
	{
		tt := []struct {
			name     string
			workers  int
			maxNonce uint64
		}{
			{"single", 1, pow.MaxNonce},
			{"even", 4, pow.MaxNonce},
			{"remainder", 7, pow.MaxNonce},
			{"tiny", 3, 10},
			{"more-workers-than-nonces", 16, 100},
		}

		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen partitioning %d nonces across %d workers.", testID, tst.maxNonce, tst.workers)
			{
				f := func(t *testing.T) {
					ranges := pow.Ranges(tst.workers, tst.maxNonce)

					if len(ranges) != tst.workers {
						t.Fatalf("\t%s\tTest %d:\tShould have one range per worker, got %d.", failed, testID, len(ranges))
					}
					t.Logf("\t%s\tTest %d:\tShould have one range per worker.", success, testID)

					if ranges[0].Lo != 0 {
						t.Errorf("\t%s\tTest %d:\tShould start the first range at 0, got %d.", failed, testID, ranges[0].Lo)
					} else {
						t.Logf("\t%s\tTest %d:\tShould start the first range at 0.", success, testID)
					}

					for i := 1; i < len(ranges); i++ {
						if ranges[i].Lo != ranges[i-1].Hi {
							t.Fatalf("\t%s\tTest %d:\tShould have contiguous ranges without gaps or overlaps.", failed, testID)
						}
					}
					t.Logf("\t%s\tTest %d:\tShould have contiguous ranges without gaps or overlaps.", success, testID)

					if ranges[len(ranges)-1].Hi != tst.maxNonce {
						t.Errorf("\t%s\tTest %d:\tShould end the final range at %d, got %d.", failed, testID, tst.maxNonce, ranges[len(ranges)-1].Hi)
					} else {
						t.Logf("\t%s\tTest %d:\tShould end the final range at %d.", success, testID, tst.maxNonce)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Search(t *testing.T) {
	t.Log("Given the need to find a nonce that solves the work problem.")
	{
		t.Logf("\tTest 0:\tWhen searching at 2 bits of difficulty with 4 workers.")
		{
			tmpl := ledger.Template{
				BlockNumber:  1,
				Transactions: "A->B:10",
				PrevHash:     "0000000000000000000000000000000000000000000000000000000000000000",
			}

			block, stats, err := pow.Search(context.Background(), pow.Args{
				Template: tmpl,
				Bits:     2,
				Workers:  4,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to find a solution: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to find a solution.", success)

			target := new(big.Int).Lsh(big.NewInt(1), 254)
			if !difficulty.Accepts(block.Hash, target) {
				t.Errorf("\t%s\tTest 0:\tShould have a hash value below 2^254, got %s.", failed, block.Hash)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a hash value below 2^254.", success)
			}

			if block.Nonce >= pow.MaxNonce {
				t.Errorf("\t%s\tTest 0:\tShould have a nonce inside the universe, got %d.", failed, block.Nonce)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a nonce inside the universe.", success)
			}

			if block.Hash != tmpl.HashWithNonce(block.Nonce) {
				t.Errorf("\t%s\tTest 0:\tShould have a hash that matches a re-evaluation of the candidate.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a hash that matches a re-evaluation of the candidate.", success)
			}

			if stats.HashRate <= 0 {
				t.Errorf("\t%s\tTest 0:\tShould record a positive hash rate, got %v.", failed, stats.HashRate)
			} else {
				t.Logf("\t%s\tTest 0:\tShould record a positive hash rate.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen the nonce space holds no solution.")
		{
			tmpl := ledger.Template{
				BlockNumber:  1,
				Transactions: "A->B:10",
				PrevHash:     signature.ZeroHash,
			}

			// 255 bits of difficulty only accepts hashes of 0 or 1.
			// Exhausting a 64 nonce universe is then all but guaranteed.
			_, _, err := pow.Search(context.Background(), pow.Args{
				Template: tmpl,
				Bits:     255,
				Workers:  4,
				MaxNonce: 64,
			})
			if !errors.Is(err, pow.ErrNoSolution) {
				t.Fatalf("\t%s\tTest 1:\tShould report an exhausted nonce space: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould report an exhausted nonce space.", success)
		}

		t.Logf("\tTest 2:\tWhen the difficulty is invalid.")
		{
			_, _, err := pow.Search(context.Background(), pow.Args{
				Template: ledger.Template{BlockNumber: 1},
				Bits:     0,
				Workers:  2,
			})
			if !errors.Is(err, difficulty.ErrInvalidBits) {
				t.Fatalf("\t%s\tTest 2:\tShould reject the search before launching workers: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject the search before launching workers.", success)
		}

		t.Logf("\tTest 3:\tWhen the search is cancelled before it starts.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, _, err := pow.Search(ctx, pow.Args{
				Template: ledger.Template{BlockNumber: 1, Transactions: "A->B:10", PrevHash: signature.ZeroHash},
				Bits:     254,
				Workers:  2,
				MaxNonce: 1 << 20,
			})
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 3:\tShould return the context error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould return the context error.", success)
		}
	}
}

func Test_CancelOnSolve(t *testing.T) {
	t.Log("Given the need for the early stop option to preserve the result.")
	{
		t.Logf("\tTest 0:\tWhen running the same search with and without early stop.")
		{
			tmpl := ledger.Template{
				BlockNumber:  7,
				Transactions: "C->D:45",
				PrevHash:     signature.ZeroHash,
			}

			baseline, _, err := pow.Search(context.Background(), pow.Args{
				Template: tmpl,
				Bits:     2,
				Workers:  4,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to run the baseline search: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to run the baseline search.", success)

			early, _, err := pow.Search(context.Background(), pow.Args{
				Template:      tmpl,
				Bits:          2,
				Workers:       4,
				CancelOnSolve: true,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to run the early stop search: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to run the early stop search.", success)

			if baseline.Nonce != early.Nonce || baseline.Hash != early.Hash {
				t.Errorf("\t%s\tTest 0:\tShould select the same block either way.", failed)
				t.Logf("\t%s\tTest 0:\tgot: nonce %d hash %s", failed, early.Nonce, early.Hash)
				t.Logf("\t%s\tTest 0:\texp: nonce %d hash %s", failed, baseline.Nonce, baseline.Hash)
			} else {
				t.Logf("\t%s\tTest 0:\tShould select the same block either way.", success)
			}
		}
	}
}
