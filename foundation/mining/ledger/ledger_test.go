package ledger_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// fabricate constructs a block that links to the specified parent hash.
// Hash solving is not part of the ledger contract, so any unique hash will
// do for chaining.
func fabricate(number uint64, prevHash string, miningTime float64) ledger.Block {
	block := ledger.NewBlock(ledger.Template{
		BlockNumber:  number,
		Transactions: fmt.Sprintf("tx-%d", number),
		PrevHash:     prevHash,
	}, number, fmt.Sprintf("0x%064x", number))
	block.MiningTime = miningTime

	return block
}

// =============================================================================

func Test_Append(t *testing.T) {
	t.Log("Given the need to append mined blocks to the chain.")
	{
		t.Logf("\tTest 0:\tWhen appending blocks that link correctly.")
		{
			l := ledger.New(50, 210000)

			stored, err := l.Append(fabricate(1, signature.ZeroHash, 1))
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append the first block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to append the first block.", success)

			if stored.Reward != 50 {
				t.Errorf("\t%s\tTest 0:\tShould credit the first block with the full reward, got %v.", failed, stored.Reward)
			} else {
				t.Logf("\t%s\tTest 0:\tShould credit the first block with the full reward.", success)
			}

			if _, err := l.Append(fabricate(2, stored.Hash, 1)); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append the second block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to append the second block.", success)

			if l.Height() != 2 {
				t.Errorf("\t%s\tTest 0:\tShould have a chain height of 2, got %d.", failed, l.Height())
			} else {
				t.Logf("\t%s\tTest 0:\tShould have a chain height of 2.", success)
			}
		}

		t.Logf("\tTest 1:\tWhen appending a block that does not link to the tail.")
		{
			l := ledger.New(50, 210000)

			if _, err := l.Append(fabricate(1, signature.ZeroHash, 1)); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to append the first block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to append the first block.", success)

			_, err := l.Append(fabricate(2, signature.ZeroHash, 1))
			if !errors.Is(err, ledger.ErrInvalidLink) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a block with the wrong previous hash: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a block with the wrong previous hash.", success)

			if l.Height() != 1 {
				t.Errorf("\t%s\tTest 1:\tShould leave the chain height unchanged, got %d.", failed, l.Height())
			} else {
				t.Logf("\t%s\tTest 1:\tShould leave the chain height unchanged.", success)
			}
		}

		t.Logf("\tTest 2:\tWhen appending a block with the wrong number.")
		{
			l := ledger.New(50, 210000)

			_, err := l.Append(fabricate(5, signature.ZeroHash, 1))
			if !errors.Is(err, ledger.ErrInvalidNumber) {
				t.Fatalf("\t%s\tTest 2:\tShould reject a block that is not the next number: %v", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould reject a block that is not the next number.", success)
		}
	}
}

func Test_Halving(t *testing.T) {
	t.Log("Given the need to halve the reward on a fixed interval.")
	{
		t.Logf("\tTest 0:\tWhen crossing halving boundaries with a small interval.")
		{
			const interval = 5
			l := ledger.New(50, interval)

			prevHash := signature.ZeroHash
			for i := uint64(1); i <= 2*interval+1; i++ {
				stored, err := l.Append(fabricate(i, prevHash, 1))
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to append block %d: %v", failed, i, err)
				}
				prevHash = stored.Hash

				exp := 50.0
				switch {
				case i > 2*interval:
					exp = 12.5
				case i > interval:
					exp = 25.0
				}
				if stored.Reward != exp {
					t.Fatalf("\t%s\tTest 0:\tShould credit block %d with reward %v, got %v.", failed, i, exp, stored.Reward)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould credit every block with the reward of its interval.", success)
		}

		t.Logf("\tTest 1:\tWhen appending 210001 blocks with an initial reward of 50.")
		{
			const interval = 210000
			l := ledger.New(50, interval)

			prevHash := signature.ZeroHash
			for i := uint64(1); i <= interval; i++ {
				stored, err := l.Append(fabricate(i, prevHash, 1))
				if err != nil {
					t.Fatalf("\t%s\tTest 1:\tShould be able to append block %d: %v", failed, i, err)
				}
				if stored.Reward != 50 {
					t.Fatalf("\t%s\tTest 1:\tShould credit block %d with reward 50, got %v.", failed, i, stored.Reward)
				}
				prevHash = stored.Hash
			}
			t.Logf("\t%s\tTest 1:\tShould credit the first %d blocks with reward 50.", success, interval)

			stored, err := l.Append(fabricate(interval+1, prevHash, 1))
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to append block %d: %v", failed, interval+1, err)
			}

			if stored.Reward != 25 {
				t.Errorf("\t%s\tTest 1:\tShould credit block %d with reward 25, got %v.", failed, interval+1, stored.Reward)
			} else {
				t.Logf("\t%s\tTest 1:\tShould credit block %d with reward 25.", success, interval+1)
			}
		}
	}
}

func Test_Reads(t *testing.T) {
	t.Log("Given the need to read chain history without exposing internal state.")
	{
		t.Logf("\tTest 0:\tWhen copying blocks out of the ledger.")
		{
			l := ledger.New(50, 210000)

			if l.TailHash() != signature.ZeroHash {
				t.Errorf("\t%s\tTest 0:\tShould report the zero hash for an empty chain.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould report the zero hash for an empty chain.", success)
			}

			prevHash := signature.ZeroHash
			for i := uint64(1); i <= 4; i++ {
				stored, err := l.Append(fabricate(i, prevHash, float64(i)))
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to append block %d: %v", failed, i, err)
				}
				prevHash = stored.Hash
			}

			blocks := l.Blocks()
			blocks[0].Transactions = "mutated"
			if l.Blocks()[0].Transactions == "mutated" {
				t.Errorf("\t%s\tTest 0:\tShould return copies that do not alias the chain.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould return copies that do not alias the chain.", success)
			}

			last := l.LastN(2)
			if len(last) != 2 || last[0].BlockNumber != 3 || last[1].BlockNumber != 4 {
				t.Errorf("\t%s\tTest 0:\tShould return the most recent blocks in mining order.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould return the most recent blocks in mining order.", success)
			}

			if got := len(l.LastN(10)); got != 4 {
				t.Errorf("\t%s\tTest 0:\tShould cap LastN at the chain height, got %d.", failed, got)
			} else {
				t.Logf("\t%s\tTest 0:\tShould cap LastN at the chain height.", success)
			}
		}
	}
}
