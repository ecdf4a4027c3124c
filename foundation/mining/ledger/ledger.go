// Package ledger maintains the append only chain of mined blocks and the
// reward schedule applied to them.
package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/minesim/foundation/mining/signature"
)

// ErrInvalidLink is returned from Append when a block's previous hash does
// not match the hash at the tail of the chain.
var ErrInvalidLink = errors.New("previous hash does not match chain tail")

// ErrInvalidNumber is returned from Append when a block's number is not the
// next number in the chain.
var ErrInvalidNumber = errors.New("block number is not the next number")

// =============================================================================

// Ledger manages the chain of mined blocks. Entries are write once: blocks
// are validated, credited with the current reward and appended, never
// mutated or removed afterwards.
type Ledger struct {
	mu              sync.RWMutex
	blocks          []Block
	reward          float64
	halvingInterval int
}

// New constructs a ledger with the specified starting reward and halving
// interval.
func New(miningReward float64, halvingInterval int) *Ledger {
	return &Ledger{
		reward:          miningReward,
		halvingInterval: halvingInterval,
	}
}

// Append validates the block links to the current tail of the chain,
// credits it with the current reward and appends it. After every halving
// interval of appended blocks the reward is cut in half for all blocks that
// follow. The stored block is returned.
func (l *Ledger) Append(block Block) (Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if block.PrevHash != l.tailHash() {
		return Block{}, fmt.Errorf("%w: got %s, exp %s", ErrInvalidLink, block.PrevHash, l.tailHash())
	}

	nextNumber := uint64(len(l.blocks)) + 1
	if block.BlockNumber != nextNumber {
		return Block{}, fmt.Errorf("%w: got %d, exp %d", ErrInvalidNumber, block.BlockNumber, nextNumber)
	}

	block.Reward = l.reward
	l.blocks = append(l.blocks, block)

	// The halving is one directional. Once the chain length crosses an
	// interval boundary the old reward is gone for good.
	if len(l.blocks)%l.halvingInterval == 0 {
		l.reward /= 2
	}

	return block, nil
}

// Height returns the number of blocks in the chain.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// TailHash returns the hash of the last block in the chain, or the zero
// hash when the chain is empty.
func (l *Ledger) TailHash() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.tailHash()
}

// Reward returns the reward the next appended block will be credited with.
func (l *Ledger) Reward() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.reward
}

// Blocks returns a copy of the chain in mining order.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]Block, len(l.blocks))
	copy(blocks, l.blocks)

	return blocks
}

// LastN returns a copy of the most recent n blocks in mining order. When
// the chain is shorter than n the whole chain is returned.
func (l *Ledger) LastN(n int) []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.blocks) {
		n = len(l.blocks)
	}

	blocks := make([]Block, n)
	copy(blocks, l.blocks[len(l.blocks)-n:])

	return blocks
}

// =============================================================================

// tailHash expects the caller to hold at least a read lock.
func (l *Ledger) tailHash() string {
	if len(l.blocks) == 0 {
		return signature.ZeroHash
	}

	return l.blocks[len(l.blocks)-1].Hash
}
