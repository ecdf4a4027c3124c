package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/pow"
)

// MineNewBlock attempts to find a nonce that solves the proof of work
// puzzle for the template at the specified difficulty tier. A workers value
// that is not positive selects one worker per CPU. The search is
// synchronous and can be cancelled through the context.
//
// pow.ErrNoSolution is returned when the nonce space is exhausted. That is
// an expected outcome the caller reacts to, not a fault.
func (s *State) MineNewBlock(ctx context.Context, tmpl ledger.Template, level difficulty.Level, workers int) (ledger.Block, error) {
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	s.evHandler("state: MineNewBlock: MINING: started: block[%d] difficulty[%s]", tmpl.BlockNumber, level.Name)
	defer s.evHandler("state: MineNewBlock: MINING: completed: block[%d]", tmpl.BlockNumber)

	s.updateInfo(func(info *Info) {
		info.Status = StatusMining
		info.CurrentBlock = tmpl.BlockNumber
		info.Difficulty = level.Name
	})
	defer s.updateInfo(func(info *Info) {
		info.Status = StatusIdle
	})

	block, stats, err := pow.Search(ctx, pow.Args{
		Template:  tmpl,
		Bits:      level.Bits,
		Workers:   workers,
		EvHandler: pow.EventHandler(s.evHandler),
	})

	// The hash rate is an observability side effect of every search,
	// found or not.
	s.updateInfo(func(info *Info) {
		info.HashRate = stats.HashRate
	})

	if err != nil {
		if errors.Is(err, pow.ErrNoSolution) {
			s.evHandler("state: MineNewBlock: MINING: WARNING: nonce space exhausted")
		}
		return ledger.Block{}, err
	}

	block.MiningTime = stats.Elapsed.Seconds()

	s.updateInfo(func(info *Info) {
		info.MiningTime = block.MiningTime
	})

	s.evHandler("state: MineNewBlock: MINING: SOLVED: nonce[%d] hash[%s]", block.Nonce, block.Hash)

	return block, nil
}

// AppendBlock validates the block links to the chain, credits the reward
// and appends it. The latest retarget recommendation is refreshed after a
// successful append.
func (s *State) AppendBlock(block ledger.Block) (ledger.Block, error) {
	stored, err := s.ledger.Append(block)
	if err != nil {
		return ledger.Block{}, err
	}

	s.evHandler("state: AppendBlock: block[%d] added to the chain", stored.BlockNumber)

	delta := s.Retarget()

	s.updateInfo(func(info *Info) {
		info.ChainHeight = s.ledger.Height()
		info.Reward = s.ledger.Reward()
		info.Retarget = delta.String()
	})

	return stored, nil
}
