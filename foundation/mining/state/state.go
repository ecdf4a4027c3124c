// Package state is the core API for the mining simulation. It owns the
// ledger and the status snapshot and implements the mine, append and
// retarget operations.
package state

import (
	"fmt"
	"sync"

	"github.com/ardanlabs/minesim/foundation/mining/difficulty"
	"github.com/ardanlabs/minesim/foundation/mining/genesis"
	"github.com/ardanlabs/minesim/foundation/mining/ledger"
	"github.com/ardanlabs/minesim/foundation/mining/retarget"
)

// The set of states a node moves between while serving mining requests.
const (
	StatusIdle   = "idle"
	StatusMining = "mining"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Info represents a snapshot of the node for observability.
type Info struct {
	Status       string  `json:"status"`
	CurrentBlock uint64  `json:"current_block"`
	Difficulty   string  `json:"difficulty"`
	HashRate     float64 `json:"hash_rate"`
	MiningTime   float64 `json:"mining_time"`
	ChainHeight  int     `json:"chain_height"`
	Reward       float64 `json:"reward"`
	Retarget     string  `json:"next_difficulty_hint"`
}

// Config represents the configuration required to start the state.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the ledger and mining operations.
type State struct {
	genesis   genesis.Genesis
	ledger    *ledger.Ledger
	evHandler EventHandler

	// Mining attempts are serialized so the info snapshot always
	// describes the single in-flight attempt.
	mineMu sync.Mutex

	mu   sync.RWMutex
	info Info
}

// New constructs the state from the genesis parameters.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// The default tier must exist before any request relies on it.
	if _, err := difficulty.Parse(cfg.Genesis.Difficulty); err != nil {
		return nil, fmt.Errorf("genesis difficulty: %w", err)
	}

	s := State{
		genesis:   cfg.Genesis,
		ledger:    ledger.New(cfg.Genesis.MiningReward, cfg.Genesis.HalvingInterval),
		evHandler: ev,
		info: Info{
			Status:     StatusIdle,
			Difficulty: cfg.Genesis.Difficulty,
			Reward:     cfg.Genesis.MiningReward,
			Retarget:   retarget.Unchanged.String(),
		},
	}

	return &s, nil
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// Status returns a snapshot of the node information.
func (s *State) Status() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.info
}

// NextTemplate builds the template for the next block to mine from the
// current tail of the chain.
func (s *State) NextTemplate(transactions string) ledger.Template {
	return ledger.Template{
		BlockNumber:  uint64(s.ledger.Height()) + 1,
		Transactions: transactions,
		PrevHash:     s.ledger.TailHash(),
	}
}

// RetrieveBlocks returns a copy of the chain in mining order.
func (s *State) RetrieveBlocks() []ledger.Block {
	return s.ledger.Blocks()
}

// RetrieveBlock returns the block with the specified number.
func (s *State) RetrieveBlock(number uint64) (ledger.Block, bool) {
	blocks := s.ledger.Blocks()
	if number < 1 || number > uint64(len(blocks)) {
		return ledger.Block{}, false
	}

	return blocks[number-1], true
}

// Retarget evaluates the recent mining times and recommends a difficulty
// change for the next block. The recommendation is advisory; it is never
// applied to a template unless the caller asks for it.
func (s *State) Retarget() retarget.Delta {
	return retarget.Recommend(s.ledger.Blocks(), s.genesis.RetargetBlocks, s.genesis.TargetBlockTime)
}

// =============================================================================

// updateInfo applies the changes to the info snapshot under lock.
func (s *State) updateInfo(apply func(info *Info)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apply(&s.info)
}
