// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the chain parameters the simulation starts from.
type Genesis struct {
	Date            time.Time `json:"date"`
	ChainID         uint16    `json:"chain_id"`          // An unique id for this running instance.
	MiningReward    float64   `json:"mining_reward"`     // Reward credited for mining a block.
	HalvingInterval int       `json:"halving_interval"`  // Number of blocks between reward halvings.
	TargetBlockTime float64   `json:"target_block_time"` // Seconds a block is expected to take to mine.
	RetargetBlocks  int       `json:"retarget_blocks"`   // Number of blocks between retarget evaluations.
	Difficulty      string    `json:"difficulty"`        // Default difficulty tier for mining requests.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
