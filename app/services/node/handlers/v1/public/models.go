package public

// newMine represents a request to mine the next block in the chain.
type newMine struct {
	Transactions string `json:"transactions" validate:"required"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=Easy Medium Hard"`
	Workers      int    `json:"workers" validate:"gte=0"`
}

// block represents a mined block in the chain.
type block struct {
	BlockNumber  uint64  `json:"block_number"`
	Transactions string  `json:"transactions"`
	PrevHash     string  `json:"previous_hash"`
	Nonce        uint64  `json:"nonce"`
	Hash         string  `json:"hash"`
	MiningTime   float64 `json:"mining_time"`
	Reward       float64 `json:"reward"`
}

// mined represents the response to a successful mining request.
type mined struct {
	Block    block  `json:"block"`
	Retarget string `json:"next_difficulty_hint"`
}
