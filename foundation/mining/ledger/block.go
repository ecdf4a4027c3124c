package ledger

import (
	"github.com/ardanlabs/minesim/foundation/mining/signature"
)

// Template represents the caller supplied portion of a block. A template is
// never mutated once submitted for mining; workers operate on their own
// copies thanks to value semantics.
type Template struct {
	BlockNumber  uint64 `json:"block_number"`  // Position in the chain, strictly increasing.
	Transactions string `json:"transactions"`  // Opaque transaction payload.
	PrevHash     string `json:"previous_hash"` // Hash of the previous block in the chain.
}

// HashWithNonce produces the canonical hash for the template combined with
// the specified trial nonce.
func (t Template) HashWithNonce(nonce uint64) string {
	return signature.Hash(newCandidate(t, nonce))
}

// =============================================================================

// candidate represents a single trial during the nonce search. The fields
// are declared in lexical order of their json keys so the serialization the
// hash is computed over has a canonical key ordering.
type candidate struct {
	BlockNumber  uint64 `json:"block_number"`
	Nonce        uint64 `json:"nonce"`
	PrevHash     string `json:"previous_hash"`
	Transactions string `json:"transactions"`
}

// newCandidate constructs a trial value for the specified nonce.
func newCandidate(t Template, nonce uint64) candidate {
	return candidate{
		BlockNumber:  t.BlockNumber,
		Nonce:        nonce,
		PrevHash:     t.PrevHash,
		Transactions: t.Transactions,
	}
}

// =============================================================================

// Block represents a mined block. This is the record shape handed to
// callers and written to disk; the hash covers the template and nonce
// fields only, since the remaining fields are assigned after the hash
// solution is found.
type Block struct {
	BlockNumber  uint64  `json:"block_number"`
	Transactions string  `json:"transactions"`
	PrevHash     string  `json:"previous_hash"`
	Nonce        uint64  `json:"nonce"`
	Hash         string  `json:"hash"`
	MiningTime   float64 `json:"mining_time"` // Seconds the search took.
	Reward       float64 `json:"reward"`      // Credited by the ledger at append time.
}

// NewBlock constructs a mined block from the template and the nonce that
// solved it. The caller is responsible for having verified the hash against
// the target before construction.
func NewBlock(t Template, nonce uint64, hash string) Block {
	return Block{
		BlockNumber:  t.BlockNumber,
		Transactions: t.Transactions,
		PrevHash:     t.PrevHash,
		Nonce:        nonce,
		Hash:         hash,
	}
}
