// Package signature provides the hashing support the mining simulation
// is built on.
package signature

import (
	"crypto/sha256"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros. It is the parent hash of the
// first block mined into a chain.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. The value is serialized with
// the encoding/json package, which writes struct fields in declaration
// order, so identical values always produce identical bytes and therefore
// identical hashes.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hexutil.Encode(hash[:])
}
