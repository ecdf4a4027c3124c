// Package difficulty maintains the mapping from named difficulty tiers to
// hash targets and implements the target check for candidate hashes.
package difficulty

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// The hash space is treated as 256 bits wide. A difficulty of N bits means
// the accepted hashes are the ones below 2^(256-N), which is the same as
// requiring N leading zero bits.
const hashBits = 256

// ErrInvalidBits is returned when a difficulty maps to a target that is not
// representable in the hash space.
var ErrInvalidBits = errors.New("difficulty bits out of range")

// =============================================================================

// Level represents a named difficulty tier supported by the simulation.
type Level struct {
	Name string
	Bits uint
}

// The set of supported tiers.
var (
	Easy   = Level{Name: "Easy", Bits: 2}
	Medium = Level{Name: "Medium", Bits: 3}
	Hard   = Level{Name: "Hard", Bits: 4}
)

// levels provides lookup of the supported tiers by name.
var levels = map[string]Level{
	Easy.Name:   Easy,
	Medium.Name: Medium,
	Hard.Name:   Hard,
}

// Parse converts a tier name into its Level.
func Parse(name string) (Level, error) {
	lvl, exists := levels[name]
	if !exists {
		return Level{}, fmt.Errorf("unknown difficulty %q", name)
	}

	return lvl, nil
}

// =============================================================================

// Target calculates the maximum integer value a hash may have to be
// accepted at the specified difficulty: 2^(256-bits). Raising the bits
// shrinks the target exponentially.
func Target(bits uint) (*big.Int, error) {
	if bits < 1 || bits >= hashBits {
		return nil, fmt.Errorf("%w: got %d, need [1, %d)", ErrInvalidBits, bits, hashBits)
	}

	target := big.NewInt(1)
	target.Lsh(target, hashBits-bits)

	return target, nil
}

// Accepts reports whether the hash, interpreted as a non-negative integer,
// falls below the target.
func Accepts(hash string, target *big.Int) bool {
	data, err := hexutil.Decode(hash)
	if err != nil {
		return false
	}

	return new(big.Int).SetBytes(data).Cmp(target) < 0
}
