package random

import (
	"crypto/rand"
	"hash/maphash"
	"math/big"
	mrand "math/rand/v2"
)

// Source yields uniform integers in [0, n). Boards draw mine positions from
// it; hosts decide where the entropy comes from.
type Source interface {
	IntN(n int) int
}

// NewPCG returns a PCG generator seeded from the runtime's per-process
// hash seed.
func NewPCG() *mrand.Rand {
	return mrand.New(mrand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

// NewSeeded returns a reproducible PCG generator.
func NewSeeded(seed1, seed2 uint64) *mrand.Rand {
	return mrand.New(mrand.NewPCG(seed1, seed2))
}

// Crypto draws from crypto/rand.
type Crypto struct{}

func (Crypto) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is gone
		panic(err)
	}
	return int(v.Int64())
}
