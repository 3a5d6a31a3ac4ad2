package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoRange(t *testing.T) {
	var src Crypto
	for _, n := range []int{1, 2, 7, 100, 1 << 20} {
		for range 200 {
			v := src.IntN(n)
			require.GreaterOrEqual(t, v, 0)
			require.Less(t, v, n)
		}
	}
	assert.Equal(t, 0, src.IntN(0))
	assert.Equal(t, 0, src.IntN(-3))
}

func TestSeededIsReproducible(t *testing.T) {
	a, b := NewSeeded(1, 2), NewSeeded(1, 2)
	for range 50 {
		assert.Equal(t, a.IntN(1000), b.IntN(1000))
	}
}

func TestPCGSatisfiesSource(t *testing.T) {
	var src Source = NewPCG()
	v := src.IntN(10)
	assert.True(t, 0 <= v && v < 10)
}

func TestSequence(t *testing.T) {
	s := NewSequence(3, 3, 12, -1)
	assert.Equal(t, 3, s.IntN(10))
	assert.Equal(t, 3, s.IntN(10))
	assert.Equal(t, 2, s.IntN(10))
	assert.Equal(t, 9, s.IntN(10))
	// exhausted: counts up from the last value
	assert.Equal(t, 0, s.IntN(10))
	assert.Equal(t, 1, s.IntN(10))
	assert.Equal(t, 6, s.Calls())
}
