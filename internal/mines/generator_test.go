package mines

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/random"
)

func TestParseSeed(t *testing.T) {
	tests := []GameParams{
		{Width: 9, Height: 9, MineCount: 10},
		{Width: 30, Height: 16, MineCount: 99},
		{Width: 1, Height: 2, MineCount: 1},
	}

	for _, params := range tests {
		t.Run(params.String(), func(t *testing.T) {
			parsed, err := ParseSeed(params.Seed())
			require.NoError(t, err)
			assert.Equal(t, params, *parsed)
		})
	}
}

func TestParseSeedErrors(t *testing.T) {
	tests := []struct {
		seed string
		want error
	}{
		{seed: "0:5:0", want: ErrEmptyBoard},
		{seed: "3:3:9", want: ErrTooManyMines},
		{seed: "3:3:-1", want: ErrNegativeMines},
		{seed: "4611686018427387905:4:0", want: ErrBoardTooLarge},
	}

	for _, test := range tests {
		t.Run(test.seed, func(t *testing.T) {
			_, err := ParseSeed(test.seed)
			assert.ErrorIs(t, err, test.want)
		})
	}

	for _, seed := range []string{"", "9:9", "a:b:c", "9x9x10"} {
		t.Run(seed, func(t *testing.T) {
			_, err := ParseSeed(seed)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, GameParams{Width: 1, Height: 1, MineCount: 0}.Validate())
	assert.NoError(t, GameParams{Width: 4, Height: 4, MineCount: 15}.Validate())

	err := GameParams{Width: 4, Height: 4, MineCount: 16}.Validate()
	var pe *ParamsError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, pe, ErrTooManyMines)
	assert.Contains(t, pe.Error(), "4x4(16)")

	assert.NoError(t, GameParams{Width: math.MaxInt, Height: 1, MineCount: 0}.Validate())
	err = GameParams{Width: math.MaxInt/3 + 1, Height: 3, MineCount: 0}.Validate()
	assert.ErrorIs(t, err, ErrBoardTooLarge)
}

func TestPointInBounds(t *testing.T) {
	p := GameParams{Width: 3, Height: 2, MineCount: 1}
	for _, pt := range [][2]int{{0, 0}, {2, 0}, {0, 1}, {2, 1}} {
		assert.True(t, p.PointInBounds(pt[0], pt[1]), pt)
	}
	for _, pt := range [][2]int{{-1, 0}, {3, 0}, {0, 2}, {0, -1}, {3, 2}} {
		assert.False(t, p.PointInBounds(pt[0], pt[1]), pt)
	}

	b, err := New(p, random.NewSequence(0))
	require.NoError(t, err)
	assert.Equal(t, p.PointInBounds(3, 1), b.InBounds(3, 1))
	assert.Equal(t, p.PointInBounds(1, 1), b.InBounds(1, 1))
}

func TestGameParamsHelpers(t *testing.T) {
	p := GameParams{Width: 5, Height: 3, MineCount: 2}
	assert.Equal(t, 15, p.Size())
	assert.Equal(t, "5x3(2)", p.String())
	assert.Equal(t, "5:3:2", p.Seed())
}
