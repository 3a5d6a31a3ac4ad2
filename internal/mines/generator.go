package mines

import (
	"fmt"
	"math"
	"strings"

	"github.com/vancomm/minesweeper-engine/internal/random"
)

type GameParams struct {
	Width, Height, MineCount int
}

// Size is the number of cells. It is only meaningful once [GameParams.Validate]
// has passed, since the product may overflow otherwise.
func (p GameParams) Size() int {
	return p.Width * p.Height
}

// PointInBounds reports whether (col, row) names a cell of a board built
// from p.
func (p GameParams) PointInBounds(col, row int) bool {
	return 0 <= col && col < p.Width && 0 <= row && row < p.Height
}

// [GameParams] implements [fmt.Stringer]
func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}

// Seed is the compact "W:H:M" form accepted by [ParseSeed].
func (p GameParams) Seed() string {
	return fmt.Sprintf("%d:%d:%d", p.Width, p.Height, p.MineCount)
}

func ParseSeed(seed string) (*GameParams, error) {
	p := &GameParams{}
	sseed := strings.ReplaceAll(seed, ":", " ")
	n, err := fmt.Sscanf(sseed, "%d %d %d", &p.Width, &p.Height, &p.MineCount)
	if n != 3 || err != nil {
		return nil, fmt.Errorf(
			`invalid game params seed (sseed = "%s", n = %d, err = %w)`,
			sseed, n, err,
		)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate reports whether a board can be built from p. The returned error
// is a [*ParamsError].
func (p GameParams) Validate() error {
	var err error
	switch {
	case p.Width <= 0 || p.Height <= 0:
		err = ErrEmptyBoard
	case p.Width > math.MaxInt/p.Height:
		err = ErrBoardTooLarge
	case p.MineCount < 0:
		err = ErrNegativeMines
	case p.MineCount >= p.Size():
		err = ErrTooManyMines
	}
	if err != nil {
		return &ParamsError{Params: p, Err: err}
	}
	return nil
}

// placeMines seeds count mines into a grid of covered cells by rejection
// sampling: draw an index, keep it if the cell there is still empty.
func placeMines(cells []Cell, count int, r random.Source) {
	for placed := 0; placed < count; {
		i := r.IntN(len(cells))
		if cells[i] == Covered {
			cells[i] = CoveredMine
			placed++
		}
	}
}
