package mines

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBoard    = errors.New("board must have a positive width and height")
	ErrNegativeMines = errors.New("mine count must not be negative")
	ErrTooManyMines  = errors.New("mine count must be less than the number of cells")
	ErrBoardTooLarge = errors.New("board has more cells than an int can count")
	ErrNoRandom      = errors.New("a random source is required to place mines")
)

// ParamsError is returned when a board cannot be built from the given
// parameters. It unwraps to one of the Err* sentinels above.
type ParamsError struct {
	Params GameParams
	Err    error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid game params %s: %s", e.Params, e.Err)
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}

// BoundsError is the panic value for coordinates outside the board.
type BoundsError struct {
	Col, Row      int
	Width, Height int
}

// [BoundsError] implements [error]
func (e *BoundsError) Error() string {
	return fmt.Sprintf(
		"cell (%d, %d) is outside the %dx%d board",
		e.Col, e.Row, e.Width, e.Height,
	)
}
