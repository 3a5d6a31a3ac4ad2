// Package mines is a minesweeper engine. A [Board] owns a row-major buffer of
// one-byte [Cell] codes and reacts to reveal, flag and chord commands. It
// does no I/O and no locking: the host owns the board and serializes calls.
package mines

import (
	"github.com/gammazero/deque"

	"github.com/vancomm/minesweeper-engine/internal/random"
)

type Board struct {
	width, height int
	cells         []Cell

	total  int // codes 10, 12, 13
	hidden int // code 10
	safe   int // codes 9, 11
	lost   bool

	todo deque.Deque[int] // flood-fill worklist, reused between calls
}

// NewBoard builds a width x height board with mineCount mines placed by r.
// r may be nil only when mineCount is zero.
func NewBoard(width, height, mineCount int, r random.Source) (*Board, error) {
	return New(GameParams{Width: width, Height: height, MineCount: mineCount}, r)
}

func New(params GameParams, r random.Source) (*Board, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if r == nil && params.MineCount > 0 {
		return nil, &ParamsError{Params: params, Err: ErrNoRandom}
	}

	size := params.Size()
	cells := make([]Cell, size)
	for i := range cells {
		cells[i] = Covered
	}
	placeMines(cells, params.MineCount, r)

	b := &Board{
		width:  params.Width,
		height: params.Height,
		cells:  cells,
		total:  params.MineCount,
		hidden: params.MineCount,
		safe:   size - params.MineCount,
	}
	return b, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) Params() GameParams {
	return GameParams{Width: b.width, Height: b.height, MineCount: b.total}
}

// Cells returns the live cell buffer, laid out row-major with stride
// [Board.Width]. Callers must not modify it.
func (b *Board) Cells() []Cell {
	return b.cells
}

func (b *Board) InBounds(col, row int) bool {
	return GameParams{Width: b.width, Height: b.height}.PointInBounds(col, row)
}

// panics [BoundsError]
func (b *Board) index(col, row int) int {
	if !b.InBounds(col, row) {
		panic(&BoundsError{Col: col, Row: row, Width: b.width, Height: b.height})
	}
	return row*b.width + col
}

func (b *Board) At(col, row int) Cell {
	return b.cells[b.index(col, row)]
}

func (b *Board) TotalMines() int { return b.total }

// HiddenMines counts mines that are neither flagged nor exploded.
func (b *Board) HiddenMines() int { return b.hidden }

// SafeRemaining counts non-mine cells the player has yet to open. The board
// is cleared when it reaches zero.
func (b *Board) SafeRemaining() int { return b.safe }

// Lost reports whether a mine has gone off. A lost board accepts no more
// changes.
func (b *Board) Lost() bool { return b.lost }

// MineNeighbors counts the mined squares around (col, row).
func (b *Board) MineNeighbors(col, row int) int {
	b.index(col, row)
	return int(b.mineNeighbors(col, row))
}

func (b *Board) mineNeighbors(col, row int) Cell {
	var n Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c, r := col+dx, row+dy
			if (dx != 0 || dy != 0) && b.InBounds(c, r) &&
				b.cells[r*b.width+c].HasMine() {
				n++
			}
		}
	}
	return n
}

// Reveal opens the square at (col, row) and reports whether the game can go
// on. Open and flagged squares are left alone. Opening a square with no
// mined neighbours floods outwards.
//
// panics [BoundsError]
func (b *Board) Reveal(col, row int) bool {
	i := b.index(col, row)
	if b.lost {
		return false
	}
	switch b.cells[i] {
	case CoveredMine:
		b.cells[i] = Exploded
		b.hidden--
		b.lost = true
		return false
	case Covered:
		n := b.mineNeighbors(col, row)
		b.cells[i] = n
		b.safe--
		if n == 0 {
			b.flood(i)
		}
	}
	return true
}

// ToggleFlag flags a covered square or unflags a flagged one, and reports
// whether anything changed.
//
// panics [BoundsError]
func (b *Board) ToggleFlag(col, row int) bool {
	i := b.index(col, row)
	if b.lost {
		return false
	}
	c := b.cells[i]
	switch {
	case c.IsCovered():
		b.cells[i] = c.Flag()
	case c.IsFlagged():
		b.cells[i] = c.Unflag()
	default:
		return false
	}
	switch c {
	case CoveredMine:
		b.hidden--
	case FlaggedMine:
		b.hidden++
	}
	return true
}

// Chord opens every covered neighbour of an open number once the player has
// placed as many flags around it as the number says. Flags are trusted, so a
// wrong flag leaves a mine covered and the chord sets it off. The result is
// the same as for [Board.Reveal].
//
// panics [BoundsError]
func (b *Board) Chord(col, row int) bool {
	i := b.index(col, row)
	if b.lost {
		return false
	}
	n := b.cells[i]
	if !n.IsRevealed() || n == Empty {
		return true
	}

	var flags Cell
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c, r := col+dx, row+dy
			if b.InBounds(c, r) && b.cells[r*b.width+c].IsFlagged() {
				flags++
			}
		}
	}
	if flags != n {
		return true
	}

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c, r := col+dx, row+dy
			if !b.InBounds(c, r) || !b.cells[r*b.width+c].IsCovered() {
				continue
			}
			if !b.Reveal(c, r) {
				return false
			}
		}
	}
	return true
}

// Recount derives the counters from the buffer instead of the cached
// values.
func (b *Board) Recount() (total, hidden, safe int) {
	for _, c := range b.cells {
		switch {
		case c == CoveredMine:
			hidden++
			total++
		case c.HasMine():
			total++
		case c == Covered || c == Flagged:
			safe++
		}
	}
	return
}
