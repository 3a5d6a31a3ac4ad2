package mines

import (
	"fmt"
	"strings"
)

type Grid []Cell

// ToString draws the grid one row per line using [Cell.Glyph].
func (g Grid) ToString(width int) string {
	var b strings.Builder
	for y := range len(g) / width {
		for x := range width {
			b.WriteString(g[y*width+x].Glyph())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Board implements [fmt.Stringer]
func (b *Board) String() string {
	return Grid(b.cells).ToString(b.width)
}

var layoutChars = map[rune]Cell{
	'.': Covered,
	'*': CoveredMine,
	'f': Flagged,
	'F': FlaggedMine,
}

// ParseLayout builds an unplayed board from a picture of it: one line per
// row, '.' for a covered square, '*' for a covered mine, 'f' and 'F' for the
// flagged versions. Blank lines and surrounding spaces are ignored.
func ParseLayout(layout string) (*Board, error) {
	var (
		rows  [][]Cell
		width int
	)
	for _, line := range strings.Split(layout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		row := make([]Cell, 0, len(line))
		for _, ch := range line {
			c, ok := layoutChars[ch]
			if !ok {
				return nil, fmt.Errorf("row %d: unexpected %q in layout", len(rows), ch)
			}
			row = append(row, c)
		}
		if width == 0 {
			width = len(row)
		} else if len(row) != width {
			return nil, fmt.Errorf("row %d: has %d cells, want %d", len(rows), len(row), width)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &ParamsError{Err: ErrEmptyBoard}
	}

	b := &Board{
		width:  width,
		height: len(rows),
		cells:  make([]Cell, 0, width*len(rows)),
	}
	for _, row := range rows {
		b.cells = append(b.cells, row...)
	}
	b.total, b.hidden, b.safe = b.Recount()
	if b.safe == 0 {
		return nil, &ParamsError{Params: b.Params(), Err: ErrTooManyMines}
	}
	return b, nil
}

// Layout is the inverse of [ParseLayout] for cells that are still covered or
// flagged. Open squares are drawn with their digit and the exploded mine
// with '#'.
func (b *Board) Layout() string {
	var sb strings.Builder
	for row := range b.height {
		for col := range b.width {
			c := b.cells[row*b.width+col]
			switch {
			case c == Covered:
				sb.WriteByte('.')
			case c == CoveredMine:
				sb.WriteByte('*')
			case c == Flagged:
				sb.WriteByte('f')
			case c == FlaggedMine:
				sb.WriteByte('F')
			case c == Exploded:
				sb.WriteByte('#')
			default:
				sb.WriteByte('0' + byte(c))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
