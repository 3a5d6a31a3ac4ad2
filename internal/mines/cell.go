package mines

import "strconv"

// Cell is the one-byte state of a square. The value encodes both what lies
// beneath (mine or not) and what the player sees:
//
//   - 0 to 8 mean the square is open and has that many mined neighbours.
//   - 9 is covered, 10 is covered with a mine beneath.
//   - 11 is flagged, 12 is flagged with a mine beneath.
//   - 13 is the mine that went off.
type Cell uint8

const (
	Empty       Cell = 0
	Covered     Cell = 9
	CoveredMine Cell = 10
	Flagged     Cell = 11
	FlaggedMine Cell = 12
	Exploded    Cell = 13
)

func (c Cell) Valid() bool {
	return c <= Exploded
}

// HasMine reports whether the mine bit is set.
func (c Cell) HasMine() bool {
	return c == CoveredMine || c == FlaggedMine || c == Exploded
}

func (c Cell) IsRevealed() bool {
	return c <= 8
}

func (c Cell) IsCovered() bool {
	return c == Covered || c == CoveredMine
}

func (c Cell) IsFlagged() bool {
	return c == Flagged || c == FlaggedMine
}

// Flag puts a flag on a covered cell. Other cells are returned unchanged.
func (c Cell) Flag() Cell {
	switch c {
	case Covered:
		return Flagged
	case CoveredMine:
		return FlaggedMine
	}
	return c
}

// Unflag removes the flag from a flagged cell. Other cells are returned
// unchanged.
func (c Cell) Unflag() Cell {
	switch c {
	case Flagged:
		return Covered
	case FlaggedMine:
		return CoveredMine
	}
	return c
}

// Masked hides the mine bit of covered and flagged cells, leaving what a
// player is allowed to see.
func (c Cell) Masked() Cell {
	switch c {
	case CoveredMine:
		return Covered
	case FlaggedMine:
		return Flagged
	}
	return c
}

// Glyph is the terminal rendering of the cell.
func (c Cell) Glyph() string {
	switch {
	case c == Empty:
		return "⬜"
	case 1 <= c && c <= 8:
		return strconv.Itoa(int(c))
	case c.IsCovered():
		return "🟩"
	case c.IsFlagged():
		return "🚩"
	case c == Exploded:
		return "💣"
	default:
		return "?"
	}
}

func (c Cell) String() string {
	switch {
	case c.IsRevealed():
		return strconv.Itoa(int(c))
	case c == Covered:
		return "covered"
	case c == CoveredMine:
		return "covered mine"
	case c == Flagged:
		return "flagged"
	case c == FlaggedMine:
		return "flagged mine"
	case c == Exploded:
		return "exploded"
	default:
		return "Cell(" + strconv.Itoa(int(c)) + ")"
	}
}
