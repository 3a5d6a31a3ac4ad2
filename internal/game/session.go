// Package game hosts boards for long-lived players: a [Session] adds status,
// move accounting, timestamps and locking on top of [mines.Board], and a
// [Store] keeps sessions in memory.
package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/random"
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrOutOfBounds = errors.New("square is outside the board")
)

type Status int

const (
	Playing Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for _, v := range []Status{Playing, Won, Lost} {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

func boardStatus(b *mines.Board) Status {
	switch {
	case b.Lost():
		return Lost
	case b.SafeRemaining() == 0:
		return Won
	}
	return Playing
}

type Session struct {
	ID        string
	StartedAt time.Time

	mu      sync.Mutex
	board   *mines.Board
	endedAt time.Time
	moves   int
	touched time.Time
}

func NewSession(id string, params mines.GameParams, r random.Source, now time.Time) (*Session, error) {
	board, err := mines.New(params, r)
	if err != nil {
		return nil, err
	}
	return newSession(id, board, now), nil
}

// NewSessionFromBoard wraps a board built elsewhere, e.g. by
// [mines.ParseLayout].
func NewSessionFromBoard(id string, board *mines.Board, now time.Time) *Session {
	return newSession(id, board, now)
}

func newSession(id string, board *mines.Board, now time.Time) *Session {
	s := &Session{
		ID:        id,
		StartedAt: now,
		board:     board,
		touched:   now,
	}
	if boardStatus(board) != Playing {
		s.endedAt = now
	}
	return s
}

// Apply runs cmd against the board. Only commands that change the board
// count as moves. The first command that ends the game stamps the end time;
// any later command other than [Get] fails with [ErrGameOver].
func (s *Session) Apply(cmd Command, now time.Time) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.touched = now
	status := boardStatus(s.board)
	if cmd.Action == Get {
		return status, nil
	}
	if status != Playing {
		return status, ErrGameOver
	}
	if !s.board.Params().PointInBounds(cmd.X, cmd.Y) {
		return status, fmt.Errorf(
			"%w: (%d, %d) on a %dx%d board",
			ErrOutOfBounds, cmd.X, cmd.Y, s.board.Width(), s.board.Height(),
		)
	}

	safe := s.board.SafeRemaining()
	var changed bool
	switch cmd.Action {
	case Open:
		s.board.Reveal(cmd.X, cmd.Y)
		changed = s.board.Lost() || s.board.SafeRemaining() != safe
	case Flag:
		changed = s.board.ToggleFlag(cmd.X, cmd.Y)
	case Chord:
		s.board.Chord(cmd.X, cmd.Y)
		changed = s.board.Lost() || s.board.SafeRemaining() != safe
	default:
		return status, fmt.Errorf("%w %s", ErrUnknownCommand, cmd.Action)
	}
	if changed {
		s.moves++
	}

	status = boardStatus(s.board)
	if status != Playing && s.endedAt.IsZero() {
		s.endedAt = now
	}
	return status, nil
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return boardStatus(s.board)
}

func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.touched = now
	s.mu.Unlock()
}

// Snapshot is a consistent copy of a session's visible state.
type Snapshot struct {
	ID            string
	Params        mines.GameParams
	HiddenMines   int
	SafeRemaining int
	Status        Status
	Moves         int
	Cells         []mines.Cell
	StartedAt     time.Time
	EndedAt       time.Time
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:            s.ID,
		Params:        s.board.Params(),
		HiddenMines:   s.board.HiddenMines(),
		SafeRemaining: s.board.SafeRemaining(),
		Status:        boardStatus(s.board),
		Moves:         s.moves,
		Cells:         slices.Clone(s.board.Cells()),
		StartedAt:     s.StartedAt,
		EndedAt:       s.endedAt,
	}
}

// String draws the board with [mines.Cell.Glyph].
func (s Snapshot) String() string {
	return mines.Grid(s.Cells).ToString(s.Params.Width)
}
