// Package terminal plays a game session over a line-oriented text stream.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/game"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

const help = `commands: o x y (open, or just x y), f x y (flag), c x y (chord), g (redraw), q (quit)`

type Terminal struct {
	in  *bufio.Scanner
	out io.Writer
	log *logrus.Logger
	now func() time.Time
}

func New(in io.Reader, out io.Writer, log *logrus.Logger) *Terminal {
	return &Terminal{
		in:  bufio.NewScanner(in),
		out: out,
		log: log,
		now: time.Now,
	}
}

// Play runs the session until the game ends, the player quits or the input
// runs out, and returns the last status.
func (t *Terminal) Play(session *game.Session) (game.Status, error) {
	fmt.Fprintln(t.out, help)
	t.draw(session.Snapshot())

	for {
		fmt.Fprint(t.out, "> ")
		if !t.in.Scan() {
			fmt.Fprintln(t.out)
			return session.Status(), t.in.Err()
		}
		line := strings.TrimSpace(t.in.Text())
		switch line {
		case "":
			continue
		case "q":
			return session.Status(), nil
		}

		cmd, err := game.ParseCommand(line)
		if err != nil {
			fmt.Fprintf(t.out, "error: %s\n", err)
			continue
		}
		t.log.WithField("command", cmd.String()).Debug("apply")

		status, err := session.Apply(cmd, t.now())
		if err != nil {
			fmt.Fprintf(t.out, "error: %s\n", err)
			continue
		}

		snap := session.Snapshot()
		switch status {
		case game.Won:
			t.drawRevealed(snap)
			fmt.Fprintf(t.out, "you won in %d moves!\n", snap.Moves)
			return status, nil
		case game.Lost:
			t.drawRevealed(snap)
			fmt.Fprintln(t.out, "boom! you lost.")
			return status, nil
		}
		t.draw(snap)
	}
}

func (t *Terminal) draw(snap game.Snapshot) {
	fmt.Fprint(t.out, snap.String())
	fmt.Fprintf(t.out, "mines: %d  hidden: %d\n", snap.Params.MineCount, snap.HiddenMines)
}

// drawRevealed shows where the unflagged mines were.
func (t *Terminal) drawRevealed(snap game.Snapshot) {
	var b strings.Builder
	for i, c := range snap.Cells {
		if c == mines.CoveredMine {
			b.WriteString(mines.Exploded.Glyph())
		} else {
			b.WriteString(c.Glyph())
		}
		if (i+1)%snap.Params.Width == 0 {
			b.WriteByte('\n')
		}
	}
	fmt.Fprint(t.out, b.String())
}
