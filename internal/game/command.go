package game

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArguments   = errors.New("invalid arguments")
)

type Action int

const (
	Get Action = iota
	Open
	Flag
	Chord
)

var actionNames = [...]string{
	Get:   "get",
	Open:  "open",
	Flag:  "flag",
	Chord: "chord",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionNames[a]
}

// ParseAction maps a move name as used by the HTTP API ("open", "flag",
// "chord") to an [Action].
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownCommand, name)
}

type Command struct {
	Action Action
	X, Y   int
}

func (c Command) String() string {
	if c.Action == Get {
		return "g"
	}
	return fmt.Sprintf("%c %d %d", c.Action.String()[0], c.X, c.Y)
}

// Maps known commands to number of arguments
var commandNargs = map[string]int{
	"g": 0,
	"o": 2,
	"f": 2,
	"c": 2,
}

var commandActions = map[string]Action{
	"g": Get,
	"o": Open,
	"f": Flag,
	"c": Chord,
}

func parseXY(twoStrings []string) (x int, y int, err error) {
	if x, err = strconv.Atoi(twoStrings[0]); err != nil {
		err = fmt.Errorf("%w: first argument must be an int", ErrBadArguments)
		return
	}
	if y, err = strconv.Atoi(twoStrings[1]); err != nil {
		err = fmt.Errorf("%w: second argument must be an int", ErrBadArguments)
		return
	}
	return
}

// ParseCommand reads one line of the text protocol:
//
//	o x y   open (a bare "x y" means the same)
//	f x y   toggle a flag
//	c x y   chord
//	g       no-op, used to fetch the board
func ParseCommand(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}

	if len(parts) == 2 {
		if x, y, err := parseXY(parts); err == nil {
			return Command{Action: Open, X: x, Y: y}, nil
		}
	}

	nargs, ok := commandNargs[parts[0]]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf(
			"%w: %q takes %d arguments, got %d",
			ErrBadArguments, parts[0], nargs, len(parts)-1,
		)
	}

	cmd := Command{Action: commandActions[parts[0]]}
	if nargs == 2 {
		var err error
		if cmd.X, cmd.Y, err = parseXY(parts[1:]); err != nil {
			return Command{}, err
		}
	}
	return cmd, nil
}

// Lines yields the newline-separated pieces of s with their index. Blank
// pieces are kept so callers can report positions.
func Lines(s string) iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		i := 0
		found := true
		var piece string
		for found {
			piece, s, found = strings.Cut(s, "\n")
			if !yield(i, piece) {
				return
			}
			i += 1
		}
	}
}
