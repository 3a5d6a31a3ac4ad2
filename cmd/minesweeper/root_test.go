package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlayFromFlags(t *testing.T) {
	out, err := run(t, "o 0 0\n", "--width", "4", "--height", "2", "--mines", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "🟩🟩🟩🟩\n🟩🟩🟩🟩\nmines: 0  hidden: 0\n")
	assert.Contains(t, out, "⬜⬜⬜⬜\n⬜⬜⬜⬜\n")
	assert.Contains(t, out, "you won in 1 moves!")
}

func TestPlayFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mines.yaml")
	require.NoError(t, os.WriteFile(path, []byte("game:\n  width: 2\n  height: 1\n  mine_count: 0\n"), 0o600))

	out, err := run(t, "q\n", "--config", path, "--width", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "🟩🟩🟩\nmines: 0  hidden: 0\n", "flags win over the file")
}

func TestPlayBoardAndSeed(t *testing.T) {
	out, err := run(t, "q\n", "--board", "4:1:0", "--width", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "🟩🟩🟩🟩\nmines: 0  hidden: 0\n")

	args := []string{"--board", "6:6:8", "--seed", "7"}
	first, err := run(t, "o 0 0\no 5 5\nq\n", args...)
	require.NoError(t, err)
	second, err := run(t, "o 0 0\no 5 5\nq\n", args...)
	require.NoError(t, err)
	assert.Equal(t, first, second, "the same seed deals the same board")

	_, err = run(t, "", "--board", "3:3")
	assert.Error(t, err)
	_, err = run(t, "", "--board", "3:3:9")
	assert.ErrorIs(t, err, mines.ErrTooManyMines)
}

func TestPlayInvalidParams(t *testing.T) {
	_, err := run(t, "", "--width", "2", "--height", "2", "--mines", "4")
	assert.ErrorIs(t, err, mines.ErrTooManyMines)

	_, err = run(t, "", "extra-arg")
	assert.Error(t, err)
}
