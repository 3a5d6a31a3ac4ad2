//go:build js && wasm

package main

import (
	"errors"
	"math"
	"syscall/js"
	"unsafe"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

// jsRandom draws from the page's crypto.getRandomValues.
type jsRandom struct {
	crypto js.Value
	buf    js.Value // Uint32Array(1)
}

func newJSRandom() jsRandom {
	return jsRandom{
		crypto: js.Global().Get("crypto"),
		buf:    js.Global().Get("Uint32Array").New(1),
	}
}

func (r jsRandom) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	limit := math.MaxUint32 - math.MaxUint32%uint64(n)
	for {
		r.crypto.Call("getRandomValues", r.buf)
		v := uint64(r.buf.Index(0).Float())
		if v < limit {
			return int(v % uint64(n))
		}
	}
}

type session struct {
	board *mines.Board
	rng   jsRandom
}

var current = &session{}

func (s *session) bytes() []byte {
	cells := s.board.Cells()
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(cells))), len(cells))
}

// guard turns a bounds panic into a JS Error value returned to the caller.
func guard(f func(this js.Value, args []js.Value) any) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				var be *mines.BoundsError
				if err, ok := r.(error); ok && errors.As(err, &be) {
					result = js.Global().Get("Error").New(be.Error())
					return
				}
				panic(r)
			}
		}()
		return f(this, args)
	})
}

func newGame(this js.Value, args []js.Value) any {
	w, h, m := 10, 10, 10
	if len(args) >= 3 {
		w = args[0].Int()
		h = args[1].Int()
		m = args[2].Int()
	}
	board, err := mines.NewBoard(w, h, m, current.rng)
	if err != nil {
		return err.Error()
	}
	current.board = board
	return nil
}

// point wraps a board operation taking (col, row).
func point(op func(b *mines.Board, col, row int) bool) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if current.board == nil || len(args) < 2 {
			return false
		}
		return op(current.board, args[0].Int(), args[1].Int())
	}
}

// query wraps a board getter.
func query(get func(b *mines.Board) int) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if current.board == nil {
			return 0
		}
		return get(current.board)
	}
}

// cellPointer is the offset of the cell buffer in linear memory. It stays
// valid until the next msNew.
func cellPointer(this js.Value, args []js.Value) any {
	if current.board == nil {
		return 0
	}
	return int(uintptr(unsafe.Pointer(unsafe.SliceData(current.board.Cells()))))
}

// cellBuffer copies the cells into a caller-supplied Uint8Array and returns
// the number of bytes copied.
func cellBuffer(this js.Value, args []js.Value) any {
	if current.board == nil || len(args) < 1 {
		return 0
	}
	return js.CopyBytesToJS(args[0], current.bytes())
}

func main() {
	current.rng = newJSRandom()

	js.Global().Set("msNew", js.FuncOf(newGame))
	js.Global().Set("msReveal", guard(point((*mines.Board).Reveal)))
	js.Global().Set("msToggleFlag", guard(point((*mines.Board).ToggleFlag)))
	js.Global().Set("msChord", guard(point((*mines.Board).Chord)))
	js.Global().Set("msTotalMines", js.FuncOf(query((*mines.Board).TotalMines)))
	js.Global().Set("msHiddenMines", js.FuncOf(query((*mines.Board).HiddenMines)))
	js.Global().Set("msSafeRemaining", js.FuncOf(query((*mines.Board).SafeRemaining)))
	js.Global().Set("msLost", js.FuncOf(func(this js.Value, args []js.Value) any {
		return current.board != nil && current.board.Lost()
	}))
	js.Global().Set("msWidth", js.FuncOf(query((*mines.Board).Width)))
	js.Global().Set("msHeight", js.FuncOf(query((*mines.Board).Height)))
	js.Global().Set("msCellPointer", js.FuncOf(cellPointer))
	js.Global().Set("msCellBuffer", js.FuncOf(cellBuffer))

	println("minesweeper engine ready")
	select {}
}
