// Package engine implements move selection for playouts: a book probe
// followed by uniformly random legal moves that do not fill the mover's
// own eyes. There is no tree search; the engine exists to pick
// plausible moves and to finish games so that positions become
// scorable.
package engine

import (
	"math/rand"

	"github.com/hailam/goplay/internal/board"
	"github.com/hailam/goplay/internal/book"
)

// Engine picks moves for a color on a board.
type Engine struct {
	rng  *rand.Rand
	book *book.Book
}

// New creates an engine with the given random seed.
func New(seed int64) *Engine {
	return &Engine{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// SetBook installs an opening book that GenMove probes before falling
// back to random selection.
func (e *Engine) SetBook(b *book.Book) {
	e.book = b
}

// GenMove returns a move for the given color, or false to pass. The
// book is consulted first; otherwise a random legal move that does not
// fill one of the mover's own eyes is chosen.
func (e *Engine) GenMove(b *board.Board, color board.Color) (board.Point, bool) {
	if e.book != nil {
		if p, ok := e.book.PickMove(b.Hash, e.rng); ok && b.IsValid(color, p) {
			return p, true
		}
	}

	candidates := make([]board.Point, 0, board.NumPoints)
	for p := range board.AllPoints() {
		if b.IsValid(color, p) && !isOwnEye(b, color, p) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return board.NoPoint, false
	}

	return candidates[e.rng.Intn(len(candidates))], true
}

// Finish plays the game out from the given position with both players
// picking engine moves until both pass in succession. The input board
// is not modified. The move cap is a backstop against ko cycling.
func (e *Engine) Finish(b *board.Board) *board.Board {
	finished := b.Copy()
	passes := 0

	for moves := 0; passes < 2 && moves < 4*board.NumPoints; moves++ {
		color := finished.ToMove

		p, ok := e.GenMove(finished, color)
		if !ok {
			finished.Pass(color)
			passes++
			continue
		}

		if err := finished.Play(color, p); err != nil {
			// GenMove only returns moves that pass IsValid, so this is
			// a backstop; a rejected move counts as a pass
			finished.Pass(color)
			passes++
			continue
		}
		passes = 0
	}

	return finished
}

// isOwnEye reports whether the empty point is a true eye of the given
// color: every adjacent vertex holds a stone of that color, and at most
// one diagonal holds an enemy stone (none when the point touches the
// board edge).
func isOwnEye(b *board.Board, color board.Color, at board.Point) bool {
	fast := b.Fast()

	for adj := range fast.AdjacentTo(at) {
		if c, ok := fast.ColorAt(adj); !ok || c != color {
			return false
		}
	}

	enemyDiagonals := 0
	diagonals := 0
	x, y := at.X(), at.Y()
	for _, d := range [4][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}} {
		dx, dy := x+d[0], y+d[1]
		if dx < 0 || dx >= board.BoardSize || dy < 0 || dy >= board.BoardSize {
			continue
		}
		diagonals++
		if c, ok := fast.ColorAt(board.NewPoint(dx, dy)); ok && c == color.Other() {
			enemyDiagonals++
		}
	}

	if diagonals < 4 {
		// on the edge every diagonal must be safe
		return enemyDiagonals == 0
	}
	return enemyDiagonals <= 1
}
