package board

import (
	"errors"
	"strconv"
	"strings"
)

// Move legality errors returned by Play.
var (
	ErrOccupied = errors.New("board: vertex is not empty")
	ErrSuicide  = errors.New("board: move is suicide")
	ErrKo       = errors.New("board: positional super-ko")
)

// Board layers move history, super-ko detection, and hash bookkeeping
// over BoardFast. The zero value is not usable; construct with NewBoard.
type Board struct {
	inner BoardFast

	// Hash is the Zobrist hash of the current position. Zero on an
	// empty board.
	Hash uint64

	// history holds the hash of every position reached so far, the
	// empty board and the current position included, for the
	// positional super-ko check.
	history []uint64

	// NumMoves counts stones played; passes are not recorded here.
	NumMoves int

	// LastMove is the most recently played point, NoPoint initially.
	LastMove Point

	// ToMove is the side whose turn it is. Black opens.
	ToMove Color
}

// NewBoard creates an empty board with black to move.
func NewBoard() *Board {
	return &Board{
		inner:    NewBoardFast(),
		history:  []uint64{0},
		LastMove: NoPoint,
		ToMove:   Black,
	}
}

// Copy creates a deep copy of the board.
func (b *Board) Copy() *Board {
	other := *b
	other.history = make([]uint64, len(b.history))
	copy(other.history, b.history)
	return &other
}

// Fast exposes the underlying fast board, read-only by convention.
func (b *Board) Fast() *BoardFast {
	return &b.inner
}

// ColorAt returns the color of the stone at p, or (NoColor, false) if
// the vertex is empty.
func (b *Board) ColorAt(p Point) (Color, bool) {
	return b.inner.ColorAt(p)
}

// IsValid returns whether the given move is legal, including the
// positional super-ko check over the position history.
func (b *Board) IsValid(color Color, at Point) bool {
	if !b.inner.IsValid(color, at) {
		return false
	}

	next := b.Hash ^ b.inner.PlaceIf(color, at)
	for _, h := range b.history {
		if h == next {
			return false
		}
	}

	return true
}

// Play places a stone of the given color, updating the hash, the
// position history, and the side to move. It reports why an illegal
// move was rejected.
func (b *Board) Play(color Color, at Point) error {
	if !b.inner.At(at).IsEmpty() {
		return ErrOccupied
	}
	if !b.inner.IsValid(color, at) {
		return ErrSuicide
	}

	next := b.Hash ^ b.inner.PlaceIf(color, at)
	for _, h := range b.history {
		if h == next {
			return ErrKo
		}
	}

	b.Hash ^= b.inner.Place(color, at)
	b.history = append(b.history, b.Hash)
	b.NumMoves++
	b.LastMove = at
	b.ToMove = color.Other()

	return nil
}

// Pass records a pass: the turn changes but the position does not.
func (b *Board) Pass(color Color) {
	b.ToMove = color.Other()
	b.LastMove = NoPoint
}

// LegalMoves returns every point on which the given color may play.
func (b *Board) LegalMoves(color Color) []Point {
	moves := make([]Point, 0, NumPoints)
	for p := range AllPoints() {
		if b.IsValid(color, p) {
			moves = append(moves, p)
		}
	}
	return moves
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder

	sb.WriteByte('\n')
	for y := BoardSize - 1; y >= 0; y-- {
		if y+1 < 10 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(y + 1))
		sb.WriteByte(' ')
		for x := 0; x < BoardSize; x++ {
			switch c, ok := b.inner.ColorAt(NewPoint(x, y)); {
			case !ok:
				sb.WriteString(". ")
			case c == Black:
				sb.WriteString("X ")
			default:
				sb.WriteString("O ")
			}
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("   ")
	for x := 0; x < BoardSize; x++ {
		sb.WriteByte(columnLetters[x])
		sb.WriteByte(' ')
	}
	sb.WriteByte('\n')

	return sb.String()
}
