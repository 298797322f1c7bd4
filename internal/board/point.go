// Package board implements a Go board representation with incremental
// chain, liberty, and Zobrist hash bookkeeping.
package board

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Board geometry. The vertex array uses a stride of 20 so that every
// playable point is surrounded by in-range slots: column 0 and row 0 are
// padding, and the 20 slots past the last row absorb northward neighbour
// queries. Padding slots hold InvalidVertex and are never mutated.
const (
	BoardSize = 19
	stride    = BoardSize + 1

	// PointMax is the total size of the vertex array, padding included.
	PointMax = (BoardSize + 2) * stride

	// NumPoints is the number of playable intersections.
	NumPoints = BoardSize * BoardSize
)

// Point is an index into the padded vertex array.
// Uses column-0/row-0 padding: A1 = 21, T19 = 399.
type Point uint16

// NoPoint is the sentinel value, distinct from every playable point.
// Index 0 is a padding slot, so it can never name a real intersection.
const NoPoint Point = 0

// NewPoint creates a point from zero-indexed board coordinates,
// where (0,0) is A1 and (18,18) is T19.
func NewPoint(x, y int) Point {
	return Point((y+1)*stride + (x + 1))
}

// X returns the zero-indexed column of the point (0=A, 18=T).
func (p Point) X() int {
	return int(p)%stride - 1
}

// Y returns the zero-indexed row of the point (0 is row 1).
func (p Point) Y() int {
	return int(p)/stride - 1
}

// columnLetters are the GTP column names; the letter I is skipped.
const columnLetters = "ABCDEFGHJKLMNOPQRST"

// String returns the GTP notation for the point (e.g. "D4", "Q16").
func (p Point) String() string {
	x, y := p.X(), p.Y()
	if x < 0 || x >= BoardSize || y < 0 || y >= BoardSize {
		return "pass"
	}
	return fmt.Sprintf("%c%d", columnLetters[x], y+1)
}

// ParsePoint parses GTP point notation (e.g. "d4") into a Point.
// The string "pass" parses to NoPoint.
func ParsePoint(s string) (Point, error) {
	if strings.EqualFold(s, "pass") {
		return NoPoint, nil
	}
	if len(s) < 2 || len(s) > 3 {
		return NoPoint, fmt.Errorf("invalid point: %q", s)
	}

	x := strings.IndexByte(columnLetters, s[0]&^0x20)
	if x < 0 {
		return NoPoint, fmt.Errorf("invalid point: %q", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 || row > BoardSize {
		return NoPoint, fmt.Errorf("invalid point: %q", s)
	}

	return NewPoint(x, row-1), nil
}

// neighbourOffsets are the four adjacency deltas in N, E, S, W order.
// Several algorithms index per-call scratch arrays by the position of a
// neighbour in this order, so the order is part of the contract.
var neighbourOffsets = [4]int{stride, 1, -stride, -1}

// Neighbours yields the four raw neighbours of p in N, E, S, W order,
// padding slots included. Callers that need only playable neighbours
// should use BoardFast.AdjacentTo.
func (p Point) Neighbours() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, d := range neighbourOffsets {
			if !yield(Point(int(p) + d)) {
				return
			}
		}
	}
}

// AllPoints yields every playable point in row-major order.
func AllPoints() iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for y := 0; y < BoardSize; y++ {
			for x := 0; x < BoardSize; x++ {
				if !yield(NewPoint(x, y)) {
					return
				}
			}
		}
	}
}
