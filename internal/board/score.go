package board

import (
	"fmt"
	"strings"
)

// StoneStatus classifies a vertex when comparing a live board against a
// heuristically finished one.
type StoneStatus int

const (
	Alive StoneStatus = iota
	Dead
	Seki
	BlackTerritory
	WhiteTerritory
)

// String returns the GTP token for the status.
func (s StoneStatus) String() string {
	switch s {
	case Alive:
		return "alive"
	case Dead:
		return "dead"
	case Seki:
		return "seki"
	case BlackTerritory:
		return "black_territory"
	case WhiteTerritory:
		return "white_territory"
	default:
		return "unknown"
	}
}

// ParseStoneStatus parses a stone status token. Case-insensitive.
func ParseStoneStatus(s string) (StoneStatus, error) {
	switch strings.ToLower(s) {
	case "alive":
		return Alive, nil
	case "dead":
		return Dead, nil
	case "seki":
		return Seki, nil
	case "black_territory":
		return BlackTerritory, nil
	case "white_territory":
		return WhiteTerritory, nil
	default:
		return Alive, fmt.Errorf("invalid stone status: %q", s)
	}
}

// PointStatus pairs a point with its status labels. A stone may carry
// two labels, e.g. a dead black stone inside white territory is
// (Dead, WhiteTerritory).
type PointStatus struct {
	Point    Point
	Statuses []StoneStatus
}

// unreachable marks vertices the territory flood never reaches.
const unreachable = 0xff

// territoryDistance returns, for every vertex, the manhattan distance
// to the closest stone of the given color, with stones of the other
// color acting as walls. Stones of the given color are at distance 0;
// vertices the flood cannot reach stay at 0xff.
func territoryDistance(board *BoardFast, color Color) [PointMax]byte {
	var territory [PointMax]byte
	for i := range territory {
		territory[i] = unreachable
	}

	// seed the flood with all of our stones
	probes := make([]Point, 0, PointMax+1)
	for p := range AllPoints() {
		if c, ok := board.ColorAt(p); ok && c == color {
			territory[p] = 0
			probes = append(probes, p)
		}
	}

	// breadth-first relaxation; a vertex re-enters the queue whenever a
	// shorter distance is found for it
	for len(probes) > 0 {
		p := probes[0]
		probes = probes[1:]
		t := territory[p] + 1

		for adj := range board.AdjacentTo(p) {
			if board.At(adj).IsEmpty() && territory[adj] > t {
				territory[adj] = t
				probes = append(probes, adj)
			}
		}
	}

	return territory
}

// ttScore returns the (black, white) area score of the given board
// according to the Tromp-Taylor rules.
func ttScore(board *BoardFast) (int, int) {
	black, white := 0, 0
	blackDistance := territoryDistance(board, Black)
	whiteDistance := territoryDistance(board, White)

	for p := range AllPoints() {
		switch {
		case blackDistance[p] == 0:
			black++ // black has stone at vertex
		case whiteDistance[p] == 0:
			white++ // white has stone at vertex
		case whiteDistance[p] == unreachable:
			black++ // only reachable from black
		case blackDistance[p] == unreachable:
			white++ // only reachable from white
		}
	}

	return black, white
}

// IsScorable returns true if the game is fully scorable:
//
//   - both black and white have played at least one stone,
//   - every empty vertex is reachable from only one color, and
//   - no chain is in atari.
func (b *Board) IsScorable() bool {
	someBlack, someWhite := false, false
	for p := range AllPoints() {
		switch c, ok := b.inner.ColorAt(p); {
		case !ok:
		case c == Black:
			someBlack = true
		default:
			someWhite = true
		}
	}
	if !someBlack || !someWhite {
		return false
	}

	blackDistance := territoryDistance(&b.inner, Black)
	whiteDistance := territoryDistance(&b.inner, White)

	for p := range AllPoints() {
		if blackDistance[p] != unreachable && whiteDistance[p] != unreachable {
			return false // dame remains
		}
		if _, ok := b.inner.ColorAt(p); ok && !b.inner.HasNLiberties(p, 2) {
			return false // stone in atari
		}
	}

	return true
}

// ScorableTerritory returns every vertex that is reachable from at most
// one color.
func (b *Board) ScorableTerritory() []Point {
	blackDistance := territoryDistance(&b.inner, Black)
	whiteDistance := territoryDistance(&b.inner, White)

	var points []Point
	for p := range AllPoints() {
		if blackDistance[p] == unreachable || whiteDistance[p] == unreachable {
			points = append(points, p)
		}
	}

	return points
}

// Score returns the (black, white) area score of the current position
// according to the Tromp-Taylor rules. Komi is not applied. An empty
// board scores (0, 0).
func (b *Board) Score() (int, int) {
	if b.Hash == 0 {
		return 0, 0
	}

	return ttScore(&b.inner)
}

// GuessScore returns the (black, white) area score of the current
// position after removing stones that the finished board reads as
// dead. The finished board is a copy of this game played to completion
// by some heuristic; it is not scored directly since it may contain
// dame fillings that should not count.
func (b *Board) GuessScore(finished *Board) (int, int) {
	blackDistance := territoryDistance(&finished.inner, Black)
	whiteDistance := territoryDistance(&finished.inner, White)
	other := b.inner

	for p := range AllPoints() {
		liveColor, liveOk := other.ColorAt(p)
		finishedColor, finishedOk := finished.inner.ColorAt(p)

		if liveColor == finishedColor && liveOk == finishedOk {
			continue
		}
		if !liveOk {
			continue
		}

		if !finishedOk {
			// the finished reading leaves the vertex empty; the stone
			// is dead if the opposite color reaches it there
			isDeadBlack := liveColor == Black && whiteDistance[p] != unreachable
			isDeadWhite := liveColor == White && blackDistance[p] != unreachable

			if isDeadBlack || isDeadWhite {
				other.vertices[p].SetEmpty()
			}
		} else {
			// the finished board holds the opposite color here
			other.vertices[p].SetEmpty()
		}
	}

	return ttScore(&other)
}

// StoneStatuses classifies every relevant vertex of the current
// position against the finished board: stones as alive or dead, and
// vertices as black or white territory. The classification mirrors
// GuessScore. Seki is never emitted.
func (b *Board) StoneStatuses(finished *Board) []PointStatus {
	blackDistance := territoryDistance(&finished.inner, Black)
	whiteDistance := territoryDistance(&finished.inner, White)
	var statuses []PointStatus

	for p := range AllPoints() {
		liveColor, liveOk := b.inner.ColorAt(p)
		finishedColor, finishedOk := finished.inner.ColorAt(p)

		switch {
		case liveColor == finishedColor && liveOk == finishedOk:
			if liveOk {
				territory := BlackTerritory
				if liveColor == White {
					territory = WhiteTerritory
				}
				statuses = append(statuses, PointStatus{p, []StoneStatus{Alive, territory}})
			} else if blackDistance[p] != unreachable && whiteDistance[p] == unreachable {
				statuses = append(statuses, PointStatus{p, []StoneStatus{BlackTerritory}})
			} else if blackDistance[p] == unreachable && whiteDistance[p] != unreachable {
				statuses = append(statuses, PointStatus{p, []StoneStatus{WhiteTerritory}})
			}

		case liveOk:
			if !finishedOk {
				isDeadBlack := liveColor == Black && whiteDistance[p] != unreachable
				isDeadWhite := liveColor == White && blackDistance[p] != unreachable

				if isDeadBlack {
					statuses = append(statuses, PointStatus{p, []StoneStatus{Dead, WhiteTerritory}})
				} else if isDeadWhite {
					statuses = append(statuses, PointStatus{p, []StoneStatus{Dead, BlackTerritory}})
				}
			} else {
				territory := WhiteTerritory
				if liveColor == White {
					territory = BlackTerritory
				}
				statuses = append(statuses, PointStatus{p, []StoneStatus{Dead, territory}})
			}

		default:
			// empty on the live board, a stone on the finished one
			territory := BlackTerritory
			if finishedColor == White {
				territory = WhiteTerritory
			}
			statuses = append(statuses, PointStatus{p, []StoneStatus{territory}})
		}
	}

	return statuses
}
