package board

import "iter"

// BoardFast is a minimal representation of a go board that implements
// all rules except super-ko. Stones of one color that are 4-adjacent
// form a chain, kept as a circular linked list through the Next field
// with every member pointing at a canonical head vertex; the head
// carries the chain's liberty count. All mutating operations maintain
// the chain structure, the liberty counts, and an additive-only Zobrist
// hash delta incrementally.
//
// The zero value is not usable; construct with NewBoardFast. Copying a
// BoardFast by assignment yields an independent board.
type BoardFast struct {
	vertices [PointMax]Vertex
}

// NewBoardFast returns an empty board. Playable vertices are empty,
// padding slots invalid.
func NewBoardFast() BoardFast {
	var b BoardFast

	for i := range b.vertices {
		b.vertices[i] = InvalidVertex
	}
	for p := range AllPoints() {
		b.vertices[p] = EmptyVertex
	}

	return b
}

// At returns the packed state of the given vertex.
func (b *BoardFast) At(p Point) Vertex {
	return b.vertices[p]
}

// ColorAt returns the color of the stone at p, or (NoColor, false) if
// the vertex is empty or padding.
func (b *BoardFast) ColorAt(p Point) (Color, bool) {
	return b.vertices[p].Color()
}

// IsPartOf returns whether the given point is a playable vertex.
func (b *BoardFast) IsPartOf(p Point) bool {
	return int(p) < len(b.vertices) && b.vertices[p].IsValid()
}

// AdjacentTo yields the valid (non-padding) neighbours of the given
// point in N, E, S, W order. At most four points are produced.
func (b *BoardFast) AdjacentTo(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		for _, d := range neighbourOffsets {
			q := Point(int(p) + d)
			if b.vertices[q].IsValid() && !yield(q) {
				return
			}
		}
	}
}

// BlockAt yields every member of the chain containing the given point,
// starting at the point itself and following the chain links. The board
// must not be mutated while iterating.
func (b *BoardFast) BlockAt(p Point) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		current := p
		for {
			if !yield(current) {
				return
			}
			current = b.vertices[current].Next()
			if current == p {
				return
			}
		}
	}
}

// NumLiberties returns the number of liberties of the chain containing
// the given point.
func (b *BoardFast) NumLiberties(p Point) int {
	head := b.vertices[p].Head()

	return b.vertices[head].Liberties()
}

// HasNLiberties returns whether the chain containing the given point
// has at least n liberties.
func (b *BoardFast) HasNLiberties(p Point, n int) bool {
	head := b.vertices[p].Head()

	return b.vertices[head].Liberties() >= n
}

// ALiberty returns one liberty of the chain containing the given point.
// A chain with no liberties only exists transiently inside Capture.
func (b *BoardFast) ALiberty(p Point) (Point, bool) {
	for current := range b.BlockAt(p) {
		for adj := range b.AdjacentTo(current) {
			if b.vertices[adj].IsEmpty() {
				return adj, true
			}
		}
	}

	return NoPoint, false
}

// IsValid returns whether placing a stone of the given color on the
// given point is legal under the Tromp-Taylor rules, ignoring super-ko.
// The vertex must be empty and the move must not be suicide. Read-only.
func (b *BoardFast) IsValid(color Color, at Point) bool {
	if !b.vertices[at].IsEmpty() {
		return false
	}

	for adj := range b.AdjacentTo(at) {
		v := b.vertices[adj]

		// check for direct liberties
		if v.IsEmpty() {
			return true
		}

		// the remaining two conditions collapse into one comparison:
		//
		// 1. a friendly neighbour keeps us alive if it has at least
		//    two liberties (one survives our connection), and
		// 2. an unfriendly neighbour keeps us alive if it has fewer
		//    than two (we capture it and inherit the space).
		adjColor, _ := v.Color()
		if (adjColor == color) == b.HasNLiberties(adj, 2) {
			return true
		}
	}

	return false // suicide
}

// isLibertyOf returns whether the given empty vertex is already a
// liberty of the chain whose head is blockHead.
func (b *BoardFast) isLibertyOf(liberty, blockHead Point) bool {
	blockCell := b.vertices[blockHead].cell()

	for adj := range b.AdjacentTo(liberty) {
		v := b.vertices[adj]
		if v.cell() == blockCell && v.Head() == blockHead {
			return true
		}
	}

	return false
}

// joinBlocks connects the chains containing one and two into a single
// chain headed by two's head. If both points already share a head the
// call is a no-op, so calling it again for chains that are already
// joined leaves the list structure intact.
func (b *BoardFast) joinBlocks(one, two Point) {
	headOne := b.vertices[one].Head()
	headTwo := b.vertices[two].Head()

	if headOne == headTwo {
		return
	}

	// the vertex at one was itself a liberty of two's chain until this
	// connection filled it
	b.vertices[headTwo].SubLiberties(1)

	// count the liberties two's chain gains from one's chain, deduping
	// both against liberties it already has and against double-counting
	// within this scan
	var alreadyAdded [PointMax]bool
	additional := 0

	for p := range b.BlockAt(one) {
		for adj := range b.AdjacentTo(p) {
			if b.vertices[adj].IsEmpty() && !alreadyAdded[adj] && !b.isLibertyOf(adj, headTwo) {
				alreadyAdded[adj] = true
				additional++
			}
		}
	}

	for p := range b.BlockAt(one) {
		b.vertices[p].SetHead(headTwo)
	}

	b.vertices[headTwo].AddLiberties(additional)

	// splice the two circular lists, so if the chains are
	//
	//   A:  a -> b -> c -> a
	//   B:  1 -> 2 -> 3 -> 1
	//
	// the merged chain becomes
	//
	//   a -> 2 -> 3 -> 1 -> b -> c -> a
	//
	onePrev := b.vertices[one].Next()
	twoPrev := b.vertices[two].Next()

	b.vertices[two].SetNext(onePrev)
	b.vertices[one].SetNext(twoPrev)
}

// incrAdjacentLiberties adds one liberty to each distinct chain
// adjacent to the given point, excluding the chain the point itself
// belongs to. Called for each vertex that Capture empties.
func (b *BoardFast) incrAdjacentLiberties(at Point) {
	// Slots of alreadyChanged may remain NoPoint when fewer than four
	// distinct heads are adjacent; NoPoint is a padding index and never
	// a chain head, so the membership test cannot false-positive.
	var alreadyChanged [4]Point
	head := b.vertices[at].Head()

	i := 0
	for _, d := range neighbourOffsets {
		adj := Point(int(at) + d)
		v := b.vertices[adj]

		if _, ok := v.Color(); ok {
			adjHead := v.Head()

			if adjHead != head && !containsPoint(&alreadyChanged, adjHead) {
				alreadyChanged[i] = adjHead
				b.vertices[adjHead].AddLiberties(1)
			}
		}
		i++
	}
}

// containsPoint reports whether the 4-slot seen array holds p.
func containsPoint(seen *[4]Point, p Point) bool {
	return seen[0] == p || seen[1] == p || seen[2] == p || seen[3] == p
}

// CaptureIf returns the Zobrist hash adjustment that capturing the
// chain containing the given point would produce, without mutating.
func (b *BoardFast) CaptureIf(color Color, at Point) uint64 {
	var adjust uint64

	for p := range b.BlockAt(at) {
		adjust ^= zobristStone[color][p]
	}

	return adjust
}

// Capture removes every stone in the chain containing the given point
// and returns the Zobrist hash adjustment. As each vertex empties, the
// liberty counts of distinct adjacent enemy chains are restored.
func (b *BoardFast) Capture(color Color, at Point) uint64 {
	var hash uint64

	for p := range b.BlockAt(at) {
		hash ^= zobristStone[color][p]
		b.vertices[p].SetEmpty()
		b.incrAdjacentLiberties(p)
	}

	return hash
}

// PlaceIf returns the Zobrist hash adjustment that placing a stone of
// the given color on the given point would produce, including the
// removal of any adjacent enemy chain left without liberties. It does
// not mutate the board.
func (b *BoardFast) PlaceIf(color Color, at Point) uint64 {
	opponent := color.Other()
	var seenBlocks [4]Point
	adjust := zobristStone[color][at]

	i := 0
	for adj := range b.AdjacentTo(at) {
		head := b.vertices[adj].Head()

		if c, ok := b.vertices[head].Color(); ok && c == opponent && !b.HasNLiberties(head, 2) {
			if !containsPoint(&seenBlocks, head) {
				seenBlocks[i] = head
				adjust ^= b.CaptureIf(opponent, head)
			}
		}
		i++
	}

	return adjust
}

// Place puts a stone of the given color on the given point and returns
// the Zobrist hash adjustment, including any captures. The move must be
// valid; callers pre-check with IsValid.
func (b *BoardFast) Place(color Color, at Point) uint64 {
	// the new singleton starts with its directly adjacent empty
	// vertices as liberties
	immediate := 0
	for adj := range b.AdjacentTo(at) {
		if b.vertices[adj].IsEmpty() {
			immediate++
		}
	}

	v := &b.vertices[at]
	v.SetColor(color)
	v.SetNext(at)
	v.SetHead(at)
	v.SetLiberties(immediate)
	v.SetVisited(true)

	// connect to neighbouring friendly chains, and drain a liberty from
	// each distinct neighbouring enemy chain, capturing those that run out
	hash := zobristStone[color][at]
	var seenBlocks [4]Point
	opponent := color.Other()

	i := 0
	for _, d := range neighbourOffsets {
		adj := Point(int(at) + d)
		adjColor, ok := b.vertices[adj].Color()

		if ok && adjColor == color {
			b.joinBlocks(at, adj)
		} else if ok && adjColor == opponent {
			head := b.vertices[adj].Head()

			if !containsPoint(&seenBlocks, head) {
				b.vertices[head].SubLiberties(1)
				seenBlocks[i] = head

				if !b.HasNLiberties(head, 1) {
					hash ^= b.Capture(opponent, head)
				}
			}
		}
		i++
	}

	return hash
}
