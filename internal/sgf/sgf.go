// Package sgf reads and writes SGF FF[4] game records, restricted to
// the properties the engine consumes.
package sgf

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/goplay/internal/board"
)

// Stone is a setup stone placed before the first move (AB/AW).
type Stone struct {
	Color board.Color
	Point board.Point
}

// Move is one alternating move of the main line. Point is NoPoint for
// a pass.
type Move struct {
	Color board.Color
	Point board.Point
}

// Game is the subset of an SGF game record that the engine consumes.
type Game struct {
	Size   int
	Komi   float64 // stored only; scoring never applies it
	Black  string  // PB
	White  string  // PW
	Result string  // RE

	Setup []Stone
	Moves []Move
}

// NewGame returns an empty 19x19 game record.
func NewGame() *Game {
	return &Game{Size: board.BoardSize}
}

// Parse reads an SGF game record, following only the main line of the
// first game tree.
func Parse(r io.Reader) (*Game, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	nodes, err := lex(data)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("sgf: no nodes in record")
	}

	game := NewGame()
	for _, node := range nodes {
		for _, prop := range node {
			if err := game.apply(prop); err != nil {
				return nil, err
			}
		}
	}

	return game, nil
}

// apply folds a single property into the game record. Unknown
// properties are ignored.
func (g *Game) apply(prop property) error {
	switch prop.ident {
	case "SZ":
		size, err := strconv.Atoi(prop.first())
		if err != nil || size != board.BoardSize {
			return fmt.Errorf("sgf: unsupported board size %q", prop.first())
		}
		g.Size = size
	case "KM":
		komi, err := strconv.ParseFloat(prop.first(), 64)
		if err != nil {
			return fmt.Errorf("sgf: invalid komi %q", prop.first())
		}
		g.Komi = komi
	case "PB":
		g.Black = prop.first()
	case "PW":
		g.White = prop.first()
	case "RE":
		g.Result = prop.first()
	case "AB", "AW":
		color := board.Black
		if prop.ident == "AW" {
			color = board.White
		}
		for _, v := range prop.values {
			p, err := parseSGFPoint(v)
			if err != nil {
				return err
			}
			if p == board.NoPoint {
				return fmt.Errorf("sgf: pass in setup property %s", prop.ident)
			}
			g.Setup = append(g.Setup, Stone{color, p})
		}
	case "B", "W":
		color := board.Black
		if prop.ident == "W" {
			color = board.White
		}
		p, err := parseSGFPoint(prop.first())
		if err != nil {
			return err
		}
		g.Moves = append(g.Moves, Move{color, p})
	}

	return nil
}

// Board replays the record into a board position.
func (g *Game) Board() (*board.Board, error) {
	b := board.NewBoard()

	for _, s := range g.Setup {
		if err := b.Play(s.Color, s.Point); err != nil {
			return nil, fmt.Errorf("sgf: setup stone %v at %v: %w", s.Color, s.Point, err)
		}
	}
	for i, m := range g.Moves {
		if m.Point == board.NoPoint {
			b.Pass(m.Color)
			continue
		}
		if err := b.Play(m.Color, m.Point); err != nil {
			return nil, fmt.Errorf("sgf: move %d (%v %v): %w", i+1, m.Color, m.Point, err)
		}
	}

	return b, nil
}

// Write serializes the game record as a single SGF game tree.
func (g *Game) Write(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("(;FF[4]GM[1]")
	fmt.Fprintf(&sb, "SZ[%d]", g.Size)
	if g.Komi != 0 {
		fmt.Fprintf(&sb, "KM[%.1f]", g.Komi)
	}
	if g.Black != "" {
		fmt.Fprintf(&sb, "PB[%s]", escape(g.Black))
	}
	if g.White != "" {
		fmt.Fprintf(&sb, "PW[%s]", escape(g.White))
	}
	if g.Result != "" {
		fmt.Fprintf(&sb, "RE[%s]", escape(g.Result))
	}

	var black, white []board.Point
	for _, s := range g.Setup {
		if s.Color == board.Black {
			black = append(black, s.Point)
		} else {
			white = append(white, s.Point)
		}
	}
	writeSetup(&sb, "AB", black)
	writeSetup(&sb, "AW", white)

	for _, m := range g.Moves {
		ident := "B"
		if m.Color == board.White {
			ident = "W"
		}
		fmt.Fprintf(&sb, ";%s[%s]", ident, formatSGFPoint(m.Point))
	}

	sb.WriteString(")\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSetup(sb *strings.Builder, ident string, points []board.Point) {
	if len(points) == 0 {
		return
	}
	sb.WriteString(ident)
	for _, p := range points {
		fmt.Fprintf(sb, "[%s]", formatSGFPoint(p))
	}
}

// parseSGFPoint converts an SGF coordinate pair ("dd") to a Point. The
// empty string and "tt" denote a pass.
func parseSGFPoint(s string) (board.Point, error) {
	if s == "" || s == "tt" {
		return board.NoPoint, nil
	}
	if len(s) != 2 {
		return board.NoPoint, fmt.Errorf("sgf: invalid point %q", s)
	}

	x := int(s[0] - 'a')
	yFromTop := int(s[1] - 'a')
	if x < 0 || x >= board.BoardSize || yFromTop < 0 || yFromTop >= board.BoardSize {
		return board.NoPoint, fmt.Errorf("sgf: invalid point %q", s)
	}

	// SGF rows run top-down
	return board.NewPoint(x, board.BoardSize-1-yFromTop), nil
}

// formatSGFPoint converts a Point to an SGF coordinate pair; NoPoint
// serializes as the empty pass value.
func formatSGFPoint(p board.Point) string {
	if p == board.NoPoint {
		return ""
	}
	return string([]byte{
		byte('a' + p.X()),
		byte('a' + board.BoardSize - 1 - p.Y()),
	})
}

// escape backslash-escapes the characters that close an SGF value.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `]`, `\]`)
}
