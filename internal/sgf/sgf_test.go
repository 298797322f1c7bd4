package sgf_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hailam/goplay/internal/board"
	"github.com/hailam/goplay/internal/sgf"
)

func TestParse(t *testing.T) {
	record := `
(;FF[4]GM[1]SZ[19]KM[6.5]PB[Shusaku]PW[Gennan Inseki]RE[B+2]
;B[qd];W[dc];B[pq];W[oc];B[cp];W[qo];B[])
`

	game, err := sgf.Parse(strings.NewReader(record))
	require.NoError(t, err)

	require.Equal(t, 19, game.Size)
	require.Equal(t, 6.5, game.Komi)
	require.Equal(t, "Shusaku", game.Black)
	require.Equal(t, "Gennan Inseki", game.White)
	require.Equal(t, "B+2", game.Result)

	require.Len(t, game.Moves, 7)
	require.Equal(t, board.Black, game.Moves[0].Color)
	require.Equal(t, board.NewPoint(16, 15), game.Moves[0].Point) // qd: column q, row 4 from top
	require.Equal(t, board.White, game.Moves[1].Color)
	require.Equal(t, board.NoPoint, game.Moves[6].Point) // empty value is a pass
}

func TestParseSetupStones(t *testing.T) {
	record := `(;FF[4]GM[1]SZ[19]AB[dd][pd]AW[dp];W[pp])`

	game, err := sgf.Parse(strings.NewReader(record))
	require.NoError(t, err)

	require.Len(t, game.Setup, 3)
	require.Equal(t, board.Black, game.Setup[0].Color)
	require.Equal(t, board.White, game.Setup[2].Color)
	require.Len(t, game.Moves, 1)
}

func TestParseSkipsVariations(t *testing.T) {
	record := `(;FF[4]GM[1]SZ[19];B[dd](;W[pp];B[pc])(;W[dp]))`

	game, err := sgf.Parse(strings.NewReader(record))
	require.NoError(t, err)

	require.Len(t, game.Moves, 3)
	require.Equal(t, board.White, game.Moves[1].Color)
	// the main line is the first subtree at the branch point
	q4, _ := board.ParsePoint("Q4")
	require.Equal(t, q4, game.Moves[1].Point)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"empty", ""},
		{"unbalanced", "(;FF[4]GM[1]SZ[19];B[dd]"},
		{"unterminated value", "(;FF[4]GM[1]SZ[19];B[dd)"},
		{"bad size", "(;FF[4]GM[1]SZ[13];B[dd])"},
		{"bad point", "(;FF[4]GM[1]SZ[19];B[zz])"},
		{"pass in setup", "(;FF[4]GM[1]SZ[19]AB[];W[dd])"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sgf.Parse(strings.NewReader(tc.record))
			require.Error(t, err)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	game := sgf.NewGame()
	game.Komi = 7.5
	game.Black = "engine [v1]"
	game.White = "human"
	game.Result = "W+R"
	game.Setup = []sgf.Stone{
		{Color: board.Black, Point: board.NewPoint(3, 3)},
		{Color: board.Black, Point: board.NewPoint(15, 3)},
	}
	game.Moves = []sgf.Move{
		{Color: board.White, Point: board.NewPoint(15, 15)},
		{Color: board.Black, Point: board.NewPoint(3, 15)},
		{Color: board.White, Point: board.NoPoint},
	}

	var sb strings.Builder
	require.NoError(t, game.Write(&sb))

	parsed, err := sgf.Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)

	require.Equal(t, game.Komi, parsed.Komi)
	require.Equal(t, game.Black, parsed.Black)
	require.Equal(t, game.White, parsed.White)
	require.Equal(t, game.Result, parsed.Result)
	require.Equal(t, game.Setup, parsed.Setup)
	require.Equal(t, game.Moves, parsed.Moves)
}

func TestBoardReplay(t *testing.T) {
	record := `(;FF[4]GM[1]SZ[19];B[dd];W[pp];B[pd];W[dp])`

	game, err := sgf.Parse(strings.NewReader(record))
	require.NoError(t, err)

	b, err := game.Board()
	require.NoError(t, err)

	require.Equal(t, 4, b.NumMoves)

	c, ok := b.ColorAt(board.NewPoint(3, 15)) // dd: column d, row 4 from top
	require.True(t, ok)
	require.Equal(t, board.Black, c)

	c, ok = b.ColorAt(board.NewPoint(15, 3)) // pp
	require.True(t, ok)
	require.Equal(t, board.White, c)
}

func TestBoardReplayRejectsIllegalMove(t *testing.T) {
	record := `(;FF[4]GM[1]SZ[19];B[dd];W[dd])`

	game, err := sgf.Parse(strings.NewReader(record))
	require.NoError(t, err)

	_, err = game.Board()
	require.ErrorIs(t, err, board.ErrOccupied)
}
