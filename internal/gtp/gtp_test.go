package gtp

import (
	"strings"
	"testing"

	"github.com/hailam/goplay/internal/board"
	"github.com/hailam/goplay/internal/book"
	"github.com/hailam/goplay/internal/engine"
	"github.com/hailam/goplay/internal/storage"
)

// run feeds a GTP session line by line and returns the raw transcript.
func run(t *testing.T, input string) string {
	t.Helper()

	g := New(engine.New(1))
	var out strings.Builder
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	return out.String()
}

// responses splits a transcript into its blank-line-terminated replies.
func responses(transcript string) []string {
	parts := strings.Split(strings.TrimRight(transcript, "\n"), "\n\n")
	return parts
}

func TestAdministrative(t *testing.T) {
	out := responses(run(t, "protocol_version\nname\nversion\nknown_command play\nknown_command frobnicate\n"))

	want := []string{"= 2", "= goplay", "= 1.0.0", "= true", "= false"}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("response %d = %q, want %q", i, out[i], w)
		}
	}
}

func TestCommandID(t *testing.T) {
	out := responses(run(t, "7 protocol_version\n9 frobnicate\n"))

	if out[0] != "=7 2" {
		t.Errorf("response = %q, want %q", out[0], "=7 2")
	}
	if out[1] != "?9 unknown command" {
		t.Errorf("response = %q, want %q", out[1], "?9 unknown command")
	}
}

func TestBoardsize(t *testing.T) {
	out := responses(run(t, "boardsize 19\nboardsize 13\n"))

	if out[0] != "=" {
		t.Errorf("boardsize 19 = %q, want %q", out[0], "=")
	}
	if out[1] != "? unacceptable size" {
		t.Errorf("boardsize 13 = %q, want %q", out[1], "? unacceptable size")
	}
}

func TestPlayAndShowboard(t *testing.T) {
	out := run(t, "play black D4\nplay white Q16\nshowboard\n")

	if strings.Contains(out, "?") {
		t.Fatalf("transcript contains an error:\n%s", out)
	}
	if !strings.Contains(out, "X") || !strings.Contains(out, "O") {
		t.Errorf("showboard missing stones:\n%s", out)
	}
}

func TestPlayIllegal(t *testing.T) {
	out := responses(run(t, "play black D4\nplay white D4\nplay purple D4\nplay black Z9\n"))

	if out[0] != "=" {
		t.Errorf("legal play = %q", out[0])
	}
	if out[1] != "? illegal move" {
		t.Errorf("occupied play = %q, want %q", out[1], "? illegal move")
	}
	if out[2] != "? syntax error" {
		t.Errorf("bad color = %q, want %q", out[2], "? syntax error")
	}
	if out[3] != "? syntax error" {
		t.Errorf("bad vertex = %q, want %q", out[3], "? syntax error")
	}
}

func TestGenmove(t *testing.T) {
	g := New(engine.New(1))
	var out strings.Builder
	if err := g.Run(strings.NewReader("genmove black\n"), &out); err != nil {
		t.Fatal(err)
	}

	reply := strings.TrimSpace(strings.TrimPrefix(out.String(), "="))
	if reply == "pass" {
		t.Fatal("genmove passed on an empty board")
	}
	p, err := board.ParsePoint(reply)
	if err != nil {
		t.Fatalf("genmove returned unparseable vertex %q", reply)
	}

	if c, ok := g.board.ColorAt(p); !ok || c != board.Black {
		t.Errorf("generated move %v was not played on the board", p)
	}
}

func TestUndo(t *testing.T) {
	g := New(engine.New(1))
	var out strings.Builder
	input := "play black D4\nundo\nundo\n"
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	if _, ok := g.board.ColorAt(board.NewPoint(3, 3)); ok {
		t.Error("undo did not remove the stone")
	}

	replies := responses(out.String())
	if replies[2] != "? cannot undo" {
		t.Errorf("undo on empty history = %q, want %q", replies[2], "? cannot undo")
	}
}

func TestKomiStoredNotApplied(t *testing.T) {
	g := New(engine.New(1))
	var out strings.Builder
	if err := g.Run(strings.NewReader("komi 6.5\n"), &out); err != nil {
		t.Fatal(err)
	}

	if g.komi != 6.5 {
		t.Errorf("komi = %v, want 6.5", g.komi)
	}

	// scoring stays raw area: a lone black stone owns the board
	g.board.Play(board.Black, board.NewPoint(0, 0))
	black, white := g.board.Score()
	if black != 361 || white != 0 {
		t.Errorf("Score = (%d, %d); komi must not be applied", black, white)
	}
}

func TestFinalStatusListSyntax(t *testing.T) {
	out := responses(run(t, "final_status_list zombie\nfinal_status_list seki\n"))

	if out[0] != "? syntax error" {
		t.Errorf("bad status = %q, want %q", out[0], "? syntax error")
	}
	// seki is a recognised token that the classifier never emits
	if out[1] != "=" {
		t.Errorf("seki list = %q, want empty success", out[1])
	}
}

// fakeRecorder captures recorded game results in memory.
type fakeRecorder struct {
	results []storage.GameResult
}

func (f *fakeRecorder) RecordGame(r storage.GameResult) error {
	f.results = append(f.results, r)
	return nil
}

func TestTwoPassesRecordGame(t *testing.T) {
	g := New(engine.New(1))
	rec := &fakeRecorder{}
	g.SetRecorder(rec)

	input := "play black D4\nplay white Q16\nplay black pass\nplay white pass\n"
	var out strings.Builder
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	if len(rec.results) != 1 {
		t.Fatalf("recorded %d results, want 1", len(rec.results))
	}

	result := rec.results[0]
	if result.Moves != 2 {
		t.Errorf("result.Moves = %d, want 2", result.Moves)
	}
	if result.Winner != board.NoColor && result.Margin == 0 {
		t.Errorf("decided game must carry a margin: %+v", result)
	}

	// a third pass must not record the game again
	g.dispatch("play", []string{"black", "pass"})
	if len(rec.results) != 1 {
		t.Errorf("extra pass recorded the game again: %d results", len(rec.results))
	}
}

func TestClearBoardStartsFreshGame(t *testing.T) {
	g := New(engine.New(1))
	rec := &fakeRecorder{}
	g.SetRecorder(rec)

	input := "play black D4\nplay black pass\nplay white pass\n" +
		"clear_board\nplay black K10\nplay black pass\nplay white pass\n"
	var out strings.Builder
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	if len(rec.results) != 2 {
		t.Errorf("recorded %d results, want one per game", len(rec.results))
	}
}

func TestTwoPassesFeedBook(t *testing.T) {
	g := New(engine.New(1))
	bk := book.New()
	g.SetBook(bk)

	input := "play black D4\nplay white Q16\nplay black pass\nplay white pass\n"
	var out strings.Builder
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	// the opening move was played from the empty board, hash 0
	entries := bk.Probe(0)
	if len(entries) != 1 {
		t.Fatalf("book has %d entries for the empty position, want 1", len(entries))
	}
	if entries[0].Point != board.NewPoint(3, 3) {
		t.Errorf("book entry = %v, want D4", entries[0].Point)
	}
	if entries[0].Games != 1 {
		t.Errorf("book entry games = %d, want 1", entries[0].Games)
	}
}

func TestUndoRestoresPassStreak(t *testing.T) {
	g := New(engine.New(1))
	rec := &fakeRecorder{}
	g.SetRecorder(rec)

	var out strings.Builder
	input := "play black D4\nplay black pass\nundo\nplay black pass\nplay white pass\n"
	if err := g.Run(strings.NewReader(input), &out); err != nil {
		t.Fatal(err)
	}

	// the undone pass must not count toward the two-pass game end
	if len(rec.results) != 1 {
		t.Errorf("recorded %d results, want 1", len(rec.results))
	}
}

func TestFinalScoreLoneStone(t *testing.T) {
	out := responses(run(t, "play black K10\nfinal_score\n"))

	// with a single black stone the playout decides the rest; the reply
	// must at least be well-formed
	reply := out[1]
	if !strings.HasPrefix(reply, "= B+") && !strings.HasPrefix(reply, "= W+") && reply != "= 0" {
		t.Errorf("final_score = %q", reply)
	}
}
