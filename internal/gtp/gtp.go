// Package gtp implements the Go Text Protocol (version 2) front-end
// for the engine.
package gtp

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/goplay/internal/board"
	"github.com/hailam/goplay/internal/book"
	"github.com/hailam/goplay/internal/engine"
	"github.com/hailam/goplay/internal/storage"
)

// commands lists every verb the handler understands, for known_command
// and list_commands.
var commands = []string{
	"boardsize",
	"clear_board",
	"final_score",
	"final_status_list",
	"genmove",
	"known_command",
	"komi",
	"list_commands",
	"name",
	"play",
	"protocol_version",
	"quit",
	"showboard",
	"undo",
	"version",
}

// bookDepth is how many opening moves of a finished game feed back
// into the book.
const bookDepth = 20

// Recorder persists finished game results.
type Recorder interface {
	RecordGame(storage.GameResult) error
}

// playedMove is one stone of the current game, with the position hash
// it was played from.
type playedMove struct {
	color board.Color
	point board.Point
	hash  uint64
}

// snapshot captures the session state before a move, for undo.
type snapshot struct {
	board    *board.Board
	logLen   int
	passes   int
	recorded bool
}

// GTP implements the Go Text Protocol.
type GTP struct {
	engine *engine.Engine
	board  *board.Board

	// Name and Version are reported to the controller.
	Name    string
	Version string

	// komi is accepted and stored, but scoring never applies it
	komi float64

	// undo history: a snapshot before every successful play
	history []snapshot

	// current game bookkeeping, reset by clear_board
	moveLog   []playedMove
	passes    int
	recorded  bool
	gameStart time.Time

	store Recorder
	book  *book.Book
}

// New creates a new GTP protocol handler.
func New(eng *engine.Engine) *GTP {
	return &GTP{
		engine:    eng,
		board:     board.NewBoard(),
		Name:      "goplay",
		Version:   "1.0.0",
		gameStart: time.Now(),
	}
}

// SetRecorder installs a sink for finished game results.
func (g *GTP) SetRecorder(r Recorder) {
	g.store = r
}

// SetBook installs a book that finished games feed their opening moves
// back into.
func (g *GTP) SetBook(b *book.Book) {
	g.book = b
}

// Run reads GTP commands from r and writes responses to w until the
// stream ends or the quit command arrives.
func (g *GTP) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, verb, args := splitCommand(line)

		response, quit := g.dispatch(verb, args)
		writeResponse(w, id, response)
		if quit {
			break
		}
	}

	return scanner.Err()
}

// splitCommand separates the optional numeric id, the verb, and the
// argument list of a GTP command line.
func splitCommand(line string) (id string, verb string, args []string) {
	fields := strings.Fields(line)

	if _, err := strconv.Atoi(fields[0]); err == nil {
		id = fields[0]
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return id, "", nil
	}

	return id, strings.ToLower(fields[0]), fields[1:]
}

// writeResponse frames a response per the protocol: "=" for success,
// "?" for failure, the id if one was given, and a blank terminator.
func writeResponse(w io.Writer, id string, response response) {
	marker := "="
	if response.err {
		marker = "?"
	}

	if response.body == "" {
		fmt.Fprintf(w, "%s%s\n\n", marker, id)
	} else {
		fmt.Fprintf(w, "%s%s %s\n\n", marker, id, response.body)
	}
}

// response is the body of a GTP reply and whether it is an error.
type response struct {
	body string
	err  bool
}

func ok(body string) response   { return response{body: body} }
func fail(body string) response { return response{body: body, err: true} }

// dispatch executes one command and returns its response, plus whether
// the session should end.
func (g *GTP) dispatch(verb string, args []string) (response, bool) {
	switch verb {
	case "protocol_version":
		return ok("2"), false

	case "name":
		return ok(g.Name), false

	case "version":
		return ok(g.Version), false

	case "known_command":
		if len(args) != 1 {
			return fail("syntax error"), false
		}
		for _, c := range commands {
			if c == args[0] {
				return ok("true"), false
			}
		}
		return ok("false"), false

	case "list_commands":
		return ok(strings.Join(commands, "\n")), false

	case "quit":
		return ok(""), true

	case "boardsize":
		if len(args) != 1 {
			return fail("syntax error"), false
		}
		size, err := strconv.Atoi(args[0])
		if err != nil || size != board.BoardSize {
			return fail("unacceptable size"), false
		}
		g.reset()
		return ok(""), false

	case "clear_board":
		g.reset()
		return ok(""), false

	case "komi":
		if len(args) != 1 {
			return fail("syntax error"), false
		}
		komi, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fail("syntax error"), false
		}
		g.komi = komi
		return ok(""), false

	case "play":
		return g.play(args), false

	case "genmove":
		return g.genMove(args), false

	case "undo":
		if len(g.history) == 0 {
			return fail("cannot undo"), false
		}
		snap := g.history[len(g.history)-1]
		g.history = g.history[:len(g.history)-1]
		g.board = snap.board
		g.moveLog = g.moveLog[:snap.logLen]
		g.passes = snap.passes
		g.recorded = snap.recorded
		return ok(""), false

	case "showboard":
		return ok(g.board.String()), false

	case "final_score":
		return g.finalScore(), false

	case "final_status_list":
		return g.finalStatusList(args), false

	default:
		return fail("unknown command"), false
	}
}

// reset clears the board and every per-game state.
func (g *GTP) reset() {
	g.board = board.NewBoard()
	g.history = nil
	g.moveLog = nil
	g.passes = 0
	g.recorded = false
	g.gameStart = time.Now()
}

// takeSnapshot captures the current session state for undo.
func (g *GTP) takeSnapshot() snapshot {
	return snapshot{
		board:    g.board.Copy(),
		logLen:   len(g.moveLog),
		passes:   g.passes,
		recorded: g.recorded,
	}
}

// play handles "play <color> <vertex>".
func (g *GTP) play(args []string) response {
	if len(args) != 2 {
		return fail("syntax error")
	}

	color, err := board.ParseColor(args[0])
	if err != nil {
		return fail("syntax error")
	}
	p, err := board.ParsePoint(args[1])
	if err != nil {
		return fail("syntax error")
	}

	snap := g.takeSnapshot()
	if p == board.NoPoint {
		g.board.Pass(color)
		g.history = append(g.history, snap)
		g.recordPass()
		return ok("")
	}

	hash := g.board.Hash
	if err := g.board.Play(color, p); err != nil {
		return fail("illegal move")
	}
	g.history = append(g.history, snap)
	g.recordMove(color, p, hash)

	return ok("")
}

// genMove handles "genmove <color>".
func (g *GTP) genMove(args []string) response {
	if len(args) != 1 {
		return fail("syntax error")
	}

	color, err := board.ParseColor(args[0])
	if err != nil {
		return fail("syntax error")
	}

	snap := g.takeSnapshot()
	hash := g.board.Hash

	p, found := g.engine.GenMove(g.board, color)
	if found {
		if err := g.board.Play(color, p); err != nil {
			found = false
		}
	}

	g.history = append(g.history, snap)
	if !found {
		g.board.Pass(color)
		g.recordPass()
		return ok("pass")
	}
	g.recordMove(color, p, hash)

	return ok(p.String())
}

// recordMove logs a played stone and resets the pass streak.
func (g *GTP) recordMove(color board.Color, p board.Point, hash uint64) {
	g.moveLog = append(g.moveLog, playedMove{color: color, point: p, hash: hash})
	g.passes = 0
}

// recordPass counts a pass; two in a row end the game.
func (g *GTP) recordPass() {
	g.passes++
	if g.passes >= 2 {
		g.finishGame()
	}
}

// finishGame scores the ended game once and feeds the result into the
// stats store and the opening book.
func (g *GTP) finishGame() {
	if g.recorded || (g.store == nil && g.book == nil) {
		return
	}
	g.recorded = true

	finished := g.engine.Finish(g.board)
	black, white := g.board.GuessScore(finished)

	winner := board.NoColor
	margin := 0
	switch {
	case black > white:
		winner, margin = board.Black, black-white
	case white > black:
		winner, margin = board.White, white-black
	}

	if g.store != nil {
		// a failed write must not disturb the protocol stream
		_ = g.store.RecordGame(storage.GameResult{
			Winner:   winner,
			Margin:   margin,
			Moves:    g.board.NumMoves,
			Duration: time.Since(g.gameStart),
		})
	}

	if g.book != nil {
		moves := g.moveLog
		if len(moves) > bookDepth {
			moves = moves[:bookDepth]
		}
		for _, m := range moves {
			g.book.Record(m.hash, m.point, m.color == winner)
		}
	}
}

// finalScore handles "final_score", reporting the Tromp-Taylor area
// difference of the current position once the stones that a
// heuristically finished copy reads as dead are removed (GuessScore).
// Komi is not applied.
func (g *GTP) finalScore() response {
	finished := g.engine.Finish(g.board)
	black, white := g.board.GuessScore(finished)

	switch {
	case black > white:
		return ok(fmt.Sprintf("B+%d", black-white))
	case white > black:
		return ok(fmt.Sprintf("W+%d", white-black))
	default:
		return ok("0")
	}
}

// finalStatusList handles "final_status_list <status>".
func (g *GTP) finalStatusList(args []string) response {
	if len(args) != 1 {
		return fail("syntax error")
	}

	want, err := board.ParseStoneStatus(args[0])
	if err != nil {
		return fail("syntax error")
	}

	finished := g.engine.Finish(g.board)

	var points []string
	for _, status := range g.board.StoneStatuses(finished) {
		for _, s := range status.Statuses {
			if s == want {
				points = append(points, status.Point.String())
				break
			}
		}
	}
	sort.Strings(points)

	return ok(strings.Join(points, " "))
}
