package uci

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/matthiasgreen/chess-engine/internal/board"
	"github.com/matthiasgreen/chess-engine/internal/engine"
	"github.com/matthiasgreen/chess-engine/internal/storage"
)

const (
	defaultHashMB = 16
	maxHashMB     = 4096
)

// Journal receives finished analyses. *storage.Storage implements it.
type Journal interface {
	RecordAnalysis(a *storage.Analysis) error
	Analyses() ([]*storage.Analysis, error)
}

// UCI implements the Universal Chess Interface protocol.
type UCI struct {
	engine   *engine.Engine
	position *board.Position
	timer    *engine.TimeManager
	journal  Journal

	in  io.Reader
	out io.Writer
}

// New creates a UCI protocol handler reading commands from in and writing
// responses to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer) *UCI {
	return &UCI{
		engine:   eng,
		position: board.NewPosition(),
		timer:    engine.NewTimeManager(),
		in:       in,
		out:      out,
	}
}

// SetJournal makes every finished search be recorded in j.
func (u *UCI) SetJournal(j Journal) {
	u.journal = j
}

// Position returns the current position.
func (u *UCI) Position() *board.Position {
	return u.position
}

// Run reads commands until "quit" or end of input.
func (u *UCI) Run() error {
	scanner := bufio.NewScanner(u.in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "uci":
			u.handleUCI()
		case "isready":
			u.println("readyok")
		case "ucinewgame":
			u.handleNewGame()
		case "position":
			if board.DebugMoveValidation {
				log.Printf("uci: position %s", strings.Join(args, " "))
			}
			u.handlePosition(args)
		case "go":
			u.handleGo(args)
		case "stop":
			// Searches run to completion before the next command is read.
		case "quit":
			return nil
		case "setoption":
			u.handleSetOption(args)
		// Debug commands
		case "d":
			u.println(u.position.String())
			u.println("Fen: " + u.position.ToFEN())
		case "perft":
			u.handlePerft(args)
		case "journal":
			u.handleJournal()
		default:
			u.infoString("Unknown command: " + line)
		}
	}

	return scanner.Err()
}

func (u *UCI) println(s string) {
	fmt.Fprintln(u.out, s)
}

func (u *UCI) infoString(s string) {
	fmt.Fprintf(u.out, "info string %s\n", s)
}

// handleUCI responds to the "uci" command.
func (u *UCI) handleUCI() {
	u.println("id name ChessCore")
	u.println("id author Matthias Green")
	u.println("")
	u.println(fmt.Sprintf("option name Hash type spin default %d min 1 max %d", defaultHashMB, maxHashMB))
	u.println("uciok")
}

// handleNewGame resets the engine for a new game.
func (u *UCI) handleNewGame() {
	u.engine.Clear()
	u.position = board.NewPosition()
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e2e4 e7e5
//   - position fen <fen>
//   - position fen <fen> moves e2e4
//
// On any error the previous position is kept.
func (u *UCI) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesAt := len(args)
	for i, arg := range args {
		if arg == "moves" {
			movesAt = i
			break
		}
	}

	var pos *board.Position
	switch args[0] {
	case "startpos":
		pos = board.NewPosition()
	case "fen":
		var err error
		pos, err = board.ParseFEN(strings.Join(args[1:movesAt], " "))
		if err != nil {
			log.Printf("uci: %v", err)
			u.infoString(fmt.Sprintf("Invalid FEN: %v", err))
			return
		}
	default:
		return
	}

	if movesAt < len(args) {
		if err := board.ApplyMoves(pos, args[movesAt+1:]); err != nil {
			log.Printf("uci: %v", err)
			u.infoString(fmt.Sprintf("Invalid move: %v", err))
			return
		}
	}

	u.position = pos
}

// parseGoOptions parses "go" command arguments.
func parseGoOptions(args []string) engine.UCILimits {
	var opts engine.UCILimits

	millis := func(i int) time.Duration {
		ms, _ := strconv.Atoi(args[i])
		return time.Duration(ms) * time.Millisecond
	}

	for i := 0; i < len(args); i++ {
		if args[i] == "infinite" {
			opts.Infinite = true
			continue
		}
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "depth":
			opts.Depth, _ = strconv.Atoi(args[i+1])
		case "movetime":
			opts.MoveTime = millis(i + 1)
		case "wtime":
			opts.Time[board.White] = millis(i + 1)
		case "btime":
			opts.Time[board.Black] = millis(i + 1)
		case "winc":
			opts.Inc[board.White] = millis(i + 1)
		case "binc":
			opts.Inc[board.Black] = millis(i + 1)
		case "movestogo":
			opts.MovesToGo, _ = strconv.Atoi(args[i+1])
		default:
			continue
		}
		i++
	}

	return opts
}

// handleGo runs a search to completion and prints the best move.
func (u *UCI) handleGo(args []string) {
	opts := parseGoOptions(args)
	us := u.position.SideToMove()
	ply := (u.position.FullMove-1)*2 + int(us)
	limits := u.timer.Limits(opts, us, ply)

	u.engine.OnInfo = u.sendInfo
	res := u.engine.SearchWithLimits(u.position, limits)

	if res.Move == board.NoMove {
		u.println("bestmove 0000")
	} else {
		u.println("bestmove " + res.Move.String())
	}

	if u.journal != nil {
		u.record(res)
	}
}

func (u *UCI) record(res engine.Result) {
	a := &storage.Analysis{
		FEN:     u.position.ToFEN(),
		Depth:   res.Depth,
		Score:   res.Score,
		Nodes:   res.Nodes,
		Elapsed: res.Time,
		PV:      moveStrings(res.PV),
		SAN:     board.MovesToSAN(u.position, res.PV),
	}
	if res.Move != board.NoMove {
		a.BestMove = res.Move.String()
	}
	if err := u.journal.RecordAnalysis(a); err != nil {
		log.Printf("uci: journal: %v", err)
	}
}

func moveStrings(moves []board.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.String()
	}
	return out
}

// sendInfo outputs search info in UCI format.
func (u *UCI) sendInfo(info engine.SearchInfo) {
	parts := []string{
		fmt.Sprintf("depth %d", info.Depth),
		"score " + engine.FormatScore(info.Score, info.PV),
		fmt.Sprintf("nodes %d", info.Nodes),
		fmt.Sprintf("time %d", info.Time.Milliseconds()),
	}

	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		parts = append(parts, "pv "+strings.Join(moveStrings(info.PV), " "))
	}

	u.println("info " + strings.Join(parts, " "))
}

// handleSetOption processes "setoption" commands.
func (u *UCI) handleSetOption(args []string) {
	// Format: setoption name <name> value <value>
	var name, value []string
	var target *[]string

	for _, arg := range args {
		switch arg {
		case "name":
			target = &name
		case "value":
			target = &value
		default:
			if target != nil {
				*target = append(*target, arg)
			}
		}
	}

	switch strings.ToLower(strings.Join(name, " ")) {
	case "hash":
		mb, err := strconv.Atoi(strings.Join(value, " "))
		if err != nil || mb < 1 || mb > maxHashMB {
			u.infoString(fmt.Sprintf("Invalid Hash value: %s", strings.Join(value, " ")))
			return
		}
		u.engine.Resize(mb)
	case "debug":
		enabled := strings.EqualFold(strings.Join(value, " "), "true")
		board.DebugMoveValidation = enabled
		engine.Debug = enabled
	default:
		u.infoString("Unknown option: " + strings.Join(name, " "))
	}
}

// handlePerft prints a perftree-style divide of the current position.
func (u *UCI) handlePerft(args []string) {
	depth := 1
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			u.infoString("Invalid perft depth: " + args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	entries, total := board.Divide(u.position, depth)
	elapsed := time.Since(start)

	fmt.Fprint(u.out, board.FormatDivide(entries, total))
	if board.DebugMoveValidation {
		log.Printf("uci: perft %d took %v", depth, elapsed)
	}
}

// handleJournal lists the recorded analyses.
func (u *UCI) handleJournal() {
	if u.journal == nil {
		u.infoString("No journal configured")
		return
	}
	all, err := u.journal.Analyses()
	if err != nil {
		log.Printf("uci: journal: %v", err)
		u.infoString(fmt.Sprintf("Journal error: %v", err))
		return
	}
	for _, a := range all {
		u.println(fmt.Sprintf("%s | depth %d score %d bestmove %s nodes %d time %d line %s",
			a.FEN, a.Depth, a.Score, a.BestMove, a.Nodes, a.Elapsed.Milliseconds(), strings.Join(a.SAN, " ")))
	}
}
