package engine

import (
	"log"
	"strconv"
	"time"

	"github.com/matthiasgreen/chess-engine/internal/board"
)

// Debug enables search tracing through the standard logger.
var Debug = false

// DefaultDepth is searched when SearchLimits sets neither depth nor time.
const DefaultDepth = 4

// SearchInfo reports one completed iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille of the transposition table in use
}

// SearchLimits bounds an iterative-deepening search. Zero fields are
// unlimited; if both are zero DefaultDepth is used.
type SearchLimits struct {
	Depth    int
	MoveTime time.Duration
}

// Result is the outcome of the deepest completed iteration.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	PV    []board.Move
	Nodes uint64
	Time  time.Duration
}

// Engine wraps a Searcher with iterative deepening and reporting.
type Engine struct {
	searcher *Searcher
	tt       *TranspositionTable
	eval     Evaluator

	// OnInfo, if set, is called after every completed depth.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a transposition table of ttSizeMB
// mebibytes. A nil eval selects the MaterialEvaluator.
func NewEngine(ttSizeMB int, eval Evaluator) *Engine {
	if eval == nil {
		eval = NewMaterialEvaluator()
	}
	tt := NewTranspositionTable(ttSizeMB)
	return &Engine{
		searcher: NewSearcher(tt, eval),
		tt:       tt,
		eval:     eval,
	}
}

// Resize replaces the transposition table.
func (e *Engine) Resize(ttSizeMB int) {
	e.tt = NewTranspositionTable(ttSizeMB)
	e.searcher = NewSearcher(e.tt, e.eval)
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// Evaluate returns the static score of pos.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// Search runs a single fixed-depth search.
func (e *Engine) Search(pos *board.Position, depth int) Result {
	start := time.Now()
	e.searcher.Reset()
	move, score := e.searcher.Search(pos, depth)
	return Result{
		Move:  move,
		Score: score,
		Depth: depth,
		PV:    e.searcher.PV(),
		Nodes: e.searcher.Nodes(),
		Time:  time.Since(start),
	}
}

// IterativeDeepen searches depth 1, 2, ... until the total elapsed time
// reaches budget, and returns the deepest completed result. A depth that is
// already running is always finished, so the budget can be overrun by one
// iteration.
func (e *Engine) IterativeDeepen(pos *board.Position, budget time.Duration) Result {
	return e.iterate(pos, MaxDepth, budget, true)
}

// SearchWithLimits runs iterative deepening bounded by depth, time or both.
func (e *Engine) SearchWithLimits(pos *board.Position, limits SearchLimits) Result {
	depth := limits.Depth
	if depth <= 0 || depth > MaxDepth {
		depth = MaxDepth
	}
	if limits.Depth <= 0 && limits.MoveTime <= 0 {
		depth = DefaultDepth
	}
	return e.iterate(pos, depth, limits.MoveTime, limits.MoveTime > 0)
}

func (e *Engine) iterate(pos *board.Position, maxDepth int, budget time.Duration, timed bool) Result {
	start := time.Now()
	e.searcher.Reset()

	var res Result
	for depth := 1; depth <= maxDepth; depth++ {
		move, score := e.searcher.Search(pos, depth)
		res = Result{
			Move:  move,
			Score: score,
			Depth: depth,
			PV:    e.searcher.PV(),
			Nodes: e.searcher.Nodes(),
			Time:  time.Since(start),
		}
		if Debug {
			log.Printf("search: depth %d score %d nodes %d time %v tt hits %.1f%% pv %v", depth, score, res.Nodes, res.Time, e.tt.HitRate(), res.PV)
		}
		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    res.Nodes,
				Time:     res.Time,
				PV:       res.PV,
				HashFull: e.tt.HashFull(),
			})
		}
		if move == board.NoMove {
			break
		}
		if timed && res.Time >= budget {
			break
		}
	}
	return res
}

// IsMateScore reports whether score signals a forced mate for either side.
func IsMateScore(score int) bool {
	return score >= MateScore-MaxPly || score <= -MateScore+MaxPly
}

// FormatScore renders a score as a UCI "score" value. Mate distances are
// derived from the PV length, since scores do not encode them.
func FormatScore(score int, pv []board.Move) string {
	if !IsMateScore(score) {
		return "cp " + strconv.Itoa(score)
	}
	moves := (len(pv) + 1) / 2
	if score < 0 {
		moves = -(len(pv) / 2)
	}
	return "mate " + strconv.Itoa(moves)
}
