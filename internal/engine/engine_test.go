package engine

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/matthiasgreen/chess-engine/internal/board"
)

func mustParseFEN(t testing.TB, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

// materialOnly is a cheap evaluator for exhaustive comparisons.
var materialOnly = EvaluatorFunc(func(pos *board.Position) int {
	us := pos.SideToMove()
	return material(pos, us) - material(pos, us.Other())
})

func TestTranspositionTable(t *testing.T) {
	tt := NewTranspositionTable(1)
	if tt.Size() != 1<<16 {
		t.Fatalf("Size() = %d, want %d", tt.Size(), 1<<16)
	}

	const h = uint64(0xDEADBEEF12345678)
	if _, ok := tt.Probe(h); ok {
		t.Error("Probe hit on an empty table")
	}

	move := board.NewMove(board.E2, board.E4, board.DoublePawnPush)
	tt.Store(h, 5, -42, move)
	e, ok := tt.Probe(h)
	if !ok {
		t.Fatal("Probe missed right after Store")
	}
	want := TTEntry{Hash: h, Score: -42, BestMove: move, Depth: 5, used: true}
	if diff := cmp.Diff(want, e, cmp.AllowUnexported(TTEntry{})); diff != "" {
		t.Errorf("entry (-want +got):\n%s", diff)
	}

	// Same slot, different position.
	alias := h + tt.Size()
	tt.Store(alias, 1, 7, board.NoMove)
	if _, ok := tt.Probe(h); ok {
		t.Error("Probe returned an entry overwritten by an aliasing hash")
	}
	if e, ok := tt.Probe(alias); !ok || e.Score != 7 {
		t.Errorf("Probe(alias) = %+v, %v", e, ok)
	}
	if got := tt.HitRate(); got != 50 {
		t.Errorf("HitRate() = %v after 2 hits in 4 probes, want 50", got)
	}

	tt.Clear()
	if _, ok := tt.Probe(alias); ok {
		t.Error("Probe hit after Clear")
	}
	if tt.HashFull() != 0 {
		t.Errorf("HashFull() = %d after Clear", tt.HashFull())
	}
	if got := tt.HitRate(); got != 0 {
		t.Errorf("HitRate() = %v after Clear, want 0", got)
	}
}

func TestRoundDownToPowerOf2(t *testing.T) {
	tests := []struct{ in, want uint64 }{
		{1, 1}, {2, 2}, {3, 2}, {1000, 512}, {1 << 20, 1 << 20}, {1<<20 + 1, 1 << 20},
	}
	for _, tc := range tests {
		if got := roundDownToPowerOf2(tc.in); got != tc.want {
			t.Errorf("roundDownToPowerOf2(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestQuiesceWithoutCapturesReturnsStaticScore(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	eval := NewMaterialEvaluator()
	s := NewSearcher(NewTranspositionTable(1), eval)
	s.pos = *pos
	s.mu.Reset(&s.pos)
	s.maxDepth = 0

	got := s.quiesce(0, -Infinity, Infinity)
	if want := eval.Evaluate(pos); got != want {
		t.Errorf("quiesce = %d, want static score %d", got, want)
	}
	if line := s.PV(); len(line) != 0 {
		t.Errorf("quiesce PV = %v, want empty", line)
	}
	if s.moves.Depth() != 0 {
		t.Errorf("quiesce left %d plies open", s.moves.Depth())
	}
}

func TestQuiesceTakesHangingQueen(t *testing.T) {
	pos := mustParseFEN(t, "8/8/8/8/8/8/qQ6/5k1K w - - 0 1")
	s := NewSearcher(NewTranspositionTable(1), NewMaterialEvaluator())
	s.pos = *pos
	s.mu.Reset(&s.pos)
	s.maxDepth = 0

	score := s.quiesce(0, -Infinity, Infinity)
	want := []board.Move{board.NewMove(board.B2, board.A2, board.Capture)}
	if diff := cmp.Diff(want, s.PV()); diff != "" {
		t.Errorf("quiesce PV (-want +got):\n%s", diff)
	}
	if score < 800 {
		t.Errorf("quiesce score = %d, want at least a queen up", score)
	}
}

func naiveNegamax(pos *board.Position, mu *board.MakeUnmaker, eval Evaluator, ply, depth int) int {
	if ply >= depth {
		return naiveQuiesce(pos, mu, eval, ply, depth+QuiescenceDepth)
	}
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return eval.Evaluate(pos)
	}
	best := -Infinity
	for _, m := range moves {
		u := mu.Apply(m)
		best = max(best, -naiveNegamax(pos, mu, eval, ply+1, depth))
		mu.Revert(u)
	}
	return best
}

func naiveQuiesce(pos *board.Position, mu *board.MakeUnmaker, eval Evaluator, ply, ceiling int) int {
	best := eval.Evaluate(pos)
	if ply >= ceiling {
		return best
	}
	for _, m := range pos.LegalMoves() {
		if !m.IsCapture() && !m.IsPromotion() {
			continue
		}
		u := mu.Apply(m)
		best = max(best, -naiveQuiesce(pos, mu, eval, ply+1, ceiling))
		mu.Revert(u)
	}
	return best
}

func TestAlphaBetaMatchesNaiveNegamax(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		depth int
	}{
		{"minor pieces", "4k3/3p4/2n5/4p3/3PP3/2N5/8/4K3 w - - 0 1", 3},
		{"rooks", "3rk3/8/8/3p4/8/3R4/3R4/4K3 w - - 0 1", 2},
		{"promotion race", "8/1P4k1/8/8/8/8/5p2/1K6 w - - 0 1", 3},
		{"start", board.StartFEN, 2},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			pos := mustParseFEN(t, tc.fen)

			s := NewSearcher(NewTranspositionTable(1), materialOnly)
			_, got := s.Search(pos, tc.depth)

			scratch := *pos
			want := naiveNegamax(&scratch, board.NewMakeUnmaker(&scratch), materialOnly, 0, tc.depth)
			if got != want {
				t.Errorf("alpha-beta score = %d, naive negamax = %d", got, want)
			}
		})
	}
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mustParseFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	eng := NewEngine(1, nil)
	res := eng.Search(pos, 2)
	if got := res.Move.String(); got != "a1a8" {
		t.Errorf("best move = %s, want a1a8 (pv %v)", got, res.PV)
	}
	if res.Score != MateScore {
		t.Errorf("score = %d, want %d", res.Score, MateScore)
	}
	if got := FormatScore(res.Score, res.PV); got != "mate 1" {
		t.Errorf("FormatScore = %q, want \"mate 1\"", got)
	}
}

func TestSearchWinsQueen(t *testing.T) {
	pos := mustParseFEN(t, "4k3/8/8/3q4/8/8/3R4/4K3 w - - 0 1")
	before := *pos
	eng := NewEngine(1, nil)
	res := eng.SearchWithLimits(pos, SearchLimits{Depth: 3})
	if got := res.Move.String(); got != "d2d5" {
		t.Errorf("best move = %s, want d2d5 (pv %v)", got, res.PV)
	}
	if res.Depth != 3 {
		t.Errorf("depth = %d, want 3", res.Depth)
	}
	if len(res.PV) == 0 || res.PV[0] != res.Move {
		t.Errorf("PV %v does not start with the best move %s", res.PV, res.Move)
	}
	if diff := cmp.Diff(before, *pos); diff != "" {
		t.Errorf("search modified the position (-before +after):\n%s", diff)
	}
}

func TestSearchWithoutLegalMoves(t *testing.T) {
	pos := mustParseFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	res := NewEngine(1, nil).Search(pos, 3)
	if res.Move != board.NoMove {
		t.Errorf("move = %s, want none", res.Move)
	}
	if res.Score != -MateScore {
		t.Errorf("score = %d, want %d", res.Score, -MateScore)
	}
}

func TestIterativeDeepen(t *testing.T) {
	pos := board.NewPosition()
	eng := NewEngine(4, nil)

	var depths []int
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
	}
	res := eng.IterativeDeepen(pos, 50*time.Millisecond)

	if res.Move == board.NoMove {
		t.Fatal("IterativeDeepen returned no move")
	}
	if _, err := board.ParseMove(res.Move.String(), pos); err != nil {
		t.Errorf("best move %s is not legal: %v", res.Move, err)
	}
	if len(depths) == 0 || depths[len(depths)-1] != res.Depth {
		t.Errorf("reported depths %v, result depth %d", depths, res.Depth)
	}
	for i, d := range depths {
		if d != i+1 {
			t.Errorf("depths %v are not consecutive from 1", depths)
			break
		}
	}
}

func TestIterativeDeepenZeroBudgetRunsOneDepth(t *testing.T) {
	res := NewEngine(1, nil).IterativeDeepen(board.NewPosition(), 0)
	if res.Depth != 1 || res.Move == board.NoMove {
		t.Errorf("got depth %d move %s, want one completed depth", res.Depth, res.Move)
	}
}

func TestOrderMoves(t *testing.T) {
	quiet := board.NewMove(board.G1, board.F3, board.QuietMove)
	push := board.NewMove(board.E2, board.E4, board.DoublePawnPush)
	capture := board.NewMove(board.D4, board.E5, board.Capture)
	castle := board.NewMove(board.E1, board.G1, board.KingCastle)
	promo := board.NewMove(board.A7, board.A8, board.QueenPromotion)

	moves := []board.Move{quiet, capture, push, castle, promo}
	orderMoves(moves, push)
	want := []board.Move{push, capture, castle, promo, quiet}
	if diff := cmp.Diff(want, moves); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}

	moves = []board.Move{quiet, capture}
	orderMoves(moves, board.NoMove)
	if diff := cmp.Diff([]board.Move{capture, quiet}, moves); diff != "" {
		t.Errorf("order without hint (-want +got):\n%s", diff)
	}
}

func TestMaterialEvaluator(t *testing.T) {
	eval := NewMaterialEvaluator()
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"start", board.StartFEN, 0},
		{"checkmated", "R6k/6pp/8/8/8/8/8/K7 b - - 0 1", -MateScore},
		{"stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", 0},
		// Missing a2 pawn: one pawn down, but the a1 rook adds four moves.
		{"pawn down", "rnbqkbnr/pppppppp/8/8/8/8/1PPPPPPP/RNBQKBNR w KQkq - 0 1", -100 + 4*mobilityWeight},
	}
	for _, tc := range tests {
		if got := eval.Evaluate(mustParseFEN(t, tc.fen)); got != tc.want {
			t.Errorf("%s: Evaluate = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestPawnStructure(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want int
	}{
		{"start", board.StartFEN, 0},
		{"white doubled", "rnbqkbnr/pppppppp/8/8/8/1P6/1PPPPPPP/RNBQKBNR w KQkq - 0 1", -doubledPawnPenalty},
		{"black doubled", "rnbqkbnr/1ppppppp/1p6/8/8/8/PPPPPPPP/RNBQKB1R w KQkq - 0 1", doubledPawnPenalty},
		{"white tripled, black to move", "rnbqkbnr/pppppppp/8/8/2P5/2P5/2PPPPPP/RNBQKBNR b KQkq - 0 1", 2 * doubledPawnPenalty},
		{"isolated edge pawn", "rnbqkbnr/pppppppp/8/8/8/8/P1PPPPPP/RNBQKBNR w KQkq - 0 1", -isolatedPawnPenalty},
		{"isolated centre pawn, black to move", "rnbqkbnr/pppppppp/8/8/8/8/1P1PPPPP/RNBQKBNR b KQkq - 0 1", isolatedPawnPenalty},
		// Both a-pawns are isolated, but the file counts once.
		{"doubled isolated", "rnbqkbnr/pppppppp/8/8/8/P7/P1PPPPPP/RNBQKBNR w KQkq - 0 1", -doubledPawnPenalty - isolatedPawnPenalty},
	}
	for _, tc := range tests {
		pos := mustParseFEN(t, tc.fen)
		if got := pawnStructure(pos, pos.SideToMove()); got != tc.want {
			t.Errorf("%s: pawnStructure = %d, want %d", tc.name, got, tc.want)
		}
	}
}

// The structure term reaches Evaluate unchanged next to material and mobility.
func TestMaterialEvaluatorIncludesPawnStructure(t *testing.T) {
	eval := NewMaterialEvaluator()
	pos := mustParseFEN(t, "4k3/8/8/8/8/P7/P3PP2/4K3 w - - 0 1")
	us, them := pos.SideToMove(), pos.SideToMove().Other()

	want := material(pos, us) - material(pos, them) +
		mobilityWeight*(eval.mobility(pos, us)-eval.mobility(pos, them)) -
		doubledPawnPenalty - isolatedPawnPenalty
	if got := eval.Evaluate(pos); got != want {
		t.Errorf("Evaluate = %d, want %d", got, want)
	}
}

func TestTimeManagerLimits(t *testing.T) {
	tm := NewTimeManager()
	got := tm.Limits(UCILimits{MoveTime: time.Second}, board.White, 0)
	if got.MoveTime != 500*time.Millisecond {
		t.Errorf("movetime budget = %v, want 500ms", got.MoveTime)
	}

	got = tm.Limits(UCILimits{Depth: 6}, board.White, 0)
	if diff := cmp.Diff(SearchLimits{Depth: 6}, got); diff != "" {
		t.Errorf("depth limits (-want +got):\n%s", diff)
	}

	clock := UCILimits{Time: [2]time.Duration{time.Minute, 10 * time.Second}, MovesToGo: 20}
	got = tm.Limits(clock, board.Black, 40)
	if want := 10 * time.Second / 20 / 2; got.MoveTime != want {
		t.Errorf("clock budget = %v, want %v", got.MoveTime, want)
	}
}
