package engine

import (
	"github.com/matthiasgreen/chess-engine/internal/board"
)

const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128

	// QuiescenceDepth bounds how far past the nominal depth the capture
	// search may go.
	QuiescenceDepth = 4

	// MaxDepth is the deepest nominal search the PV table can hold.
	MaxDepth = MaxPly - QuiescenceDepth - 1
)

// PVTable is a triangular principal variation table: row ply holds the
// best line found from that ply, root-first.
type PVTable struct {
	length [MaxPly]int
	moves  [MaxPly][MaxPly]board.Move
}

func (pv *PVTable) clear(ply int) {
	pv.length[ply] = ply
}

// update makes m followed by the child line the best line at ply.
func (pv *PVTable) update(ply int, m board.Move) {
	pv.moves[ply][ply] = m
	child := pv.length[ply+1]
	copy(pv.moves[ply][ply+1:child], pv.moves[ply+1][ply+1:child])
	pv.length[ply] = child
}

// line returns a copy of the root line.
func (pv *PVTable) line() []board.Move {
	return append([]board.Move(nil), pv.moves[0][:pv.length[0]]...)
}

// Searcher runs fixed-depth negamax searches. It owns a private copy of the
// position and reuses its move arena, mutator and PV table across calls.
type Searcher struct {
	pos   board.Position
	mu    *board.MakeUnmaker
	moves *board.MoveList
	tt    *TranspositionTable
	eval  Evaluator

	maxDepth int
	nodes    uint64
	pv       PVTable
	prevPV   []board.Move
}

// NewSearcher returns a searcher using tt for move ordering and eval at
// the leaves.
func NewSearcher(tt *TranspositionTable, eval Evaluator) *Searcher {
	s := &Searcher{
		moves: board.NewMoveList(4096),
		tt:    tt,
		eval:  eval,
	}
	s.mu = board.NewMakeUnmaker(&s.pos)
	return s
}

// Reset forgets the previous iteration's line and the node count.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.prevPV = s.prevPV[:0]
}

// Nodes returns the nodes visited since the last Reset.
func (s *Searcher) Nodes() uint64 {
	return s.nodes
}

// PV returns the principal variation of the last search, root move first.
func (s *Searcher) PV() []board.Move {
	return s.pv.line()
}

// Search searches pos to the given depth and returns the best move (NoMove
// if there is no legal move) and its score. The line of the previous call
// since Reset is tried first at every node along it.
func (s *Searcher) Search(pos *board.Position, depth int) (board.Move, int) {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	s.pos = *pos
	s.mu.Reset(&s.pos)
	s.moves.Reset()
	s.maxDepth = depth

	score := s.negamax(0, -Infinity, Infinity, len(s.prevPV) > 0)

	s.prevPV = append(s.prevPV[:0], s.pv.moves[0][:s.pv.length[0]]...)
	if s.pv.length[0] == 0 {
		return board.NoMove, score
	}
	return s.pv.moves[0][0], score
}

// negamax is a fail-soft alpha-beta search. onPV is true while every move
// from the root to this node followed the previous iteration's line.
func (s *Searcher) negamax(ply, alpha, beta int, onPV bool) int {
	if ply >= s.maxDepth {
		return s.quiesce(ply, alpha, beta)
	}
	s.nodes++
	s.pv.clear(ply)

	pvMove := board.NoMove
	if onPV && ply < len(s.prevPV) {
		pvMove = s.prevPV[ply]
	}
	hint := pvMove
	if hint == board.NoMove {
		hint = s.tt.BestMove(s.mu.Hash())
	}

	seg := s.moves.BeginPly()
	s.pos.GeneratePseudoLegalMoves(s.moves)
	orderMoves(s.moves.Moves(seg), hint)

	best := -Infinity
	bestMove := board.NoMove
	for i := 0; i < s.moves.Len(seg); i++ {
		m := s.moves.At(seg, i)
		u := s.mu.Apply(m)
		if !s.pos.WasMoveLegal() {
			s.mu.Revert(u)
			continue
		}
		score := -s.negamax(ply+1, -beta, -alpha, pvMove != board.NoMove && m == pvMove)
		s.mu.Revert(u)

		if score > best {
			best, bestMove = score, m
			if score > alpha {
				alpha = score
				s.pv.update(ply, m)
			}
			if score >= beta {
				break
			}
		}
	}
	s.moves.EndPly(seg)

	if bestMove == board.NoMove {
		best = s.eval.Evaluate(&s.pos)
	}
	s.tt.Store(s.mu.Hash(), s.maxDepth-ply, best, bestMove)
	return best
}

// quiesce extends the search with captures and promotions only, starting
// from the static score as a lower bound.
func (s *Searcher) quiesce(ply, alpha, beta int) int {
	s.nodes++
	s.pv.clear(ply)

	static := s.eval.Evaluate(&s.pos)
	if ply >= s.maxDepth+QuiescenceDepth || static >= beta {
		return static
	}
	best := static
	if static > alpha {
		alpha = static
	}

	seg := s.moves.BeginPly()
	s.pos.GeneratePseudoLegalMoves(s.moves)
	orderMoves(s.moves.Moves(seg), s.tt.BestMove(s.mu.Hash()))

	for i := 0; i < s.moves.Len(seg); i++ {
		m := s.moves.At(seg, i)
		if !m.IsCapture() && !m.IsPromotion() {
			continue
		}
		u := s.mu.Apply(m)
		if !s.pos.WasMoveLegal() {
			s.mu.Revert(u)
			continue
		}
		score := -s.quiesce(ply+1, -beta, -alpha)
		s.mu.Revert(u)

		if score > best {
			best = score
			if score > alpha {
				alpha = score
				s.pv.update(ply, m)
			}
			if score >= beta {
				break
			}
		}
	}
	s.moves.EndPly(seg)
	return best
}

// orderMoves moves hint to the front, then every non-quiet move ahead of
// the quiet ones. Relative order is otherwise kept.
func orderMoves(moves []board.Move, hint board.Move) {
	n := 0
	if hint != board.NoMove {
		for i, m := range moves {
			if m == hint {
				copy(moves[1:i+1], moves[:i])
				moves[0] = m
				n = 1
				break
			}
		}
	}
	for i := n; i < len(moves); i++ {
		if m := moves[i]; !m.IsQuiet() {
			copy(moves[n+1:i+1], moves[n:i])
			moves[n] = m
			n++
		}
	}
}
