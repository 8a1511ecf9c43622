package engine

import "github.com/matthiasgreen/chess-engine/internal/board"

// Evaluator scores a position in centipawns from the side to move's point
// of view. Scores must lie strictly between -Infinity and Infinity; a
// checkmated side should get a large negative score and a stalemate a
// draw score.
type Evaluator interface {
	Evaluate(pos *board.Position) int
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(pos *board.Position) int

func (f EvaluatorFunc) Evaluate(pos *board.Position) int {
	return f(pos)
}

const (
	doubledPawnPenalty  = 40
	isolatedPawnPenalty = 40
	mobilityWeight      = 5
)

// MaterialEvaluator scores material, pawn structure and pseudo-legal
// mobility. It keeps scratch buffers and must not be shared between
// goroutines.
type MaterialEvaluator struct {
	scratch *board.MoveList
}

// NewMaterialEvaluator returns the default evaluator.
func NewMaterialEvaluator() *MaterialEvaluator {
	return &MaterialEvaluator{scratch: board.NewMoveList(256)}
}

func (e *MaterialEvaluator) Evaluate(pos *board.Position) int {
	if !pos.HasLegalMove(e.scratch) {
		if pos.IsCheck() {
			return -MateScore
		}
		return 0
	}

	us := pos.SideToMove()
	them := us.Other()
	score := material(pos, us) - material(pos, them)

	score += pawnStructure(pos, us)
	score += mobilityWeight * (e.mobility(pos, us) - e.mobility(pos, them))
	return score
}

func material(pos *board.Position, c board.Color) int {
	score := 0
	for pt := board.Pawn; pt < board.King; pt++ {
		score += pos.Board[c][pt].Count() * board.PieceValue[pt]
	}
	return score
}

// pawnStructure returns the doubled and isolated pawn penalties of the
// opponent minus those of us.
func pawnStructure(pos *board.Position, us board.Color) int {
	ours, theirs := pos.Board[us][board.Pawn], pos.Board[us.Other()][board.Pawn]
	return doubledPawnPenalty*(doubledPawns(theirs)-doubledPawns(ours)) +
		isolatedPawnPenalty*(isolatedPawns(theirs)-isolatedPawns(ours))
}

// doubledPawns counts pawns beyond the first on each file.
func doubledPawns(pawns board.Bitboard) int {
	n := 0
	for _, file := range board.FileMask {
		if c := (pawns & file).Count(); c > 1 {
			n += c - 1
		}
	}
	return n
}

// isolatedPawns counts files holding pawns with no pawns on either
// neighbouring file. Doubled isolated pawns count once.
func isolatedPawns(pawns board.Bitboard) int {
	n := 0
	for f, file := range board.FileMask {
		if pawns&file == 0 {
			continue
		}
		var neighbours board.Bitboard
		if f > 0 {
			neighbours |= board.FileMask[f-1]
		}
		if f < 7 {
			neighbours |= board.FileMask[f+1]
		}
		if pawns&neighbours == 0 {
			n++
		}
	}
	return n
}

// mobility counts the pseudo-legal moves c would have if it were to move.
func (e *MaterialEvaluator) mobility(pos *board.Position, c board.Color) int {
	view := *pos
	view.Flags.SideToMove = c
	ply := e.scratch.BeginPly()
	view.GeneratePseudoLegalMoves(e.scratch)
	n := e.scratch.Len(ply)
	e.scratch.EndPly(ply)
	return n
}
