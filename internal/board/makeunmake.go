package board

import (
	"fmt"
	"log"
)

// DebugMoveValidation makes Apply compare the incremental hash with a
// from-scratch hash after every move and log mismatches.
var DebugMoveValidation = false

// irreversible is the state Apply cannot recompute when reverting.
type irreversible struct {
	halfMove  int
	fullMove  int
	enPassant Bitboard
	flags     StateFlags
	captured  PieceType
}

// Undo is returned by Apply and must be passed to the matching Revert.
type Undo struct {
	move  Move
	depth int
}

// Move returns the move the token reverts.
func (u Undo) Move() Move {
	return u.move
}

// MakeUnmaker applies and reverts moves on a Position in place while
// keeping its Zobrist hash current.
type MakeUnmaker struct {
	pos   *Position
	hash  uint64
	stack []irreversible
}

// NewMakeUnmaker binds pos, which the MakeUnmaker mutates from now on.
func NewMakeUnmaker(pos *Position) *MakeUnmaker {
	mu := &MakeUnmaker{stack: make([]irreversible, 0, 128)}
	mu.Reset(pos)
	return mu
}

// Reset rebinds the MakeUnmaker to pos and drops any pending undo frames.
func (mu *MakeUnmaker) Reset(pos *Position) {
	mu.pos = pos
	mu.hash = pos.ComputeHash()
	mu.stack = mu.stack[:0]
}

func (mu *MakeUnmaker) Position() *Position { return mu.pos }
func (mu *MakeUnmaker) Hash() uint64        { return mu.hash }

// Depth returns the number of applied, not yet reverted moves.
func (mu *MakeUnmaker) Depth() int { return len(mu.stack) }

func (mu *MakeUnmaker) toggle(c Color, pt PieceType, sq Square) {
	mu.pos.Board[c][pt] ^= sq.Bitboard()
	mu.hash ^= zobristPiece[c][pt][sq]
}

// captureSquare returns where the piece taken by m stands. For en passant
// it is beside the origin, on the destination file.
func captureSquare(m Move) Square {
	if m.IsEnPassant() {
		return NewSquare(m.To().File(), m.From().Rank())
	}
	return m.To()
}

// Apply plays m, which must be pseudo-legal in the current position.
// The halfmove clock follows the FIDE fifty-move rule: pawn moves and
// captures reset it to zero, every other move increments it.
func (mu *MakeUnmaker) Apply(m Move) Undo {
	p := mu.pos
	us := p.Flags.SideToMove
	them := us.Other()
	from, to := m.From(), m.To()

	mu.stack = append(mu.stack, irreversible{
		halfMove:  p.HalfMove,
		fullMove:  p.FullMove,
		enPassant: p.EnPassant,
		flags:     p.Flags,
		captured:  NoPieceType,
	})
	frame := &mu.stack[len(mu.stack)-1]

	mu.hash ^= enPassantKey(p.EnPassant)
	p.EnPassant = 0
	resetClock := false

	if m.IsCastle() {
		c := castleFor(us, m.Code())
		mu.toggle(us, King, c.kingSq)
		mu.toggle(us, King, c.kingTo)
		mu.toggle(us, Rook, c.rookSq)
		mu.toggle(us, Rook, c.rookTo)
	} else {
		pt := p.Board[us].TypeAt(from)
		if pt == NoPieceType {
			panic(fmt.Sprintf("board: %s moves from empty square in %s", m, p.ToFEN()))
		}
		if m.IsCapture() {
			sq := captureSquare(m)
			captured := p.Board[them].TypeAt(sq)
			if captured == NoPieceType {
				panic(fmt.Sprintf("board: %s captures nothing in %s", m, p.ToFEN()))
			}
			mu.toggle(them, captured, sq)
			frame.captured = captured
			resetClock = true
		}
		mu.toggle(us, pt, from)
		placed := pt
		if m.IsPromotion() {
			placed = m.Promotion()
		}
		mu.toggle(us, placed, to)

		if pt == Pawn {
			resetClock = true
			if m.IsDoublePush() {
				p.EnPassant = NewSquare(from.File(), (from.Rank()+to.Rank())/2).Bitboard()
				mu.hash ^= enPassantKey(p.EnPassant)
			}
		}
	}

	if lost := p.Flags.Castling & (castlingLoss[from] | castlingLoss[to]); lost != 0 {
		p.Flags.Castling &^= lost
		mu.hash ^= castlingKey(lost)
	}

	p.Flags.ToggleSide()
	mu.hash ^= zobristSideToMove

	if resetClock {
		p.HalfMove = 0
	} else {
		p.HalfMove++
	}
	if us == Black {
		p.FullMove++
	}

	if DebugMoveValidation {
		if want := p.ComputeHash(); want != mu.hash {
			log.Printf("board: hash drift after %s: incremental %016x, computed %016x (%s)", m, mu.hash, want, p.ToFEN())
		}
	}
	return Undo{move: m, depth: len(mu.stack)}
}

// Revert takes back the move recorded in u. u must come from the most
// recent Apply that has not been reverted yet.
func (mu *MakeUnmaker) Revert(u Undo) {
	n := len(mu.stack)
	if n == 0 {
		panic("board: Revert with no applied move")
	}
	if u.depth != n {
		panic(fmt.Sprintf("board: Revert(%s) at depth %d, but depth %d is on top", u.move, u.depth, n))
	}
	frame := mu.stack[n-1]
	mu.stack = mu.stack[:n-1]

	p := mu.pos
	m := u.move
	us := frame.flags.SideToMove
	from, to := m.From(), m.To()

	if m.IsCastle() {
		c := castleFor(us, m.Code())
		mu.toggle(us, King, c.kingTo)
		mu.toggle(us, King, c.kingSq)
		mu.toggle(us, Rook, c.rookTo)
		mu.toggle(us, Rook, c.rookSq)
	} else {
		placed := p.Board[us].TypeAt(to)
		moved := placed
		if m.IsPromotion() {
			placed = m.Promotion()
			moved = Pawn
		}
		mu.toggle(us, placed, to)
		mu.toggle(us, moved, from)
		if m.IsCapture() {
			if frame.captured == NoPieceType {
				panic(fmt.Sprintf("board: Revert(%s) has no captured piece recorded", m))
			}
			mu.toggle(us.Other(), frame.captured, captureSquare(m))
		}
	}

	mu.hash ^= enPassantKey(p.EnPassant) ^ enPassantKey(frame.enPassant)
	mu.hash ^= flagsKey(p.Flags) ^ flagsKey(frame.flags)

	p.EnPassant = frame.enPassant
	p.Flags = frame.flags
	p.HalfMove = frame.halfMove
	p.FullMove = frame.fullMove
}
