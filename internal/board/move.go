package board

import (
	"fmt"
	"strings"
)

// MoveCode is the special-move tag stored in the top four bits of a Move.
type MoveCode uint8

const (
	QuietMove MoveCode = iota
	DoublePawnPush
	KingCastle
	QueenCastle
	Capture
	EnPassant
	KnightPromotion
	BishopPromotion
	RookPromotion
	QueenPromotion
	KnightPromotionCapture
	BishopPromotionCapture
	RookPromotionCapture
	QueenPromotionCapture
)

// Move packs a ply into 16 bits:
//
//	bits 0-5   origin square
//	bits 6-11  destination square
//	bits 12-15 MoveCode
type Move uint16

// NoMove is the zero Move. It never occurs as a generated move since its
// origin and destination coincide.
const NoMove Move = 0

// NewMove encodes a move.
func NewMove(from, to Square, code MoveCode) Move {
	return Move(from) | Move(to)<<6 | Move(code)<<12
}

func (m Move) From() Square   { return Square(m & 0x3F) }
func (m Move) To() Square     { return Square(m >> 6 & 0x3F) }
func (m Move) Code() MoveCode { return MoveCode(m >> 12) }

// IsCapture covers plain captures, en passant and promotion-captures.
func (m Move) IsCapture() bool {
	c := m.Code()
	return c == Capture || c == EnPassant || c >= KnightPromotionCapture
}

func (m Move) IsPromotion() bool {
	return m.Code() >= KnightPromotion
}

func (m Move) IsCastle() bool {
	c := m.Code()
	return c == KingCastle || c == QueenCastle
}

func (m Move) IsEnPassant() bool  { return m.Code() == EnPassant }
func (m Move) IsDoublePush() bool { return m.Code() == DoublePawnPush }

// IsQuiet reports a non-capturing, non-promoting, non-castling move.
// Castles count as non-quiet for move ordering.
func (m Move) IsQuiet() bool {
	c := m.Code()
	return c == QuietMove || c == DoublePawnPush
}

// Promotion returns the piece a pawn promotes to. It panics when m is not a
// promotion.
func (m Move) Promotion() PieceType {
	switch m.Code() {
	case KnightPromotion, KnightPromotionCapture:
		return Knight
	case BishopPromotion, BishopPromotionCapture:
		return Bishop
	case RookPromotion, RookPromotionCapture:
		return Rook
	case QueenPromotion, QueenPromotionCapture:
		return Queen
	}
	panic(fmt.Sprintf("board: move %04x has no promotion piece (code %d)", uint16(m), m.Code()))
}

// String formats the move in long algebraic notation, e.g. "e2e4" or "a7b8q".
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(m.Promotion().char())
	}
	return s
}

// Matches reports whether s names this move. The promotion letter is
// compared case-insensitively.
func (m Move) Matches(s string) bool {
	return strings.EqualFold(m.String(), strings.TrimSpace(s))
}

func (pt PieceType) char() byte {
	return "pnbrqk"[pt]
}

// ParseMove resolves long algebraic notation against the legal moves of pos.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	for _, m := range pos.LegalMoves() {
		if m.Matches(s) {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%w: %q is not legal in %s", ErrInvalidMove, s, pos.ToFEN())
}
