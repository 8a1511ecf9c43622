package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastlingRights is the set of castling moves still available.
type CastlingRights uint8

const (
	WhiteKingSide CastlingRights = 1 << iota
	WhiteQueenSide
	BlackKingSide
	BlackQueenSide

	NoCastling  CastlingRights = 0
	AllCastling                = WhiteKingSide | WhiteQueenSide | BlackKingSide | BlackQueenSide
)

// castlingRightList orders the individual rights as the Zobrist table does.
var castlingRightList = [4]CastlingRights{WhiteKingSide, WhiteQueenSide, BlackKingSide, BlackQueenSide}

// String returns the FEN castling field.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, r := range castlingRightList {
		if cr&r != 0 {
			sb.WriteByte("KQkq"[i])
		}
	}
	return sb.String()
}

// StateFlags is the mutable metadata of a position besides piece placement
// and en passant.
type StateFlags struct {
	SideToMove Color
	Castling   CastlingRights
}

// Has reports whether every right in r is held.
func (f StateFlags) Has(r CastlingRights) bool {
	return f.Castling&r == r
}

// ToggleSide passes the move to the other color.
func (f *StateFlags) ToggleSide() {
	f.SideToMove = f.SideToMove.Other()
}

// PieceSet holds one side's pieces, one bitboard per PieceType.
type PieceSet [6]Bitboard

// All returns the union of the six boards.
func (ps *PieceSet) All() Bitboard {
	return ps[Pawn] | ps[Knight] | ps[Bishop] | ps[Rook] | ps[Queen] | ps[King]
}

// TypeAt returns the type of the piece on sq, or NoPieceType.
func (ps *PieceSet) TypeAt(sq Square) PieceType {
	bb := sq.Bitboard()
	for pt := Pawn; pt <= King; pt++ {
		if ps[pt]&bb != 0 {
			return pt
		}
	}
	return NoPieceType
}

// ChessBoard holds both sides, indexed by Color.
type ChessBoard [2]PieceSet

// Position is a complete game state. It is a plain value: copying it copies
// the whole position.
type Position struct {
	Board ChessBoard
	// EnPassant holds the square passed over by the last double push, if any.
	EnPassant Bitboard
	Flags     StateFlags
	HalfMove  int
	FullMove  int
}

// NewPosition returns the standard starting position.
func NewPosition() *Position {
	pos, err := ParseFEN(StartFEN)
	if err != nil {
		panic(err)
	}
	return pos
}

// SideToMove is shorthand for p.Flags.SideToMove.
func (p *Position) SideToMove() Color {
	return p.Flags.SideToMove
}

// Occupancy returns every square held by color c.
func (p *Position) Occupancy(c Color) Bitboard {
	return p.Board[c].All()
}

// AllOccupancy returns every occupied square.
func (p *Position) AllOccupancy() Bitboard {
	return p.Board[White].All() | p.Board[Black].All()
}

// KingSquare returns the square of c's king, or NoSquare.
func (p *Position) KingSquare(c Color) Square {
	return p.Board[c][King].First()
}

// PieceAt returns the piece on sq, or NoPiece.
func (p *Position) PieceAt(sq Square) Piece {
	for c := White; c <= Black; c++ {
		if pt := p.Board[c].TypeAt(sq); pt != NoPieceType {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// EnPassantSquare returns the en passant target, or NoSquare.
func (p *Position) EnPassantSquare() Square {
	return p.EnPassant.First()
}

func (p *Position) put(c Color, pt PieceType, sq Square) {
	p.Board[c][pt] |= sq.Bitboard()
}

// String draws the board followed by the remaining FEN fields.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(p.PieceAt(NewSquare(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", p.Flags.SideToMove)
	fmt.Fprintf(&sb, "Castling: %s\n", p.Flags.Castling)
	fmt.Fprintf(&sb, "En passant: %s\n", p.EnPassantSquare())
	fmt.Fprintf(&sb, "Half-move clock: %d\n", p.HalfMove)
	fmt.Fprintf(&sb, "Full move: %d\n", p.FullMove)
	fmt.Fprintf(&sb, "Hash: %016x\n", p.ComputeHash())
	return sb.String()
}

// Validate checks the structural invariants move generation relies on,
// including that the side to move cannot capture the enemy king.
func (p *Position) Validate() error {
	var errs []error
	for c := White; c <= Black; c++ {
		if n := p.Board[c][King].Count(); n != 1 {
			errs = append(errs, fmt.Errorf("%s has %d kings", c, n))
		}
		seen := Bitboard(0)
		for pt := Pawn; pt <= King; pt++ {
			if seen&p.Board[c][pt] != 0 {
				errs = append(errs, fmt.Errorf("%s %s overlaps another %s piece", c, pt, c))
			}
			seen |= p.Board[c][pt]
		}
	}
	if p.Occupancy(White)&p.Occupancy(Black) != 0 {
		errs = append(errs, errors.New("white and black pieces overlap"))
	}
	if (p.Board[White][Pawn]|p.Board[Black][Pawn])&(Rank1|Rank8) != 0 {
		errs = append(errs, errors.New("pawn on first or last rank"))
	}
	if p.EnPassant.Count() > 1 {
		errs = append(errs, errors.New("more than one en passant square"))
	}
	if len(errs) == 0 {
		us := p.Flags.SideToMove
		if p.IsSquareAttacked(p.KingSquare(us.Other()), us) {
			errs = append(errs, fmt.Errorf("%s is to move but %s is in check", us, us.Other()))
		}
	}
	return errors.Join(errs...)
}
