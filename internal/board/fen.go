package board

import (
	"strconv"
	"strings"
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses Forsyth-Edwards Notation. The halfmove clock and fullmove
// number are optional. Errors are *FENError values wrapping ErrInvalidFEN.
func ParseFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, &FENError{Field: "record", Value: fen, Reason: "want 4 to 6 space-separated fields"}
	}

	pos := &Position{FullMove: 1}
	if err := parsePlacement(pos, fields[0]); err != nil {
		return nil, err
	}

	switch fields[1] {
	case "w":
		pos.Flags.SideToMove = White
	case "b":
		pos.Flags.SideToMove = Black
	default:
		return nil, &FENError{Field: "active color", Value: fields[1], Reason: `want "w" or "b"`}
	}

	if fields[2] != "-" {
		for i := 0; i < len(fields[2]); i++ {
			idx := strings.IndexByte("KQkq", fields[2][i])
			if idx < 0 {
				return nil, &FENError{Field: "castling", Value: fields[2], Reason: "unexpected character"}
			}
			pos.Flags.Castling |= castlingRightList[idx]
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, &FENError{Field: "en passant", Value: fields[3], Reason: "want a square or \"-\""}
		}
		if reason := pos.enPassantProblem(sq); reason != "" {
			return nil, &FENError{Field: "en passant", Value: fields[3], Reason: reason}
		}
		pos.EnPassant = sq.Bitboard()
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil || n < 0 {
			return nil, &FENError{Field: "halfmove clock", Value: fields[4], Reason: "want a non-negative integer"}
		}
		pos.HalfMove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil || n < 1 {
			return nil, &FENError{Field: "fullmove number", Value: fields[5], Reason: "want a positive integer"}
		}
		pos.FullMove = n
	}

	if err := pos.Validate(); err != nil {
		return nil, &FENError{Field: "placement", Value: fields[0], Reason: err.Error()}
	}
	return pos, nil
}

// enPassantProblem describes why sq cannot be the en passant target of p,
// or returns "" if it can. The target must lie directly behind a pawn of the
// side that just moved and be empty.
func (p *Position) enPassantProblem(sq Square) string {
	us := p.Flags.SideToMove
	rank, pawn := 5, sq-8
	if us == Black {
		rank, pawn = 2, sq+8
	}
	switch {
	case sq.Rank() != rank:
		return "want a square on rank " + strconv.Itoa(rank+1) + " with " + us.String() + " to move"
	case p.PieceAt(sq) != NoPiece:
		return "target square is occupied"
	case p.PieceAt(pawn) != NewPiece(Pawn, us.Other()):
		return "no " + us.Other().String() + " pawn on " + pawn.String()
	}
	return ""
}

func parsePlacement(pos *Position, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return &FENError{Field: "placement", Value: placement, Reason: "want 8 ranks"}
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			c := row[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return &FENError{Field: "placement", Value: placement, Reason: "unknown piece " + strconv.QuoteRune(rune(c))}
			}
			if file > 7 {
				return &FENError{Field: "placement", Value: placement, Reason: "rank " + strconv.Itoa(rank+1) + " has more than 8 squares"}
			}
			pos.put(piece.Color(), piece.Type(), NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return &FENError{Field: "placement", Value: placement, Reason: "rank " + strconv.Itoa(rank+1) + " does not have 8 squares"}
		}
	}
	return nil
}

// ToFEN serialises p, including the halfmove and fullmove fields.
func (p *Position) ToFEN() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	side := "w"
	if p.Flags.SideToMove == Black {
		side = "b"
	}
	return strings.Join([]string{
		sb.String(),
		side,
		p.Flags.Castling.String(),
		p.EnPassantSquare().String(),
		strconv.Itoa(p.HalfMove),
		strconv.Itoa(p.FullMove),
	}, " ")
}
