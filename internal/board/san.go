package board

import (
	"fmt"
	"strings"
)

const pieceLetters = "PNBRQK"

// ToSAN converts a legal move in pos to Standard Algebraic Notation.
func (m Move) ToSAN(pos *Position) string {
	if m == NoMove {
		return "-"
	}
	return m.san(pos, pos.LegalMoves())
}

func (m Move) san(pos *Position, legal []Move) string {
	from, to := m.From(), m.To()
	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return m.String()
	}

	var sb strings.Builder

	switch m.Code() {
	case KingCastle:
		sb.WriteString("O-O")
	case QueenCastle:
		sb.WriteString("O-O-O")
	default:
		pt := piece.Type()
		if pt != Pawn {
			sb.WriteByte(pieceLetters[pt])
			sb.WriteString(disambiguation(pos, m, pt, legal))
		}
		if m.IsCapture() {
			if pt == Pawn {
				sb.WriteByte('a' + byte(from.File()))
			}
			sb.WriteByte('x')
		}
		sb.WriteString(to.String())
		if m.IsPromotion() {
			sb.WriteByte('=')
			sb.WriteByte(pieceLetters[m.Promotion()])
		}
	}

	after := *pos
	NewMakeUnmaker(&after).Apply(m)
	if after.IsCheckmate() {
		sb.WriteByte('#')
	} else if after.IsCheck() {
		sb.WriteByte('+')
	}

	return sb.String()
}

// disambiguation returns the origin file, rank or square needed to tell m
// apart from other legal moves of the same piece type to the same square.
func disambiguation(pos *Position, m Move, pt PieceType, legal []Move) string {
	from := m.From()
	pieces := pos.Board[pos.SideToMove()][pt]

	ambiguous, sameFile, sameRank := false, false, false
	for _, other := range legal {
		if other.To() != m.To() || other.From() == from || !pieces.Has(other.From()) {
			continue
		}
		ambiguous = true
		sameFile = sameFile || other.From().File() == from.File()
		sameRank = sameRank || other.From().Rank() == from.Rank()
	}

	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return string(rune('a' + from.File()))
	case !sameRank:
		return string(rune('1' + from.Rank()))
	}
	return from.String()
}

// ParseSAN parses a SAN string and returns the matching legal move in pos.
func ParseSAN(s string, pos *Position) (Move, error) {
	orig := s
	s = strings.TrimRight(strings.TrimSpace(s), "+#!?")
	legal := pos.LegalMoves()

	// Handle castling
	var castle MoveCode
	switch s {
	case "O-O", "0-0":
		castle = KingCastle
	case "O-O-O", "0-0-0":
		castle = QueenCastle
	}
	if castle != QuietMove {
		for _, m := range legal {
			if m.Code() == castle {
				return m, nil
			}
		}
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}

	promo := NoPieceType
	if idx := strings.IndexByte(s, '='); idx >= 0 && idx+1 < len(s) {
		promo = PieceFromChar(s[idx+1]).Type()
		s = s[:idx]
	}

	isCapture := strings.Contains(s, "x")
	s = strings.ReplaceAll(s, "x", "")

	pt := Pawn
	if len(s) > 0 && strings.IndexByte(pieceLetters[1:], s[0]) >= 0 {
		pt = PieceType(strings.IndexByte(pieceLetters, s[0]))
		s = s[1:]
	}

	if len(s) < 2 {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	dest, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
	}
	s = s[:len(s)-2]

	file, rank := -1, -1
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'h':
			file = int(c - 'a')
		case c >= '1' && c <= '8':
			rank = int(c - '1')
		}
	}

	for _, m := range legal {
		from := m.From()
		switch {
		case m.To() != dest,
			pos.PieceAt(from).Type() != pt,
			file >= 0 && from.File() != file,
			rank >= 0 && from.Rank() != rank,
			isCapture != m.IsCapture() && (isCapture || pt == Pawn),
			m.IsPromotion() != (promo != NoPieceType),
			m.IsPromotion() && m.Promotion() != promo:
			continue
		}
		return m, nil
	}

	return NoMove, fmt.Errorf("%w: %q", ErrInvalidMove, orig)
}

// MovesToSAN converts a line of moves played from pos to SAN. pos is not
// modified.
func MovesToSAN(pos *Position, moves []Move) []string {
	result := make([]string, len(moves))
	p := *pos
	mu := NewMakeUnmaker(&p)

	for i, m := range moves {
		result[i] = m.san(&p, p.LegalMoves())
		mu.Apply(m)
	}

	return result
}
