package board

// Zobrist keys, filled once by init from a fixed seed so hashes are stable
// across runs.
var (
	zobristPiece      [2][6][64]uint64
	zobristCastling   [4]uint64 // one per right, in castlingRightList order
	zobristEnPassant  [8]uint64 // one per file
	zobristSideToMove uint64    // present when black is to move
)

func init() {
	rng := xorshift(0x98F107A2BEEF1234)
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	for f := range zobristEnPassant {
		zobristEnPassant[f] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// xorshift is an xorshift64* generator.
type xorshift uint64

func (x *xorshift) next() uint64 {
	s := uint64(*x)
	s ^= s >> 12
	s ^= s << 25
	s ^= s >> 27
	*x = xorshift(s)
	return s * 0x2545F4914F6CDD1D
}

// castlingKey XORs together the keys of every right in cr.
func castlingKey(cr CastlingRights) uint64 {
	var h uint64
	for i, r := range castlingRightList {
		if cr&r != 0 {
			h ^= zobristCastling[i]
		}
	}
	return h
}

// enPassantKey returns the key of the en passant file in ep, or 0.
func enPassantKey(ep Bitboard) uint64 {
	if ep == 0 {
		return 0
	}
	return zobristEnPassant[ep.First().File()]
}

func flagsKey(f StateFlags) uint64 {
	h := castlingKey(f.Castling)
	if f.SideToMove == Black {
		h ^= zobristSideToMove
	}
	return h
}

// ComputeHash computes the Zobrist hash of p from scratch.
func (p *Position) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := p.Board[c][pt]; bb != 0; {
				h ^= zobristPiece[c][pt][bb.PopFirst()]
			}
		}
	}
	return h ^ flagsKey(p.Flags) ^ enPassantKey(p.EnPassant)
}
