package board

import "testing"

func TestLeaperMaps(t *testing.T) {
	tests := []struct {
		name string
		got  Bitboard
		want []Square
	}{
		{"knight a1", KnightMoves(A1), []Square{C2, B3}},
		{"knight h8", KnightMoves(H8), []Square{F7, G6}},
		{"knight g1", KnightMoves(G1), []Square{E2, F3, H3}},
		{"king a1", KingMoves(A1), []Square{B1, A2, B2}},
		{"king e4", KingMoves(E4), []Square{D3, E3, F3, D4, F4, D5, E5, F5}},
		{"white pawn a2", PawnAttacks(White, A2), []Square{B3}},
		{"black pawn h7", PawnAttacks(Black, H7), []Square{G6}},
		{"white double e2", pawnDouble[White][E2], []Square{E4}},
		{"white double e3", pawnDouble[White][E3], nil},
		{"black double d7", pawnDouble[Black][D7], []Square{D5}},
	}
	for _, tc := range tests {
		var want Bitboard
		for _, sq := range tc.want {
			want = want.With(sq)
		}
		if tc.got != want {
			t.Errorf("%s:\n%swant\n%s", tc.name, tc.got, want)
		}
	}
}

func TestRays(t *testing.T) {
	if got := Ray(North, E4).Count(); got != 4 {
		t.Errorf("north ray from e4 has %d squares, want 4", got)
	}
	if got := Ray(SouthWest, C3); got != A1.Bitboard()|B2.Bitboard() {
		t.Errorf("south-west ray from c3:\n%s", got)
	}
	if Ray(East, H4) != 0 || Ray(West, A4) != 0 {
		t.Error("horizontal rays wrap around the board edge")
	}
	if got := RookAttacks(A1, B1.Bitboard()|A3.Bitboard()); got != B1.Bitboard()|A2.Bitboard()|A3.Bitboard() {
		t.Errorf("blocked rook attacks:\n%s", got)
	}
	if got := (BishopAttacks(D4, 0) | RookAttacks(D4, 0)).Count(); got != 27 {
		t.Errorf("queen on empty d4 attacks %d squares, want 27", got)
	}
}
