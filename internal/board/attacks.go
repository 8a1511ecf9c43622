package board

// Direction names one of the eight ray directions. The first four move
// toward higher square indices.
type Direction uint8

const (
	North Direction = iota
	East
	NorthEast
	NorthWest
	South
	West
	SouthEast
	SouthWest
)

var (
	diagonals = [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
	straights = [4]Direction{North, East, South, West}
	allDirs   = [8]Direction{North, East, NorthEast, NorthWest, South, West, SouthEast, SouthWest}
)

// increasing reports whether stepping in d raises the square index.
func (d Direction) increasing() bool {
	return d < South
}

// nearest returns the square of b closest to the ray origin, or NoSquare.
func (d Direction) nearest(b Bitboard) Square {
	if d.increasing() {
		return b.First()
	}
	return b.Last()
}

type step struct {
	shift int
	// stop is the board edge at which a ray in this direction ends, or the
	// set of origin files from which a leaper offset would wrap.
	stop Bitboard
}

var raySteps = [8]step{
	North:     {8, Rank8},
	East:      {1, FileH},
	NorthEast: {9, FileH | Rank8},
	NorthWest: {7, FileA | Rank8},
	South:     {-8, Rank1},
	West:      {-1, FileA},
	SouthEast: {-7, FileH | Rank1},
	SouthWest: {-9, FileA | Rank1},
}

var (
	knightLeaps = []step{
		{17, FileH}, {15, FileA}, {10, FileH | FileG}, {6, FileA | FileB},
		{-6, FileH | FileG}, {-10, FileA | FileB}, {-15, FileH}, {-17, FileA},
	}
	kingLeaps = []step{
		{8, 0}, {-8, 0}, {1, FileH}, {-1, FileA},
		{9, FileH}, {7, FileA}, {-7, FileH}, {-9, FileA},
	}
	pawnPushLeaps   = [2][]step{{{8, Rank8}}, {{-8, Rank1}}}
	pawnDoubleLeaps = [2][]step{{{16, ^Rank2}}, {{-16, ^Rank7}}}
	pawnAttackLeaps = [2][]step{
		{{7, FileA | Rank8}, {9, FileH | Rank8}},
		{{-7, FileH | Rank1}, {-9, FileA | Rank1}},
	}
)

// Move maps, read-only after init.
var (
	knightMoves [64]Bitboard
	kingMoves   [64]Bitboard
	pawnPush    [2][64]Bitboard
	pawnDouble  [2][64]Bitboard
	pawnAttack  [2][64]Bitboard
	rays        [8][64]Bitboard
)

func init() {
	for sq := A1; sq <= H8; sq++ {
		knightMoves[sq] = leap(sq, knightLeaps)
		kingMoves[sq] = leap(sq, kingLeaps)
		for c := White; c <= Black; c++ {
			pawnPush[c][sq] = leap(sq, pawnPushLeaps[c])
			pawnDouble[c][sq] = leap(sq, pawnDoubleLeaps[c])
			pawnAttack[c][sq] = leap(sq, pawnAttackLeaps[c])
		}
		for _, d := range allDirs {
			rays[d][sq] = castRay(sq, raySteps[d])
		}
	}
}

func shift(b Bitboard, n int) Bitboard {
	if n >= 0 {
		return b << n
	}
	return b >> -n
}

func leap(sq Square, offsets []step) Bitboard {
	origin := sq.Bitboard()
	var out Bitboard
	for _, o := range offsets {
		if origin&o.stop == 0 {
			out |= shift(origin, o.shift)
		}
	}
	return out
}

func castRay(sq Square, s step) Bitboard {
	var ray Bitboard
	cur := sq.Bitboard()
	for cur&s.stop == 0 {
		cur = shift(cur, s.shift)
		ray |= cur
	}
	return ray
}

// KnightMoves returns the knight targets from sq on an empty board.
func KnightMoves(sq Square) Bitboard { return knightMoves[sq] }

// KingMoves returns the king targets from sq, castling excluded.
func KingMoves(sq Square) Bitboard { return kingMoves[sq] }

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttack[c][sq] }

// Ray returns the full ray from sq (exclusive) to the edge in direction d.
func Ray(d Direction, sq Square) Bitboard { return rays[d][sq] }

// rayAttacks returns the squares reachable along d up to and including the
// first occupied square.
func rayAttacks(d Direction, sq Square, occupied Bitboard) Bitboard {
	ray := rays[d][sq]
	blocker := d.nearest(ray & occupied)
	if blocker == NoSquare {
		return ray
	}
	return ray &^ rays[d][blocker]
}

// BishopAttacks and RookAttacks include the first blocker on each ray
// regardless of its color.
func BishopAttacks(sq Square, occupied Bitboard) Bitboard {
	var out Bitboard
	for _, d := range diagonals {
		out |= rayAttacks(d, sq, occupied)
	}
	return out
}

func RookAttacks(sq Square, occupied Bitboard) Bitboard {
	var out Bitboard
	for _, d := range straights {
		out |= rayAttacks(d, sq, occupied)
	}
	return out
}
