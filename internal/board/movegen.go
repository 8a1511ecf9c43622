package board

// castle describes one of the four castling moves.
type castle struct {
	right   CastlingRights
	color   Color
	code    MoveCode
	kingSq  Square
	kingTo  Square
	rookSq  Square
	rookTo  Square
	between Bitboard  // must be empty
	safe    [2]Square // king square and the square it crosses
}

var castles = [4]castle{
	{WhiteKingSide, White, KingCastle, E1, G1, H1, F1, F1.Bitboard() | G1.Bitboard(), [2]Square{E1, F1}},
	{WhiteQueenSide, White, QueenCastle, E1, C1, A1, D1, B1.Bitboard() | C1.Bitboard() | D1.Bitboard(), [2]Square{E1, D1}},
	{BlackKingSide, Black, KingCastle, E8, G8, H8, F8, F8.Bitboard() | G8.Bitboard(), [2]Square{E8, F8}},
	{BlackQueenSide, Black, QueenCastle, E8, C8, A8, D8, B8.Bitboard() | C8.Bitboard() | D8.Bitboard(), [2]Square{E8, D8}},
}

func castleFor(c Color, code MoveCode) *castle {
	i := int(c) * 2
	if code == QueenCastle {
		i++
	}
	return &castles[i]
}

// castlingLoss maps a square to the rights lost when a piece leaves or
// arrives on it.
var castlingLoss [64]CastlingRights

func init() {
	for _, c := range castles {
		castlingLoss[c.kingSq] |= c.right
		castlingLoss[c.rookSq] |= c.right
	}
}

// GeneratePseudoLegalMoves appends every pseudo-legal move of the side to
// move to the innermost open ply of ml.
func (p *Position) GeneratePseudoLegalMoves(ml *MoveList) {
	us := p.Flags.SideToMove
	own := p.Occupancy(us)
	enemy := p.Occupancy(us.Other())
	pieces := &p.Board[us]

	p.generatePawnMoves(ml, us, own|enemy, enemy)

	for bb := pieces[Knight]; bb != 0; {
		from := bb.PopFirst()
		addTargets(ml, from, knightMoves[from]&^own, enemy)
	}
	for bb := pieces[Bishop]; bb != 0; {
		addSlides(ml, bb.PopFirst(), diagonals[:], own, enemy)
	}
	for bb := pieces[Rook]; bb != 0; {
		addSlides(ml, bb.PopFirst(), straights[:], own, enemy)
	}
	for bb := pieces[Queen]; bb != 0; {
		addSlides(ml, bb.PopFirst(), allDirs[:], own, enemy)
	}
	for bb := pieces[King]; bb != 0; {
		from := bb.PopFirst()
		addTargets(ml, from, kingMoves[from]&^own, enemy)
	}

	p.generateCastles(ml, us, own|enemy)
}

// addTargets emits a capture for every enemy square in targets and a quiet
// move for every other one.
func addTargets(ml *MoveList, from Square, targets, enemy Bitboard) {
	for t := targets & enemy; t != 0; {
		ml.Add(NewMove(from, t.PopFirst(), Capture))
	}
	for t := targets &^ enemy; t != 0; {
		ml.Add(NewMove(from, t.PopFirst(), QuietMove))
	}
}

// addSlides walks each ray up to its first occupied square. That square is
// a capture if it holds an enemy piece.
func addSlides(ml *MoveList, from Square, dirs []Direction, own, enemy Bitboard) {
	occupied := own | enemy
	for _, d := range dirs {
		attacks := rayAttacks(d, from, occupied)
		addTargets(ml, from, attacks&^occupied, 0)
		if hit := attacks & enemy; hit != 0 {
			ml.Add(NewMove(from, hit.First(), Capture))
		}
	}
}

var promotionCodes = [2][4]MoveCode{
	{QueenPromotion, KnightPromotion, RookPromotion, BishopPromotion},
	{QueenPromotionCapture, KnightPromotionCapture, RookPromotionCapture, BishopPromotionCapture},
}

func addPromotions(ml *MoveList, from, to Square, capture bool) {
	i := 0
	if capture {
		i = 1
	}
	for _, code := range promotionCodes[i] {
		ml.Add(NewMove(from, to, code))
	}
}

func (p *Position) generatePawnMoves(ml *MoveList, us Color, occupied, enemy Bitboard) {
	lastRank := Rank8
	if us == Black {
		lastRank = Rank1
	}
	ep := p.EnPassant

	for pawns := p.Board[us][Pawn]; pawns != 0; {
		from := pawns.PopFirst()

		if push := pawnPush[us][from] &^ occupied; push != 0 {
			to := push.First()
			if lastRank.Has(to) {
				addPromotions(ml, from, to, false)
			} else {
				ml.Add(NewMove(from, to, QuietMove))
				if double := pawnDouble[us][from] &^ occupied; double != 0 {
					ml.Add(NewMove(from, double.First(), DoublePawnPush))
				}
			}
		}

		attacks := pawnAttack[us][from]
		for t := attacks & enemy; t != 0; {
			to := t.PopFirst()
			if lastRank.Has(to) {
				addPromotions(ml, from, to, true)
			} else {
				ml.Add(NewMove(from, to, Capture))
			}
		}
		if attacks&ep&^enemy != 0 {
			ml.Add(NewMove(from, ep.First(), EnPassant))
		}
	}
}

func (p *Position) generateCastles(ml *MoveList, us Color, occupied Bitboard) {
	them := us.Other()
	for i := range castles {
		c := &castles[i]
		if c.color != us || !p.Flags.Has(c.right) {
			continue
		}
		if !p.Board[us][King].Has(c.kingSq) || !p.Board[us][Rook].Has(c.rookSq) {
			continue
		}
		if occupied&c.between != 0 {
			continue
		}
		if p.IsSquareAttacked(c.safe[0], them) || p.IsSquareAttacked(c.safe[1], them) {
			continue
		}
		ml.Add(NewMove(c.kingSq, c.kingTo, c.code))
	}
}

// IsSquareAttacked reports whether any piece of color by attacks sq. Each
// attacker type is tested by looking outward from sq as that piece would:
// a slider attacks sq when it is the nearest occupied square on a ray.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	atk := &p.Board[by]
	if pawnAttack[by.Other()][sq]&atk[Pawn] != 0 ||
		knightMoves[sq]&atk[Knight] != 0 ||
		kingMoves[sq]&atk[King] != 0 {
		return true
	}

	occupied := p.AllOccupancy()
	if diag := atk[Bishop] | atk[Queen]; diag != 0 && BishopAttacks(sq, occupied)&diag != 0 {
		return true
	}
	straight := atk[Rook] | atk[Queen]
	return straight != 0 && RookAttacks(sq, occupied)&straight != 0
}

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool {
	us := p.Flags.SideToMove
	king := p.KingSquare(us)
	return king != NoSquare && p.IsSquareAttacked(king, us.Other())
}

// WasMoveLegal reports whether the side that just moved left its own king
// safe. Call it right after MakeUnmaker.Apply.
func (p *Position) WasMoveLegal() bool {
	mover := p.Flags.SideToMove.Other()
	king := p.KingSquare(mover)
	return king == NoSquare || !p.IsSquareAttacked(king, p.Flags.SideToMove)
}

// LegalMoves returns the legal moves of the side to move in generation
// order. It works on a copy and leaves p untouched.
func (p *Position) LegalMoves() []Move {
	var legal []Move
	p.eachLegal(NewMoveList(256), func(m Move) bool {
		legal = append(legal, m)
		return true
	})
	return legal
}

// HasLegalMove reports whether the side to move has at least one legal
// move. ml is scratch space and may be nil.
func (p *Position) HasLegalMove(ml *MoveList) bool {
	if ml == nil {
		ml = NewMoveList(256)
	}
	found := false
	p.eachLegal(ml, func(Move) bool {
		found = true
		return false
	})
	return found
}

// IsCheckmate reports whether the side to move is checkmated.
func (p *Position) IsCheckmate() bool {
	return p.IsCheck() && !p.HasLegalMove(nil)
}

// IsStalemate reports whether the side to move has no legal move and is
// not in check.
func (p *Position) IsStalemate() bool {
	return !p.IsCheck() && !p.HasLegalMove(nil)
}

// eachLegal calls fn for every legal move until fn returns false.
func (p *Position) eachLegal(ml *MoveList, fn func(Move) bool) {
	scratch := *p
	mu := &MakeUnmaker{pos: &scratch}
	ply := ml.BeginPly()
	defer ml.EndPly(ply)

	scratch.GeneratePseudoLegalMoves(ml)
	for i := 0; i < ml.Len(ply); i++ {
		m := ml.At(ply, i)
		u := mu.Apply(m)
		ok := scratch.WasMoveLegal()
		mu.Revert(u)
		if ok && !fn(m) {
			return
		}
	}
}
