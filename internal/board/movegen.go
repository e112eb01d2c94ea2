package board

var (
	promotionOrder = [4]PieceType{Queen, Knight, Rook, Bishop}

	// squares that must be empty / must not be attacked for each castle
	castleEmpty = [...]Bitboard{
		CastleWhiteKing:  SquareBB(F1) | SquareBB(G1),
		CastleWhiteQueen: SquareBB(B1) | SquareBB(C1) | SquareBB(D1),
		CastleBlackKing:  SquareBB(F8) | SquareBB(G8),
		CastleBlackQueen: SquareBB(B8) | SquareBB(C8) | SquareBB(D8),
	}
	castleSafe = [...][3]Square{
		CastleWhiteKing:  {E1, F1, G1},
		CastleWhiteQueen: {E1, D1, C1},
		CastleBlackKing:  {E8, F8, G8},
		CastleBlackQueen: {E8, D8, C8},
	}
)

// AttacksTo returns the pieces of color by that attack sq. Every piece type
// is traced backward from the target: a pawn of by attacks sq exactly when a
// pawn of the other color on sq would attack it.
func (p *Position) AttacksTo(sq Square, by Color) Bitboard {
	occ := p.AllOccupied
	pc := &p.Pieces[by]

	queens := pc[Queen]
	return pawnAttacks[by.Other()][sq]&pc[Pawn] |
		knightAttacks[sq]&pc[Knight] |
		BishopAttacks(sq, occ)&(pc[Bishop]|queens) |
		RookAttacks(sq, occ)&(pc[Rook]|queens) |
		kingAttacks[sq]&pc[King]
}

// IsSquareAttacked reports whether any piece of color by attacks sq.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	return p.AttacksTo(sq, by) != 0
}

// KingAttacked reports whether the king of color c is attacked.
func (p *Position) KingAttacked(c Color) bool {
	ksq := p.KingSquare(c)
	if ksq == NoSquare {
		return false
	}
	return p.IsSquareAttacked(ksq, c.Other())
}

// InCheck reports whether the side to move is in check.
func (p *Position) InCheck() bool {
	return p.KingAttacked(p.SideToMove)
}

// LeftInCheck reports whether the side that just moved left its own king
// attacked, i.e. the last move was illegal.
func (p *Position) LeftInCheck() bool {
	return p.KingAttacked(p.SideToMove.Other())
}

// GenerateMoves appends all pseudo-legal moves: captures first, then quiets.
func GenerateMoves(p *Position, ml *MoveList) {
	GenerateCaptures(p, ml)
	GenerateQuiets(p, ml)
}

// GenerateCaptures appends captures, en-passant captures and all promotions.
func GenerateCaptures(p *Position, ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]

	p.pawnCaptures(ml, enemies)

	targets := enemies
	for pt := Knight; pt <= Queen; pt++ {
		p.pieceMoves(ml, pt, targets)
	}
	p.kingMoves(ml, targets)
}

// GenerateQuiets appends non-capturing, non-promoting moves including castles.
func GenerateQuiets(p *Position, ml *MoveList) {
	empty := ^p.AllOccupied

	p.pawnPushes(ml, empty)
	for pt := Knight; pt <= Queen; pt++ {
		p.pieceMoves(ml, pt, empty)
	}
	p.kingMoves(ml, empty)
	p.castles(ml)
}

// GenerateLegalMoves filters pseudo-legal moves by make / check test / unmake.
func GenerateLegalMoves(p *Position) MoveList {
	var pseudo, legal MoveList
	GenerateMoves(p, &pseudo)
	for _, m := range pseudo.Slice() {
		p.MakeNoHash(m)
		if !p.LeftInCheck() {
			legal.Add(m)
		}
		p.UnmakeNoHash(m)
	}
	return legal
}

// pieceMoves adds knight and slider moves of type pt landing on targets.
func (p *Position) pieceMoves(ml *MoveList, pt PieceType, targets Bitboard) {
	us := p.SideToMove
	piece := NewPiece(pt, us)
	occ := p.AllOccupied

	pieces := p.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()

		var attacks Bitboard
		switch pt {
		case Knight:
			attacks = knightAttacks[from]
		case Bishop:
			attacks = BishopAttacks(from, occ)
		case Rook:
			attacks = RookAttacks(from, occ)
		case Queen:
			attacks = QueenAttacks(from, occ)
		}

		attacks &= targets
		for attacks != 0 {
			to := attacks.PopLSB()
			p.addMove(ml, from, to, piece)
		}
	}
}

// kingMoves adds king moves to targets that the enemy does not attack.
func (p *Position) kingMoves(ml *MoveList, targets Bitboard) {
	us := p.SideToMove
	from := p.KingSquare(us)
	if from == NoSquare {
		return
	}

	attacks := kingAttacks[from] & targets
	for attacks != 0 {
		to := attacks.PopLSB()
		if p.IsSquareAttacked(to, us.Other()) {
			continue
		}
		p.addMove(ml, from, to, NewPiece(King, us))
	}
}

// addMove adds a quiet move or a capture depending on what stands on to.
func (p *Position) addMove(ml *MoveList, from, to Square, piece Piece) {
	captured := p.PieceAt(to)
	if captured == NoPiece {
		ml.Add(p.newMove(from, to, piece, Quiet, NoPiece, NoPiece))
	} else {
		ml.Add(p.newMove(from, to, piece, Capture, captured, NoPiece))
	}
}

func (p *Position) pawnPushes(ml *MoveList, empty Bitboard) {
	us := p.SideToMove
	pawn := NewPiece(Pawn, us)
	pawns := p.Pieces[us][Pawn]

	var single, double Bitboard
	var back int
	if us == White {
		single = pawns.North() & empty &^ Rank8
		double = (single & Rank3).North() & empty
		back = -8
	} else {
		single = pawns.South() & empty &^ Rank1
		double = (single & Rank6).South() & empty
		back = 8
	}

	for single != 0 {
		to := single.PopLSB()
		ml.Add(p.newMove(Square(int(to)+back), to, pawn, Quiet, NoPiece, NoPiece))
	}
	for double != 0 {
		to := double.PopLSB()
		ml.Add(p.newMove(Square(int(to)+2*back), to, pawn, DoublePush, NoPiece, NoPiece))
	}
}

// pawnCaptures adds diagonal captures, en passant and every promotion,
// including quiet push promotions.
func (p *Position) pawnCaptures(ml *MoveList, enemies Bitboard) {
	us := p.SideToMove
	pawn := NewPiece(Pawn, us)
	promoRank := Rank8
	back := -8
	if us == Black {
		promoRank = Rank1
		back = 8
	}

	pawns := p.Pieces[us][Pawn]
	for pawns != 0 {
		from := pawns.PopLSB()

		attacks := pawnAttacks[us][from] & enemies
		for attacks != 0 {
			to := attacks.PopLSB()
			captured := p.PieceAt(to)
			if promoRank.IsSet(to) {
				for _, pt := range promotionOrder {
					ml.Add(p.newMove(from, to, pawn, PromotionCapture, captured, NewPiece(pt, us)))
				}
			} else {
				ml.Add(p.newMove(from, to, pawn, Capture, captured, NoPiece))
			}
		}

		if p.EnPassant != NoSquare && pawnAttacks[us][from].IsSet(p.EnPassant) {
			ml.Add(p.newMove(from, p.EnPassant, pawn, EnPassantCapture, NewPiece(Pawn, us.Other()), NoPiece))
		}

		to := Square(int(from) - back)
		if promoRank.IsSet(to) && !p.AllOccupied.IsSet(to) {
			for _, pt := range promotionOrder {
				ml.Add(p.newMove(from, to, pawn, Promotion, NoPiece, NewPiece(pt, us)))
			}
		}
	}
}

// castles adds each castle whose right is held, whose corridor is empty and
// whose king path (start square included) is not attacked.
func (p *Position) castles(ml *MoveList) {
	us := p.SideToMove
	kinds := [2]MoveKind{CastleWhiteKing, CastleWhiteQueen}
	rights := [2]CastlingRights{WhiteKingSideCastle, WhiteQueenSideCastle}
	if us == Black {
		kinds = [2]MoveKind{CastleBlackKing, CastleBlackQueen}
		rights = [2]CastlingRights{BlackKingSideCastle, BlackQueenSideCastle}
	}

	king := NewPiece(King, us)
	for i, kind := range kinds {
		if p.CastlingRights&rights[i] == 0 || p.AllOccupied&castleEmpty[kind] != 0 {
			continue
		}
		path := castleSafe[kind]
		if !p.Pieces[us][King].IsSet(path[0]) || !p.Pieces[us][Rook].IsSet(castleRookFrom[kind]) {
			continue
		}
		if p.IsSquareAttacked(path[0], us.Other()) ||
			p.IsSquareAttacked(path[1], us.Other()) ||
			p.IsSquareAttacked(path[2], us.Other()) {
			continue
		}
		ml.Add(p.newMove(path[0], path[2], king, kind, NoPiece, NoPiece))
	}
}
