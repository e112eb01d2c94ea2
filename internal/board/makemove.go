package board

// castlingKeep[sq] is the set of rights that survive a move touching sq.
var castlingKeep [64]CastlingRights

// rook relocation for each castle kind
var (
	castleRookFrom = [...]Square{CastleWhiteKing: H1, CastleWhiteQueen: A1, CastleBlackKing: H8, CastleBlackQueen: A8}
	castleRookTo   = [...]Square{CastleWhiteKing: F1, CastleWhiteQueen: D1, CastleBlackKing: F8, CastleBlackQueen: D8}
)

func init() {
	for sq := range castlingKeep {
		castlingKeep[sq] = AllCastling
	}
	castlingKeep[E1] &^= WhiteKingSideCastle | WhiteQueenSideCastle
	castlingKeep[H1] &^= WhiteKingSideCastle
	castlingKeep[A1] &^= WhiteQueenSideCastle
	castlingKeep[E8] &^= BlackKingSideCastle | BlackQueenSideCastle
	castlingKeep[H8] &^= BlackKingSideCastle
	castlingKeep[A8] &^= BlackQueenSideCastle
}

// flip toggles piece pc on sq in its mask, its side union and the total union.
func (p *Position) flip(pc Piece, sq Square) {
	bb := SquareBB(sq)
	c := pc.Color()
	p.Pieces[c][pc.Type()] ^= bb
	p.Occupied[c] ^= bb
	p.AllOccupied ^= bb
}

// flipHashed is flip with the matching hash update.
func (p *Position) flipHashed(pc Piece, sq Square) {
	p.flip(pc, sq)
	p.Hash ^= p.keys.Piece[pc][sq]
}

// victimSquare is where the captured piece of m stands.
func victimSquare(m Move) Square {
	if m.Kind == EnPassantCapture {
		return NewSquare(m.To.File(), m.From.Rank())
	}
	return m.To
}

// Make applies m, keeping the hash and the repetition counter up to date.
func (p *Position) Make(m Move) {
	k := p.keys
	us := p.SideToMove

	p.Hash ^= k.EnPassantKey(p.EnPassant)
	p.EnPassant = NoSquare
	p.HalfMoveClock++

	if m.Captured != NoPiece {
		p.flipHashed(m.Captured, victimSquare(m))
		p.HalfMoveClock = 0
	}

	p.flipHashed(m.Piece, m.From)
	if m.Promotion != NoPiece {
		p.flipHashed(m.Promotion, m.To)
	} else {
		p.flipHashed(m.Piece, m.To)
	}
	if m.Piece.Type() == Pawn {
		p.HalfMoveClock = 0
	}

	switch m.Kind {
	case DoublePush:
		p.EnPassant = Square((int(m.From) + int(m.To)) / 2)
		p.Hash ^= k.EnPassantKey(p.EnPassant)
	case CastleWhiteKing, CastleWhiteQueen, CastleBlackKing, CastleBlackQueen:
		rook := NewPiece(Rook, us)
		p.flipHashed(rook, castleRookFrom[m.Kind])
		p.flipHashed(rook, castleRookTo[m.Kind])
	}

	rights := p.CastlingRights & castlingKeep[m.From] & castlingKeep[m.To]
	if rights != p.CastlingRights {
		p.Hash ^= k.CastlingKey(p.CastlingRights) ^ k.CastlingKey(rights)
		p.CastlingRights = rights
	}

	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()
	p.Hash ^= k.Side

	p.repetitions[p.Hash&repetitionMask]++
}

// Unmake reverses Make(m) using the snapshot carried by m.
func (p *Position) Unmake(m Move) {
	k := p.keys
	p.repetitions[p.Hash&repetitionMask]--

	p.Hash ^= k.Side
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	if us == Black {
		p.FullMoveNumber--
	}

	p.Hash ^= k.CastlingKey(p.CastlingRights) ^ k.CastlingKey(m.PrevCastling)
	p.CastlingRights = m.PrevCastling
	p.Hash ^= k.EnPassantKey(p.EnPassant) ^ k.EnPassantKey(m.PrevEnPassant)
	p.EnPassant = m.PrevEnPassant
	p.HalfMoveClock = int(m.PrevHalfMove)

	if m.IsCastle() {
		rook := NewPiece(Rook, us)
		p.flipHashed(rook, castleRookTo[m.Kind])
		p.flipHashed(rook, castleRookFrom[m.Kind])
	}

	if m.Promotion != NoPiece {
		p.flipHashed(m.Promotion, m.To)
	} else {
		p.flipHashed(m.Piece, m.To)
	}
	p.flipHashed(m.Piece, m.From)

	if m.Captured != NoPiece {
		p.flipHashed(m.Captured, victimSquare(m))
	}
}

// MakeNoHash applies m without touching the hash or the repetition counter.
// The hash is stale until the matching UnmakeNoHash, so nothing that reads
// it (cache probes, IsDrawn) may run in between.
func (p *Position) MakeNoHash(m Move) {
	us := p.SideToMove
	p.EnPassant = NoSquare
	p.HalfMoveClock++

	if m.Captured != NoPiece {
		p.flip(m.Captured, victimSquare(m))
		p.HalfMoveClock = 0
	}

	p.flip(m.Piece, m.From)
	if m.Promotion != NoPiece {
		p.flip(m.Promotion, m.To)
	} else {
		p.flip(m.Piece, m.To)
	}
	if m.Piece.Type() == Pawn {
		p.HalfMoveClock = 0
	}

	switch m.Kind {
	case DoublePush:
		p.EnPassant = Square((int(m.From) + int(m.To)) / 2)
	case CastleWhiteKing, CastleWhiteQueen, CastleBlackKing, CastleBlackQueen:
		rook := NewPiece(Rook, us)
		p.flip(rook, castleRookFrom[m.Kind])
		p.flip(rook, castleRookTo[m.Kind])
	}

	p.CastlingRights &= castlingKeep[m.From] & castlingKeep[m.To]
	if us == Black {
		p.FullMoveNumber++
	}
	p.SideToMove = us.Other()
}

// UnmakeNoHash reverses MakeNoHash(m).
func (p *Position) UnmakeNoHash(m Move) {
	p.SideToMove = p.SideToMove.Other()
	us := p.SideToMove
	if us == Black {
		p.FullMoveNumber--
	}
	p.CastlingRights = m.PrevCastling
	p.EnPassant = m.PrevEnPassant
	p.HalfMoveClock = int(m.PrevHalfMove)

	if m.IsCastle() {
		rook := NewPiece(Rook, us)
		p.flip(rook, castleRookTo[m.Kind])
		p.flip(rook, castleRookFrom[m.Kind])
	}

	if m.Promotion != NoPiece {
		p.flip(m.Promotion, m.To)
	} else {
		p.flip(m.Piece, m.To)
	}
	p.flip(m.Piece, m.From)

	if m.Captured != NoPiece {
		p.flip(m.Captured, victimSquare(m))
	}
}
