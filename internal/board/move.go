package board

import (
	"errors"
	"fmt"
)

// ErrIllegalMove is returned when a coordinate move does not fit the position.
var ErrIllegalMove = errors.New("illegal move")

// MoveKind tags how a move changes the board beyond relocating one piece.
type MoveKind uint8

const (
	Quiet MoveKind = iota
	DoublePush
	Capture
	EnPassantCapture
	Promotion
	PromotionCapture
	CastleWhiteKing
	CastleWhiteQueen
	CastleBlackKing
	CastleBlackQueen
)

// Move is an immutable move value. Besides the move itself it carries the
// castling rights, en-passant square and halfmove clock from before it was
// played, which is everything Unmake needs.
type Move struct {
	From      Square
	To        Square
	Piece     Piece
	Kind      MoveKind
	Captured  Piece // NoPiece if none
	Promotion Piece // NoPiece if none

	PrevCastling  CastlingRights
	PrevEnPassant Square
	PrevHalfMove  uint16
}

// NoMove stands for "no move". A real move never has From == To, so the zero
// Move value is treated as NoMove as well.
var NoMove = Move{Piece: NoPiece, Captured: NoPiece, Promotion: NoPiece, PrevEnPassant: NoSquare}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return m.From == m.To
}

// IsCapture reports whether the move removes an enemy piece.
func (m Move) IsCapture() bool {
	return m.Captured != NoPiece
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Kind == Promotion || m.Kind == PromotionCapture
}

// IsCastle reports whether the move is one of the four castles.
func (m Move) IsCastle() bool {
	return m.Kind >= CastleWhiteKing
}

// SameAs compares the identity of two moves (from, to, promotion), ignoring
// the snapshot fields, so moves recorded at other nodes can be matched.
func (m Move) SameAs(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// String returns coordinate notation (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPiece {
		s += string(pieceChars[NewPiece(m.Promotion.Type(), Black)])
	}
	return s
}

// newMove builds a move carrying the undo snapshot of pos.
func (p *Position) newMove(from, to Square, piece Piece, kind MoveKind, captured, promo Piece) Move {
	return Move{
		From:          from,
		To:            to,
		Piece:         piece,
		Kind:          kind,
		Captured:      captured,
		Promotion:     promo,
		PrevCastling:  p.CastlingRights,
		PrevEnPassant: p.EnPassant,
		PrevHalfMove:  uint16(p.HalfMoveClock),
	}
}

// ParseMove rebuilds a full Move from coordinate notation using only the
// geometry of the move and the occupancy of pos. It does not check legality.
func ParseMove(pos *Position, s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NoMove, fmt.Errorf("%w: %q", ErrIllegalMove, s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrIllegalMove, s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %q: %w", ErrIllegalMove, s, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		if promo = promotionTypeFromChar(s[4]); promo == NoPieceType {
			return NoMove, fmt.Errorf("%w: %q: bad promotion", ErrIllegalMove, s)
		}
	}

	m, err := pos.BuildMove(from, to, promo)
	if err != nil {
		return NoMove, fmt.Errorf("%q: %w", s, err)
	}
	return m, nil
}

// BuildMove classifies the move from -> to in pos and returns it with the
// current undo snapshot. promo is NoPieceType for non-promotions.
func (p *Position) BuildMove(from, to Square, promo PieceType) (Move, error) {
	us := p.SideToMove
	piece := p.PieceAt(from)
	if piece == NoPiece || piece.Color() != us {
		return NoMove, fmt.Errorf("%w: no %s piece on %s", ErrIllegalMove, us, from)
	}

	captured := p.PieceAt(to)
	if captured != NoPiece && captured.Color() == us {
		return NoMove, fmt.Errorf("%w: own piece on %s", ErrIllegalMove, to)
	}

	promoPiece := NoPiece
	if promo != NoPieceType {
		if piece.Type() != Pawn || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("%w: bad promotion", ErrIllegalMove)
		}
		promoPiece = NewPiece(promo, us)
	}

	kind := Quiet
	switch {
	case promoPiece != NoPiece && captured != NoPiece:
		kind = PromotionCapture
	case promoPiece != NoPiece:
		kind = Promotion
	case captured != NoPiece:
		kind = Capture
	case piece.Type() == Pawn && to == p.EnPassant && from.File() != to.File():
		kind = EnPassantCapture
		captured = NewPiece(Pawn, us.Other())
	case piece.Type() == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16):
		kind = DoublePush
	case piece == WhiteKing && from == E1 && to == G1:
		kind = CastleWhiteKing
	case piece == WhiteKing && from == E1 && to == C1:
		kind = CastleWhiteQueen
	case piece == BlackKing && from == E8 && to == G8:
		kind = CastleBlackKing
	case piece == BlackKing && from == E8 && to == C8:
		kind = CastleBlackQueen
	}

	return p.newMove(from, to, piece, kind, captured, promoPiece), nil
}

// Refresh re-takes the undo snapshot of a move recorded at another node with
// the same hash. It reports false if m does not fit the board of p.
func (p *Position) Refresh(m Move) (Move, bool) {
	if m.IsNone() || p.PieceAt(m.From) != m.Piece || m.Piece.Color() != p.SideToMove {
		return NoMove, false
	}
	switch {
	case m.Kind == EnPassantCapture:
		if m.To != p.EnPassant {
			return NoMove, false
		}
	case p.PieceAt(m.To) != m.Captured:
		return NoMove, false
	}
	return p.newMove(m.From, m.To, m.Piece, m.Kind, m.Captured, m.Promotion), true
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear empties the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// Find returns the move in the list with the same identity as m.
func (ml *MoveList) Find(m Move) (Move, bool) {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i].SameAs(m) {
			return ml.moves[i], true
		}
	}
	return NoMove, false
}
