package board

import (
	"errors"
	"fmt"
	"strings"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr&AllCastling == NoCastling {
		return "-"
	}
	var sb strings.Builder
	for i, c := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// RepetitionSlots is the size of the repetition counter. Buckets are
// addressed by the low bits of the hash and are not verified against the full
// position, so two different positions sharing a bucket count as one.
const RepetitionSlots = 1 << 14

const repetitionMask = RepetitionSlots - 1

// Position is a complete chess position. It is mutated in place through
// Make/Unmake and is never copied inside the search recursion.
type Position struct {
	// Piece bitboards: [Color][PieceType]
	Pieces [2][6]Bitboard

	Occupied    [2]Bitboard // All pieces of each color
	AllOccupied Bitboard

	SideToMove     Color
	CastlingRights CastlingRights
	EnPassant      Square // Target square for en passant, NoSquare if none
	HalfMoveClock  int    // Plies since last pawn move or capture
	FullMoveNumber int

	// Incremental Zobrist hash over pieces, side, castling rights and en-passant file.
	Hash uint64

	keys        *Keys
	repetitions [RepetitionSlots]uint8
}

// NewPosition returns the standard initial position hashed with keys.
func NewPosition(keys *Keys) *Position {
	pos, err := ParseFEN(StartFEN, keys)
	if err != nil {
		panic(err)
	}
	return pos
}

// Keys returns the Zobrist key set the position is hashed with.
func (p *Position) Keys() *Keys {
	return p.keys
}

// Clone returns an independent copy, repetition counter included.
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (p *Position) PieceAt(sq Square) Piece {
	bb := SquareBB(sq)
	if p.AllOccupied&bb == 0 {
		return NoPiece
	}

	c := White
	if p.Occupied[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.Pieces[c][pt]&bb != 0 {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// KingSquare returns the square of the king of color c.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[c][King].LSB()
}

// ComputeHash recomputes the Zobrist hash from scratch.
func (p *Position) ComputeHash() uint64 {
	k := p.keys
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			pc := NewPiece(pt, c)
			bb := p.Pieces[c][pt]
			for bb != 0 {
				h ^= k.Piece[pc][bb.PopLSB()]
			}
		}
	}
	if p.SideToMove == Black {
		h ^= k.Side
	}
	h ^= k.CastlingKey(p.CastlingRights)
	h ^= k.EnPassantKey(p.EnPassant)
	return h
}

// Repetitions returns the repetition counter of the current hash bucket.
func (p *Position) Repetitions() int {
	return int(p.repetitions[p.Hash&repetitionMask])
}

// IsDrawn reports a threefold repetition (by hash bucket) or a saturated
// fifty-move clock.
func (p *Position) IsDrawn() bool {
	return p.repetitions[p.Hash&repetitionMask] == 3 || p.HalfMoveClock >= 100
}

// ResetRepetitions clears the counter and records only the current position.
func (p *Position) ResetRepetitions() {
	p.repetitions = [RepetitionSlots]uint8{}
	p.repetitions[p.Hash&repetitionMask] = 1
}

var (
	errOverlap   = errors.New("piece bitboards overlap")
	errOccupancy = errors.New("occupancy does not match piece bitboards")
	errHash      = errors.New("incremental hash differs from recomputation")
	errKings     = errors.New("each side must have exactly one king")
)

// Validate checks the structural invariants of the position.
func (p *Position) Validate() error {
	var seen, occ [2]Bitboard
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.Pieces[c][pt]
			if (seen[0]|seen[1])&bb != 0 {
				return fmt.Errorf("%w: %s %d", errOverlap, c, pt)
			}
			seen[c] |= bb
			occ[c] |= bb
		}
	}
	if occ != p.Occupied || occ[White]|occ[Black] != p.AllOccupied {
		return errOccupancy
	}
	if p.Pieces[White][King].PopCount() != 1 || p.Pieces[Black][King].PopCount() != 1 {
		return errKings
	}
	if p.Hash != p.ComputeHash() {
		return fmt.Errorf("%w: have %016x want %016x", errHash, p.Hash, p.ComputeHash())
	}
	return nil
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteByte('\n')
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Fen: %s\n", p.ToFEN())
	fmt.Fprintf(&sb, "Hash: %016x\n", p.Hash)
	return sb.String()
}
