package board

// Direction is one of the eight compass directions a slider can move along.
// The first four step toward higher square indices, the last four toward lower ones.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	NorthWest
	South
	SouthWest
	West
	SouthEast
)

// Pre-computed attack tables
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard // [Color][Square]

	// rays[dir][sq] holds every square reachable from sq in dir on an empty board.
	rays [8][64]Bitboard
)

// file/rank step for each Direction
var directionStep = [8][2]int{
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	NorthWest: {-1, 1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	SouthEast: {1, -1},
}

var knightSteps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}

func init() {
	initLeaperAttacks()
	initRays()
}

func initLeaperAttacks() {
	for sq := A1; sq <= H8; sq++ {
		f, r := sq.File(), sq.Rank()

		for _, st := range knightSteps {
			if onBoard(f+st[0], r+st[1]) {
				knightAttacks[sq] |= SquareBB(NewSquare(f+st[0], r+st[1]))
			}
		}
		for _, st := range directionStep {
			if onBoard(f+st[0], r+st[1]) {
				kingAttacks[sq] |= SquareBB(NewSquare(f+st[0], r+st[1]))
			}
		}

		bb := SquareBB(sq)
		pawnAttacks[White][sq] = bb.NorthEast() | bb.NorthWest()
		pawnAttacks[Black][sq] = bb.SouthEast() | bb.SouthWest()
	}
}

func initRays() {
	for dir := North; dir <= SouthEast; dir++ {
		st := directionStep[dir]
		for sq := A1; sq <= H8; sq++ {
			f, r := sq.File()+st[0], sq.Rank()+st[1]
			for onBoard(f, r) {
				rays[dir][sq] |= SquareBB(NewSquare(f, r))
				f += st[0]
				r += st[1]
			}
		}
	}
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

// rayAttacks resolves a single slider ray against occupancy: the nearest
// blocker is included and everything behind it is removed.
func rayAttacks(dir Direction, sq Square, occ Bitboard) Bitboard {
	attacks := rays[dir][sq]
	blockers := attacks & occ
	if blockers == 0 {
		return attacks
	}

	var blocker Square
	if dir < South {
		blocker = blockers.LSB()
	} else {
		blocker = blockers.MSB()
	}
	return attacks ^ rays[dir][blocker]
}

// BishopAttacks returns diagonal slider attacks from sq given occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return rayAttacks(NorthEast, sq, occ) | rayAttacks(NorthWest, sq, occ) |
		rayAttacks(SouthEast, sq, occ) | rayAttacks(SouthWest, sq, occ)
}

// RookAttacks returns orthogonal slider attacks from sq given occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return rayAttacks(North, sq, occ) | rayAttacks(East, sq, occ) |
		rayAttacks(South, sq, occ) | rayAttacks(West, sq, occ)
}

// QueenAttacks returns the union of bishop and rook attacks.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// KnightAttacks returns the knight attack mask for sq.
func KnightAttacks(sq Square) Bitboard {
	return knightAttacks[sq]
}

// KingAttacks returns the king attack mask for sq.
func KingAttacks(sq Square) Bitboard {
	return kingAttacks[sq]
}

// PawnAttacks returns the squares a pawn of color c on sq attacks.
func PawnAttacks(c Color, sq Square) Bitboard {
	return pawnAttacks[c][sq]
}
