package engine

import (
	"github.com/hailam/rayfish/internal/board"
)

// SEE (Static Exchange Evaluation) estimates the material won by m when both
// sides keep recapturing on the target square with their least valuable
// attacker, each free to stop when recapturing would lose. The result is
// from the point of view of the side making m.
func SEE(pos *board.Position, m board.Move) int {
	gain := pieceValue(m.Captured)
	if m.IsPromotion() {
		gain += pieceValue(m.Promotion) - PawnValue
	}

	pos.MakeNoHash(m)
	gain -= exchange(pos, m.To)
	pos.UnmakeNoHash(m)

	return gain
}

// exchange returns what the side to move can gain by capturing on sq, or 0
// if it prefers not to.
func exchange(pos *board.Position, sq board.Square) int {
	m, ok := leastValuableCapture(pos, sq)
	if !ok {
		return 0
	}

	pos.MakeNoHash(m)
	value := pieceValue(m.Captured) - exchange(pos, sq)
	pos.UnmakeNoHash(m)

	return max(0, value)
}

// leastValuableCapture finds the cheapest piece of the side to move that
// attacks sq and returns the capture it would make.
func leastValuableCapture(pos *board.Position, sq board.Square) (board.Move, bool) {
	us := pos.SideToMove
	attackers := pos.AttacksTo(sq, us)
	if attackers == 0 {
		return board.NoMove, false
	}

	for pt := board.Pawn; pt <= board.King; pt++ {
		bb := attackers & pos.Pieces[us][pt]
		if bb == 0 {
			continue
		}

		promo := board.NoPieceType
		if pt == board.Pawn && (sq.Rank() == 7 || sq.Rank() == 0) {
			promo = board.Queen
		}
		m, err := pos.BuildMove(bb.LSB(), sq, promo)
		if err != nil {
			return board.NoMove, false
		}
		return m, true
	}
	return board.NoMove, false
}
