package engine

import (
	"math"

	"github.com/hailam/rayfish/internal/board"
)

// Move ordering priorities
const (
	HashMoveScore = math.MaxInt32 // Cached best move is always tried first
	CaptureOffset = 100000        // Lifts SEE scores above every history score
)

// consumed marks an entry already handed out by Next.
const consumed = math.MinInt

// ScoredMove pairs a move with its ordering priority.
type ScoredMove struct {
	Move  board.Move
	Score int
}

// moveOrder hands out moves highest score first. Selection is lazy: each
// call to Next scans the remaining entries, which is cheap when a cutoff
// comes after the first few moves.
type moveOrder struct {
	moves [256]ScoredMove
	count int
}

func (o *moveOrder) add(m board.Move, score int) {
	o.moves[o.count] = ScoredMove{Move: m, Score: score}
	o.count++
}

// Len returns the number of moves not yet handed out.
func (o *moveOrder) Len() int {
	n := 0
	for i := 0; i < o.count; i++ {
		if o.moves[i].Score != consumed {
			n++
		}
	}
	return n
}

// Next pops the highest scored remaining move.
func (o *moveOrder) Next() (board.Move, bool) {
	best := -1
	bestScore := consumed
	for i := 0; i < o.count; i++ {
		if o.moves[i].Score > bestScore {
			best = i
			bestScore = o.moves[i].Score
		}
	}
	if best < 0 {
		return board.NoMove, false
	}
	o.moves[best].Score = consumed
	return o.moves[best].Move, true
}

// killers holds the two most recent quiet cutoff moves per ply.
type killers [MaxPly][2]board.Move

func (k *killers) push(m board.Move, ply int) {
	if ply >= MaxPly || k[ply][0].SameAs(m) {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

// score ranks a killer just above the losing captures: slot 0 gets
// CaptureOffset+1 and slot 1 CaptureOffset.
func (k *killers) score(m board.Move, ply int) (int, bool) {
	if ply >= MaxPly {
		return 0, false
	}
	switch {
	case k[ply][0].SameAs(m):
		return CaptureOffset + 1, true
	case k[ply][1].SameAs(m):
		return CaptureOffset, true
	}
	return 0, false
}

// captureScore orders a tactical move by its exchange value.
func captureScore(pos *board.Position, m board.Move) int {
	return SEE(pos, m) + CaptureOffset
}

// captures fills o for the first search stage: the cached best move, then
// captures and promotions by SEE.
func (o *moveOrder) captures(pos *board.Position, hashMove board.Move) {
	o.count = 0
	if !hashMove.IsNone() {
		o.add(hashMove, HashMoveScore)
	}

	var ml board.MoveList
	board.GenerateCaptures(pos, &ml)
	for _, m := range ml.Slice() {
		if m.SameAs(hashMove) {
			continue
		}
		o.add(m, captureScore(pos, m))
	}
}

// quiets fills o for the second search stage: killers, then history.
func (o *moveOrder) quiets(pos *board.Position, c *Cache, k *killers, ply int, hashMove board.Move) {
	o.count = 0

	var ml board.MoveList
	board.GenerateQuiets(pos, &ml)
	for _, m := range ml.Slice() {
		if m.SameAs(hashMove) {
			continue
		}
		score, ok := k.score(m, ply)
		if !ok {
			score = c.History(m.Piece, m.To)
		}
		o.add(m, score)
	}
}

// quiesce keeps only tactical moves that do not lose material.
func (o *moveOrder) quiesce(pos *board.Position) {
	o.count = 0

	var ml board.MoveList
	board.GenerateCaptures(pos, &ml)
	for _, m := range ml.Slice() {
		if see := SEE(pos, m); see >= 0 {
			o.add(m, see+CaptureOffset)
		}
	}
}

// evasions covers what quiesce left out, for use when the side to move is
// in check: losing captures scored by their (negative) SEE and quiet moves
// by history.
func (o *moveOrder) evasions(pos *board.Position, c *Cache) {
	o.count = 0

	var ml board.MoveList
	board.GenerateMoves(pos, &ml)
	for _, m := range ml.Slice() {
		if m.IsCapture() || m.IsPromotion() {
			if see := SEE(pos, m); see < 0 {
				o.add(m, see)
			}
			continue
		}
		o.add(m, c.History(m.Piece, m.To))
	}
}

// root fills o with every root move, the previous iteration's best first.
func (o *moveOrder) root(pos *board.Position, c *Cache, prevBest board.Move) {
	o.count = 0

	var ml board.MoveList
	board.GenerateMoves(pos, &ml)
	for _, m := range ml.Slice() {
		switch {
		case m.SameAs(prevBest):
			o.add(m, HashMoveScore)
		case m.IsCapture() || m.IsPromotion():
			o.add(m, captureScore(pos, m))
		default:
			o.add(m, c.History(m.Piece, m.To))
		}
	}
}
