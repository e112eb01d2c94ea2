package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hailam/rayfish/internal/board"
)

// Search constants
const (
	Infinity  = 30000
	MateScore = 29000
	MaxPly    = 128
)

// The deadline and the context are polled when the node count is a multiple
// of checkInterval+1.
const checkInterval = 2047

// searcher runs alpha-beta over one position. Searchers working on the same
// search share the cache, the node counter, the stop flag and the deadline;
// each has its own position and killers.
type searcher struct {
	pos     *board.Position
	cache   *Cache
	eval    Evaluator
	killers killers

	ctx    context.Context
	stopAt time.Time // zero for no deadline
	nodes  *atomic.Uint64
	stop   *atomic.Bool
}

// expired reports whether the deadline has passed or the context is done.
func (s *searcher) expired() bool {
	if !s.stopAt.IsZero() && time.Now().After(s.stopAt) {
		return true
	}
	return s.ctx.Err() != nil
}

// tick counts a node and reports whether the search must unwind.
func (s *searcher) tick() bool {
	if s.nodes.Add(1)&checkInterval == 0 && s.expired() {
		s.stop.Store(true)
	}
	return s.stop.Load()
}

func (s *searcher) stopped() bool {
	return s.stop.Load()
}

// evaluate returns the static score from the side to move's point of view.
func (s *searcher) evaluate() int {
	score := s.eval.Evaluate(s.pos)
	if s.pos.SideToMove == board.Black {
		return -score
	}
	return score
}

// hashMove returns the cached best move for the current position, if it
// still fits the board.
func (s *searcher) hashMove() board.Move {
	m, ok := s.cache.BestMove(s.pos.Hash)
	if !ok {
		return board.NoMove
	}
	if m, ok = s.pos.Refresh(m); !ok {
		return board.NoMove
	}
	return m
}

// negamax is a fail-hard principal variation search. Scores are from the
// side to move's point of view; mate scores count plies from the root.
func (s *searcher) negamax(alpha, beta, depth, ply int) int {
	if s.tick() {
		return 0
	}
	pos := s.pos

	if score, ok := s.cache.Get(pos.Hash, depth, ply, alpha, beta); ok {
		return score
	}
	if pos.IsDrawn() {
		return 0
	}
	if depth <= 0 {
		return s.quiesce(alpha, beta, ply)
	}
	if ply >= MaxPly-1 {
		return s.evaluate()
	}

	hashMove := s.hashMove()
	origAlpha := alpha
	bestMove := board.NoMove
	legal := 0

	var order moveOrder
	for stage := 0; stage < 2; stage++ {
		if stage == 0 {
			order.captures(pos, hashMove)
		} else {
			order.quiets(pos, s.cache, &s.killers, ply, hashMove)
		}

		for m, ok := order.Next(); ok; m, ok = order.Next() {
			pos.Make(m)
			if pos.LeftInCheck() {
				pos.Unmake(m)
				continue
			}
			legal++

			var score int
			if legal == 1 {
				score = -s.negamax(-beta, -alpha, depth-1, ply+1)
			} else {
				score = -s.negamax(-alpha-1, -alpha, depth-1, ply+1)
				if score > alpha && score < beta {
					score = -s.negamax(-beta, -alpha, depth-1, ply+1)
				}
			}
			pos.Unmake(m)

			if s.stopped() {
				return 0
			}

			if score >= beta {
				if !m.IsCapture() && !m.IsPromotion() {
					s.killers.push(m, ply)
					s.cache.BumpHistory(m.Piece, m.To, depth)
				}
				s.cache.Insert(pos.Hash, m, depth, beta, ply, Lower)
				return beta
			}
			if score > alpha {
				alpha = score
				bestMove = m
			}
		}
	}

	if legal == 0 {
		if pos.InCheck() {
			return -MateScore + ply
		}
		return 0
	}

	bound := Upper
	if alpha > origAlpha {
		bound = Exact
	}
	s.cache.Insert(pos.Hash, bestMove, depth, alpha, ply, bound)
	return alpha
}

// rootMove plays m at the root and searches it to depth with the root's
// lower bound at alpha. It reports false if m leaves the king in check. The
// score is meaningless once the search has been stopped.
func (s *searcher) rootMove(m board.Move, depth, alpha int) (int, bool) {
	s.pos.Make(m)
	if s.pos.LeftInCheck() {
		s.pos.Unmake(m)
		return 0, false
	}
	score := -s.negamax(-Infinity, -alpha, depth-1, 1)
	s.pos.Unmake(m)
	return score, true
}

// rootSearch searches every root move to depth, the previous iteration's
// best move first. It returns the best move found so far and whether the
// iteration ran to completion. A move only becomes best after its search
// finished, so an interrupted iteration still yields a usable move when at
// least one root move was searched.
func (s *searcher) rootSearch(depth int, prevBest board.Move, improved func(board.Move, int)) (board.Move, int, bool) {
	var order moveOrder
	order.root(s.pos, s.cache, prevBest)

	best, bestScore := board.NoMove, -Infinity
	for m, ok := order.Next(); ok; m, ok = order.Next() {
		if s.expired() {
			s.stop.Store(true)
			break
		}

		score, legal := s.rootMove(m, depth, bestScore)
		if s.stopped() {
			break
		}
		if !legal || score <= bestScore {
			continue
		}

		best, bestScore = m, score
		if improved != nil {
			improved(m, score)
		}
	}

	if s.stopped() {
		return best, bestScore, false
	}
	if !best.IsNone() {
		s.cache.Insert(s.pos.Hash, best, depth, bestScore, 0, Exact)
	}
	return best, bestScore, true
}
