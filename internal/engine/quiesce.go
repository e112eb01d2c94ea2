package engine

// quiesce resolves captures until the position is quiet. Moves are played
// with the hash-free make, so nothing below this point may probe the cache
// or check for repetitions.
func (s *searcher) quiesce(alpha, beta, ply int) int {
	if s.tick() {
		return 0
	}
	pos := s.pos

	standPat := s.evaluate()
	if ply >= MaxPly-1 {
		return standPat
	}
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	var order moveOrder
	order.quiesce(pos)
	alpha, legal, cutoff := s.quiesceMoves(&order, alpha, beta, ply)
	if cutoff || legal || s.stopped() || !pos.InCheck() {
		return alpha
	}

	// In check and no winning capture gets out of it.
	order.evasions(pos, s.cache)
	alpha, legal, _ = s.quiesceMoves(&order, alpha, beta, ply)
	if !legal && !s.stopped() {
		return -MateScore + ply
	}
	return alpha
}

// quiesceMoves searches the moves of order. It returns the new alpha,
// whether any move was legal, and whether one failed high.
func (s *searcher) quiesceMoves(order *moveOrder, alpha, beta, ply int) (int, bool, bool) {
	pos := s.pos
	legal := false

	for m, ok := order.Next(); ok; m, ok = order.Next() {
		pos.MakeNoHash(m)
		if pos.LeftInCheck() {
			pos.UnmakeNoHash(m)
			continue
		}
		legal = true

		score := -s.quiesce(-beta, -alpha, ply+1)
		pos.UnmakeNoHash(m)

		if s.stopped() {
			return alpha, legal, false
		}
		if score >= beta {
			return beta, legal, true
		}
		if score > alpha {
			alpha = score
		}
	}
	return alpha, legal, false
}
