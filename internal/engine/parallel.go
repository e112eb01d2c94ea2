package engine

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hailam/rayfish/internal/board"
)

// parallelRootSearch is rootSearch with the root moves spread over the
// helper searchers. The first legal move is searched by main alone so the
// helpers start with a real lower bound. Helpers share the cache, so their
// entries land last-writer-wins.
func (e *Engine) parallelRootSearch(main *searcher, helpers []*searcher, stopAt time.Time, depth int, prevBest board.Move, improved func(board.Move, int)) (board.Move, int, bool) {
	main.stopAt = stopAt
	idle := make(chan *searcher, len(helpers))
	for _, h := range helpers {
		h.stopAt = stopAt
		idle <- h
	}

	var order moveOrder
	order.root(main.pos, main.cache, prevBest)

	best, bestScore := board.NoMove, -Infinity
	for m, ok := order.Next(); ok; m, ok = order.Next() {
		if main.expired() {
			main.stop.Store(true)
			return best, bestScore, false
		}
		score, legal := main.rootMove(m, depth, bestScore)
		if main.stopped() {
			return best, bestScore, false
		}
		if legal {
			best, bestScore = m, score
			improved(m, score)
			break
		}
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(len(helpers))

	for m, ok := order.Next(); ok; m, ok = order.Next() {
		if main.stopped() || main.expired() {
			main.stop.Store(true)
			break
		}

		mu.Lock()
		alpha := bestScore
		mu.Unlock()

		m := m
		g.Go(func() error {
			h := <-idle
			defer func() { idle <- h }()

			score, legal := h.rootMove(m, depth, alpha)
			if !legal || h.stopped() {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if score > bestScore {
				best, bestScore = m, score
				improved(m, score)
			}
			return nil
		})
	}
	_ = g.Wait()

	if main.stopped() {
		return best, bestScore, false
	}
	main.cache.Insert(main.pos.Hash, best, depth, bestScore, 0, Exact)
	return best, bestScore, true
}
