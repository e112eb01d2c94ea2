package engine

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/rayfish/internal/board"
)

// SearchInfo contains information about the current search.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	Move     board.Move
	HashFull int // Permille of cache used
}

// SearchLimits specifies constraints on the search.
type SearchLimits struct {
	Deadline time.Time // Zero for no deadline
	Depth    int       // Maximum depth (0 = no limit)
}

// Engine is the chess AI engine.
type Engine struct {
	cache   *Cache
	eval    Evaluator
	threads int

	stop  atomic.Bool
	nodes atomic.Uint64

	// Callbacks
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine searching through cache and scoring leaves
// with eval. A nil eval selects Classical.
func NewEngine(cache *Cache, eval Evaluator) *Engine {
	if eval == nil {
		eval = Classical{}
	}
	return &Engine{
		cache:   cache,
		eval:    eval,
		threads: 1,
	}
}

// SetThreads sets how many goroutines search root moves. Values below one
// are treated as one.
func (e *Engine) SetThreads(n int) {
	e.threads = max(n, 1)
}

// Threads returns the configured root search parallelism.
func (e *Engine) Threads() int {
	return e.threads
}

// Cache returns the engine's transposition cache.
func (e *Engine) Cache() *Cache {
	return e.cache
}

// SetCache replaces the transposition cache. It must not be called while a
// search is running.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// Nodes returns the number of nodes visited by the last search.
func (e *Engine) Nodes() uint64 {
	return e.nodes.Load()
}

// Search finds the best move for pos within deadline. It reports false only
// when the side to move has no legal move. pos must be hashed with the
// cache's keys and is left unchanged.
func (e *Engine) Search(ctx context.Context, pos *board.Position, deadline time.Time) (board.Move, bool) {
	return e.SearchWithLimits(ctx, pos, SearchLimits{Deadline: deadline})
}

// SearchWithLimits runs iterative deepening until a limit is reached or ctx
// is cancelled. The move returned is the best of the last fully completed
// iteration; an interrupted iteration is discarded.
//
// A new depth starts only while less than half of the allowance has passed.
// Every completed depth extends the hard deadline by a tenth of the
// allowance per ply searched, up to twice the allowance in total.
func (e *Engine) SearchWithLimits(ctx context.Context, pos *board.Position, limits SearchLimits) (board.Move, bool) {
	start := time.Now()
	root := pos.Clone()

	legal := board.GenerateLegalMoves(root)
	switch legal.Len() {
	case 0:
		return board.NoMove, false
	case 1:
		return legal.Get(0), true
	}

	e.stop.Store(false)
	e.nodes.Store(0)
	e.cache.ResetStats()
	e.cache.ClearHistory()

	var allowance time.Duration
	if !limits.Deadline.IsZero() {
		allowance = max(limits.Deadline.Sub(start), 0)
	}
	maxDepth := MaxPly - 1
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, maxDepth)
	}

	main := e.newSearcher(ctx, root)
	var helpers []*searcher
	if e.threads > 1 {
		for i := 0; i < e.threads; i++ {
			helpers = append(helpers, e.newSearcher(ctx, root.Clone()))
		}
	}

	bestMove := legal.Get(0)
	bestScore := -Infinity
	var extra time.Duration

	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && !limits.Deadline.IsZero() && time.Since(start) > allowance/2 {
			break
		}

		var stopAt time.Time
		if !limits.Deadline.IsZero() {
			stopAt = start.Add(allowance + extra)
		}

		improved := func(m board.Move, score int) {
			e.report(depth, score, m, start)
		}

		var move board.Move
		var score int
		var complete bool
		if helpers != nil {
			move, score, complete = e.parallelRootSearch(main, helpers, stopAt, depth, bestMove, improved)
		} else {
			main.stopAt = stopAt
			move, score, complete = main.rootSearch(depth, bestMove, improved)
		}

		if !complete {
			log.Debug().Int("depth", depth).Dur("elapsed", time.Since(start)).Msg("iteration aborted")
			break
		}
		if !move.IsNone() {
			bestMove, bestScore = move, score
		}

		log.Debug().
			Int("depth", depth).
			Int("score", bestScore).
			Uint64("nodes", e.nodes.Load()).
			Str("move", bestMove.ToSAN(root)).
			Dur("elapsed", time.Since(start)).
			Msg("iteration complete")

		if bestScore > MateScore-MaxPly || bestScore < -MateScore+MaxPly {
			break
		}
		if allowance > 0 {
			extra = min(extra+allowance*time.Duration(depth)/10, allowance)
		}
	}

	log.Debug().
		Float64("hit_rate", e.cache.HitRate()).
		Int("hashfull", e.cache.HashFull()).
		Uint64("nodes", e.nodes.Load()).
		Msg("search finished")

	return bestMove, true
}

func (e *Engine) newSearcher(ctx context.Context, pos *board.Position) *searcher {
	return &searcher{
		pos:   pos,
		cache: e.cache,
		eval:  e.eval,
		ctx:   ctx,
		nodes: &e.nodes,
		stop:  &e.stop,
	}
}

func (e *Engine) report(depth, score int, m board.Move, start time.Time) {
	if e.OnInfo == nil {
		return
	}
	e.OnInfo(SearchInfo{
		Depth:    depth,
		Score:    score,
		Nodes:    e.nodes.Load(),
		Time:     time.Since(start),
		Move:     m,
		HashFull: e.cache.HashFull(),
	})
}

// Stop makes a running search return as soon as possible.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Clear clears the transposition cache and the history counters.
func (e *Engine) Clear() {
	e.cache.Clear()
}

// Evaluate returns the static evaluation of a position from White's side.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > MateScore-MaxPly {
		return "Mate in " + strconv.Itoa((MateScore-score+1)/2)
	}
	if score < -MateScore+MaxPly {
		return "Mated in " + strconv.Itoa((MateScore+score+1)/2)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	cents := strconv.Itoa(score % 100)
	if len(cents) == 1 {
		cents = "0" + cents
	}
	return sign + strconv.Itoa(score/100) + "." + cents
}
