package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hailam/rayfish/internal/board"
)

// newTestEngine returns an engine and a position hashed with its cache keys.
func newTestEngine(t *testing.T, fen string) (*Engine, *board.Position) {
	t.Helper()
	c := NewCache(4, nil)
	pos, err := board.ParseFEN(fen, c.Keys())
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return NewEngine(c, nil), pos
}

func isLegal(pos *board.Position, m board.Move) bool {
	legal := board.GenerateLegalMoves(pos)
	_, ok := legal.Find(m)
	return ok
}

func TestSearchFindsMateInOne(t *testing.T) {
	for _, threads := range []int{1, 4} {
		eng, pos := newTestEngine(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
		eng.SetThreads(threads)

		var last SearchInfo
		eng.OnInfo = func(info SearchInfo) { last = info }

		m, ok := eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 4})
		if !ok || m.String() != "a1a8" {
			t.Errorf("threads=%d: Search = %s, %v; want a1a8", threads, m, ok)
		}
		if last.Score != MateScore-1 {
			t.Errorf("threads=%d: reported score %d, want %d", threads, last.Score, MateScore-1)
		}
	}
}

func TestSearchWinsHangingQueen(t *testing.T) {
	for _, threads := range []int{1, 3} {
		eng, pos := newTestEngine(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")
		eng.SetThreads(threads)

		m, ok := eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 3})
		if !ok || m.String() != "d1d5" {
			t.Errorf("threads=%d: Search = %s, %v; want d1d5", threads, m, ok)
		}
	}
}

func TestSearchWithoutLegalMoves(t *testing.T) {
	tests := []struct {
		name string
		fen  string
	}{
		{"checkmate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1"},
		{"stalemate", "k7/8/1Q6/8/8/8/8/7K b - - 0 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, pos := newTestEngine(t, tt.fen)
			if m, ok := eng.Search(context.Background(), pos, time.Now().Add(time.Second)); ok {
				t.Errorf("Search = %s, true; want no move", m)
			}
		})
	}
}

func TestSearchSingleReplyReturnsImmediately(t *testing.T) {
	eng, pos := newTestEngine(t, "k7/8/1K6/8/8/8/8/7R b - - 0 1")

	m, ok := eng.Search(context.Background(), pos, time.Now().Add(time.Hour))
	if !ok || m.String() != "a8b8" {
		t.Fatalf("Search = %s, %v; want a8b8", m, ok)
	}
	if n := eng.Nodes(); n != 0 {
		t.Errorf("searched %d nodes for a forced move", n)
	}
}

func TestSearchLeavesPositionUnchanged(t *testing.T) {
	eng, pos := newTestEngine(t, board.StartFEN)
	before := *pos

	eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 3})
	if *pos != before {
		t.Error("Search modified the caller's position")
	}
}

func TestSearchHonorsDeadline(t *testing.T) {
	eng, pos := newTestEngine(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	start := time.Now()
	m, ok := eng.Search(context.Background(), pos, start.Add(100*time.Millisecond))
	elapsed := time.Since(start)

	if !ok || !isLegal(pos, m) {
		t.Fatalf("Search = %s, %v; want a legal move", m, ok)
	}
	// The hard stop is at most twice the allowance.
	if elapsed > time.Second {
		t.Errorf("search took %v", elapsed)
	}
}

func TestSearchCancelledContextStillMoves(t *testing.T) {
	eng, pos := newTestEngine(t, board.StartFEN)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m, ok := eng.Search(ctx, pos, time.Time{})
	if !ok || !isLegal(pos, m) {
		t.Errorf("Search = %s, %v; want a legal move", m, ok)
	}
}

func TestInterruptedIterationIsDiscarded(t *testing.T) {
	eng, pos := newTestEngine(t, board.StartFEN)
	// A hash-derived score makes the preferred root move change between
	// iterations and inside them.
	eng.eval = EvaluatorFunc(func(p *board.Position) int {
		return int(p.Hash%201) - 100
	})

	var last [4]board.Move
	reports := 0
	interrupted := false
	eng.OnInfo = func(info SearchInfo) {
		last[info.Depth] = info.Move
		if info.Depth != 3 {
			return
		}
		reports++
		// The first depth 3 report is the depth 2 move searched first.
		if reports == 2 {
			interrupted = true
			eng.Stop()
		}
	}

	m, ok := eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 3})
	if !ok {
		t.Fatal("Search found no move")
	}

	want := last[3]
	if interrupted {
		want = last[2]
		if last[3].SameAs(last[2]) {
			t.Fatalf("depth 3 improvement %s equals the depth 2 move", last[3])
		}
	} else {
		t.Logf("depth 3 never improved on %s", last[2])
	}
	if !m.SameAs(want) {
		t.Errorf("Search = %s, want %s (interrupted=%v)", m, want, interrupted)
	}
}

func TestSearchStartsWithCleanHistory(t *testing.T) {
	eng, pos := newTestEngine(t, "4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	eng.Cache().BumpHistory(board.WhiteKnight, board.F3, 20)

	if _, ok := eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 2}); !ok {
		t.Fatal("Search found no move")
	}
	if got := eng.Cache().History(board.WhiteKnight, board.F3); got != 0 {
		t.Errorf("history from before the search = %d, want 0", got)
	}
}

func TestParallelSearchReturnsLegalMove(t *testing.T) {
	eng, pos := newTestEngine(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	eng.SetThreads(4)

	var infos atomic.Int32
	eng.OnInfo = func(SearchInfo) { infos.Add(1) }

	m, ok := eng.SearchWithLimits(context.Background(), pos, SearchLimits{Depth: 3})
	if !ok || !isLegal(pos, m) {
		t.Errorf("Search = %s, %v; want a legal move", m, ok)
	}
	if infos.Load() == 0 {
		t.Error("no search info reported")
	}
}

func newTestSearcher(t *testing.T, fen string) *searcher {
	t.Helper()
	eng, pos := newTestEngine(t, fen)
	return eng.newSearcher(context.Background(), pos)
}

func TestQuiesceQuietPositionIsStandPat(t *testing.T) {
	s := newTestSearcher(t, "4k3/8/8/8/8/8/8/4K2R w K - 0 1")
	want := (Classical{}).Evaluate(s.pos)

	if got := s.quiesce(-Infinity, Infinity, 0); got != want {
		t.Errorf("quiesce = %d, want stand pat %d", got, want)
	}
}

func TestQuiesceResolvesCapture(t *testing.T) {
	s := newTestSearcher(t, "4k3/8/8/3q4/8/8/8/3RK3 w - - 0 1")

	m := mustMove(t, s.pos, "d1d5")
	s.pos.Make(m)
	want := (Classical{}).Evaluate(s.pos)
	s.pos.Unmake(m)

	if got := s.quiesce(-Infinity, Infinity, 0); got != want {
		t.Errorf("quiesce = %d, want %d", got, want)
	}
}

func TestQuiesceMatedInCheck(t *testing.T) {
	s := newTestSearcher(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")

	if got := s.quiesce(-Infinity, Infinity, 2); got != -MateScore+2 {
		t.Errorf("quiesce = %d, want %d", got, -MateScore+2)
	}
}

func TestNegamaxScoresStalemateAsDraw(t *testing.T) {
	s := newTestSearcher(t, "k7/8/1Q6/8/8/8/8/7K b - - 0 1")

	if got := s.negamax(-Infinity, Infinity, 2, 1); got != 0 {
		t.Errorf("negamax = %d, want 0", got)
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-5, "-0.05"},
		{MateScore - 1, "Mate in 1"},
		{MateScore - 3, "Mate in 2"},
		{-MateScore + 2, "Mated in 1"},
	}

	for _, tt := range tests {
		if got := ScoreToString(tt.score); got != tt.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
