package engine

import (
	"testing"

	"github.com/hailam/rayfish/internal/board"
)

func TestMoveOrderPopsHighestFirst(t *testing.T) {
	pos := board.NewPosition(nil)
	var ml board.MoveList
	board.GenerateMoves(pos, &ml)

	var o moveOrder
	scores := []int{5, -3, 40, 0, 40, 17}
	for i, s := range scores {
		o.add(ml.Get(i), s)
	}

	prev := HashMoveScore
	for n := len(scores); n > 0; n-- {
		if got := o.Len(); got != n {
			t.Fatalf("Len = %d, want %d", got, n)
		}
		m, ok := o.Next()
		if !ok {
			t.Fatal("Next ran out early")
		}
		score := scoreOf(t, ml, scores, m)
		if score > prev {
			t.Errorf("Next returned %d after %d", score, prev)
		}
		prev = score
	}
	if _, ok := o.Next(); ok {
		t.Error("Next returned a move after all were consumed")
	}
}

func scoreOf(t *testing.T, ml board.MoveList, scores []int, m board.Move) int {
	t.Helper()
	for i := range scores {
		if ml.Get(i).SameAs(m) {
			return scores[i]
		}
	}
	t.Fatalf("unknown move %s", m)
	return 0
}

func TestCaptureStageOrder(t *testing.T) {
	// The queen on d5 is defended by e6, the pawn on b5 by a6.
	pos := mustPosition(t, "4k3/8/p3p3/1p1q4/2P5/8/8/3RK3 w - - 0 1")
	hash := mustMove(t, pos, "e1f1")

	var o moveOrder
	o.captures(pos, hash)

	want := []string{"e1f1", "c4d5", "d1d5", "c4b5"}
	for _, w := range want {
		m, ok := o.Next()
		if !ok {
			t.Fatalf("ran out of moves, want %s", w)
		}
		if m.String() != w {
			t.Errorf("got %s, want %s", m, w)
		}
	}
	if _, ok := o.Next(); ok {
		t.Error("capture stage returned extra moves")
	}
}

func TestQuietStageOrder(t *testing.T) {
	pos := board.NewPosition(nil)
	c := NewCache(1, pos.Keys())
	var k killers

	nf3 := mustMove(t, pos, "g1f3")
	e4 := mustMove(t, pos, "e2e4")
	d4 := mustMove(t, pos, "d2d4")
	a3 := mustMove(t, pos, "a2a3")

	k.push(d4, 2)
	k.push(nf3, 2)
	c.BumpHistory(a3.Piece, a3.To, 5)

	var o moveOrder
	o.quiets(pos, c, &k, 2, e4)

	want := []board.Move{nf3, d4, a3}
	for _, w := range want {
		m, _ := o.Next()
		if !m.SameAs(w) {
			t.Errorf("got %s, want %s", m, w)
		}
	}
	for m, ok := o.Next(); ok; m, ok = o.Next() {
		if m.SameAs(e4) {
			t.Error("quiet stage repeated the hash move")
		}
	}
}

func TestKillersKeepTwoDistinct(t *testing.T) {
	pos := board.NewPosition(nil)
	a := mustMove(t, pos, "e2e4")
	b := mustMove(t, pos, "d2d4")

	var k killers
	k.push(a, 0)
	k.push(a, 0)
	k.push(b, 0)

	if s, ok := k.score(b, 0); !ok || s != CaptureOffset+1 {
		t.Errorf("newest killer score = %d, %v", s, ok)
	}
	if s, ok := k.score(a, 0); !ok || s != CaptureOffset {
		t.Errorf("older killer score = %d, %v", s, ok)
	}
	if _, ok := k.score(a, 1); ok {
		t.Error("killer leaked to another ply")
	}
}

func TestQuiesceOrderDropsLosingCaptures(t *testing.T) {
	pos := mustPosition(t, "4k3/8/2p5/3p4/4P3/8/8/3QK3 w - - 0 1")

	var o moveOrder
	o.quiesce(pos)

	m, ok := o.Next()
	if !ok || m.String() != "e4d5" {
		t.Fatalf("first quiescence move = %s, %v; want e4d5", m, ok)
	}
	if m, ok := o.Next(); ok {
		t.Errorf("unexpected quiescence move %s", m)
	}
}
