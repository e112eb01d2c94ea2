package engine

import (
	"testing"

	"github.com/hailam/rayfish/internal/board"
)

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.ParseFEN(fen, nil)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func mustMove(t *testing.T, pos *board.Position, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(pos, s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

func TestSEE(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want int
	}{
		{"undefended pawn", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "e4d5", PawnValue},
		{"queen takes defended pawn", "4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1", "d1d5", PawnValue - QueenValue},
		{"rook takes defended knight", "4k3/8/2p5/3n4/8/8/8/3RK3 w - - 0 1", "d1d5", KnightValue - RookValue},
		{"pawn takes defended rook", "4k3/8/2p5/3r4/4P3/8/8/4K3 w - - 0 1", "e4d5", RookValue - PawnValue},
		{"promotion", "4k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", QueenValue - PawnValue},
		{"defended twice, attacked twice", "4k3/8/2p1p3/3p4/8/8/3R4/3RK3 w - - 0 1", "d2d5", PawnValue - RookValue},
		{"quiet move", "4k3/8/8/8/8/8/8/3RK3 w - - 0 1", "d1d5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := mustPosition(t, tt.fen)
			m := mustMove(t, pos, tt.move)
			before := *pos

			if got := SEE(pos, m); got != tt.want {
				t.Errorf("SEE(%s) = %d, want %d", tt.move, got, tt.want)
			}
			if *pos != before {
				t.Error("SEE modified the position")
			}
		})
	}
}

func TestSEEStopsWhenRecaptureLoses(t *testing.T) {
	// Black may recapture the knight with the queen but would then lose the
	// queen to the rook, so it stops after the first capture.
	pos := mustPosition(t, "3qk3/8/8/3p4/8/4N3/8/3RK3 w - - 0 1")
	m := mustMove(t, pos, "e3d5")

	if got := SEE(pos, m); got != PawnValue {
		t.Errorf("SEE = %d, want %d", got, PawnValue)
	}
}
