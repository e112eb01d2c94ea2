package board

import "testing"

const (
	kiwipeteFEN = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -"
	position3   = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -"
	position4   = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
	position5   = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
)

func TestPerft(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []uint64 // indexed by depth-1
	}{
		{"startpos", StartFEN, []uint64{20, 400, 8902, 197281}},
		{"kiwipete", kiwipeteFEN, []uint64{48, 2039, 97862}},
		{"position3", position3, []uint64{14, 191, 2812, 43238}},
		{"position4", position4, []uint64{6, 264, 9467}},
		{"position5", position5, []uint64{44, 1486, 62379}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen, nil)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			before := *pos

			for i, want := range tc.expected {
				depth := i + 1
				if testing.Short() && depth > 3 {
					break
				}
				if got := Perft(pos, depth); got != want {
					t.Errorf("perft(%d) = %d, want %d", depth, got, want)
				}
			}

			if *pos != before {
				t.Errorf("position changed after perft")
			}
		})
	}
}

func TestDivideSumsToPerft(t *testing.T) {
	pos, err := ParseFEN(kiwipeteFEN, nil)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	var total uint64
	entries := Divide(pos, 2)
	for _, e := range entries {
		total += e.Nodes
	}
	if len(entries) != 48 {
		t.Errorf("divide root moves = %d, want 48", len(entries))
	}
	if total != 2039 {
		t.Errorf("divide total = %d, want 2039", total)
	}
}
