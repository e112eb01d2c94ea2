package board

import (
	"errors"
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
)

var crossCheckFENs = []string{
	StartFEN,
	kiwipeteFEN + " 0 1",
	position3 + " 0 1",
	position4,
	position5,
	"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1",
	"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
	"8/8/8/2k5/3Pp3/8/8/4K2R b K d3 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5Q2/PPPP1PPP/RNB1K1NR w KQkq - 2 3",
	"4k3/1P6/8/8/8/8/6p1/4K2R w K - 0 1",
}

func legalStrings(pos *Position) []string {
	legal := GenerateLegalMoves(pos)
	out := make([]string, 0, legal.Len())
	for _, m := range legal.Slice() {
		out = append(out, m.String())
	}
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLegalMovesMatchDragontooth(t *testing.T) {
	for _, fen := range crossCheckFENs {
		pos, err := ParseFEN(fen, nil)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		ref := dragontoothmg.ParseFen(fen)
		var want []string
		for _, m := range ref.GenerateLegalMoves() {
			want = append(want, m.String())
		}
		sort.Strings(want)

		if got := legalStrings(pos); !equalStrings(got, want) {
			t.Errorf("%s\n got  %v\n want %v", fen, got, want)
		}
	}
}

func TestLegalMovesMatchNotnilChess(t *testing.T) {
	for _, fen := range crossCheckFENs {
		pos, err := ParseFEN(fen, nil)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		opt, err := chess.FEN(fen)
		if err != nil {
			t.Fatalf("chess.FEN(%q): %v", fen, err)
		}
		game := chess.NewGame(opt)
		var want []string
		for _, m := range game.ValidMoves() {
			want = append(want, m.String())
		}
		sort.Strings(want)

		if got := legalStrings(pos); !equalStrings(got, want) {
			t.Errorf("%s\n got  %v\n want %v", fen, got, want)
		}
	}
}

func TestCapturesAndQuietsPartitionMoves(t *testing.T) {
	for _, fen := range crossCheckFENs {
		pos, err := ParseFEN(fen, nil)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		var caps, quiets MoveList
		GenerateCaptures(pos, &caps)
		GenerateQuiets(pos, &quiets)

		for _, m := range caps.Slice() {
			if !m.IsCapture() && !m.IsPromotion() {
				t.Errorf("%s: %s in capture stage is not tactical", fen, m)
			}
		}
		for _, m := range quiets.Slice() {
			if m.IsCapture() || m.IsPromotion() {
				t.Errorf("%s: %s in quiet stage is tactical", fen, m)
			}
			if pos.PieceAt(m.To) != NoPiece {
				t.Errorf("%s: quiet %s lands on an occupied square", fen, m)
			}
		}
	}
}

func TestCastlingThroughAttackRejected(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		ok   bool
	}{
		{"clear", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "e1g1", true},
		{"f1 attacked", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", "e1g1", false},
		{"king in check", "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1", "e1c1", false},
		{"b1 attacked only", "r3k2r/8/8/8/8/8/1r6/R3K2R w KQkq - 0 1", "e1c1", true},
		{"corridor blocked", "r3k2r/8/8/8/8/8/8/RN2K2R w KQkq - 0 1", "e1c1", false},
		{"no right", "r3k2r/8/8/8/8/8/8/R3K2R w Qkq - 0 1", "e1g1", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen, nil)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			var ml MoveList
			GenerateQuiets(pos, &ml)

			found := false
			for _, m := range ml.Slice() {
				if m.String() == tc.move && m.IsCastle() {
					found = true
				}
			}
			if found != tc.ok {
				t.Errorf("castle %s generated = %v, want %v", tc.move, found, tc.ok)
			}
		})
	}
}

func TestCheckmateHasNoLegalMoves(t *testing.T) {
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1", nil)
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	if !pos.InCheck() {
		t.Error("expected black to be in check")
	}
	if legal := GenerateLegalMoves(pos); legal.Len() != 0 {
		t.Errorf("legal moves = %d, want 0", legal.Len())
	}
}

func TestParseMoveKinds(t *testing.T) {
	tests := []struct {
		fen      string
		move     string
		kind     MoveKind
		captured Piece
	}{
		{StartFEN, "e2e4", DoublePush, NoPiece},
		{StartFEN, "g1f3", Quiet, NoPiece},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5f6", EnPassantCapture, BlackPawn},
		{"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3", "e5d6", Quiet, NoPiece},
		{"r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", "e8c8", CastleBlackQueen, NoPiece},
		{"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "a1a8", Capture, BlackRook},
		{"1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7b8n", PromotionCapture, BlackRook},
		{"1r2k3/P7/8/8/8/8/8/4K3 w - - 0 1", "a7a8q", Promotion, NoPiece},
	}

	for _, tc := range tests {
		t.Run(tc.move, func(t *testing.T) {
			pos, err := ParseFEN(tc.fen, nil)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			m, err := ParseMove(pos, tc.move)
			if err != nil {
				t.Fatalf("ParseMove: %v", err)
			}
			if m.Kind != tc.kind || m.Captured != tc.captured {
				t.Errorf("kind %d captured %s, want kind %d captured %s", m.Kind, m.Captured, tc.kind, tc.captured)
			}
			if m.String() != tc.move {
				t.Errorf("String() = %s, want %s", m, tc.move)
			}

			legal := GenerateLegalMoves(pos)
			if gen, ok := legal.Find(m); ok && gen != m && tc.kind != Quiet {
				t.Errorf("parsed %+v differs from generated %+v", m, gen)
			}
		})
	}

	pos := NewPosition(nil)
	for _, s := range []string{"e2", "e3e4", "e7e5", "e2e4k", "z9e4"} {
		if _, err := ParseMove(pos, s); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrIllegalMove", s, err)
		}
	}
}
