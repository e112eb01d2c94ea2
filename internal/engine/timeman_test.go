package engine

import (
	"testing"
	"time"

	"github.com/hailam/rayfish/internal/board"
)

func TestTimeManagerAllowance(t *testing.T) {
	tm := NewTimeManager(0)

	tests := []struct {
		name   string
		limits UCILimits
		us     board.Color
		ply    int
		want   time.Duration
	}{
		{"default", UCILimits{}, board.White, 0, DefaultMoveTime},
		{"movetime", UCILimits{MoveTime: 300 * time.Millisecond, Time: [2]time.Duration{time.Minute, time.Minute}}, board.White, 0, 300 * time.Millisecond},
		{"infinite", UCILimits{Infinite: true}, board.White, 0, 0},
		{"depth only", UCILimits{Depth: 6}, board.Black, 0, 0},
		{"sudden death", UCILimits{Time: [2]time.Duration{50 * time.Second, time.Second}}, board.White, 0, time.Second},
		{"increment", UCILimits{Time: [2]time.Duration{0, 50 * time.Second}, Inc: [2]time.Duration{0, time.Second}}, board.Black, 0, time.Second + 900*time.Millisecond},
		{"moves to go", UCILimits{Time: [2]time.Duration{40 * time.Second}, MovesToGo: 10}, board.White, 0, 4 * time.Second},
		{"low clock", UCILimits{Time: [2]time.Duration{time.Second}, MovesToGo: 1}, board.White, 0, 450 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tm.Allowance(tt.limits, tt.us, tt.ply); got != tt.want {
				t.Errorf("Allowance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeManagerLimits(t *testing.T) {
	tm := NewTimeManager(2 * time.Second)
	start := time.Now()

	sl := tm.Limits(UCILimits{Depth: 5}, board.White, 0, start)
	if !sl.Deadline.IsZero() || sl.Depth != 5 {
		t.Errorf("depth-only limits = %+v", sl)
	}

	sl = tm.Limits(UCILimits{}, board.White, 0, start)
	if got := sl.Deadline.Sub(start); got != 2*time.Second {
		t.Errorf("fallback allowance = %v, want 2s", got)
	}
}
