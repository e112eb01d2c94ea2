package engine

import (
	"time"

	"github.com/hailam/rayfish/internal/board"
)

// DefaultMoveTime is the allowance per move when no clock is given.
const DefaultMoveTime = 5 * time.Second

// UCILimits contains UCI time control parameters.
type UCILimits struct {
	Time      [2]time.Duration // wtime, btime (remaining time for each color)
	Inc       [2]time.Duration // winc, binc (increment per move)
	MovesToGo int              // moves until next time control (0 = sudden death)
	MoveTime  time.Duration    // fixed time per move (overrides other time controls)
	Depth     int              // maximum search depth
	Infinite  bool             // search until stopped
}

// TimeManager turns UCI limits into search limits.
type TimeManager struct {
	// MoveTime is used when neither a clock nor a fixed move time is given.
	MoveTime time.Duration
}

// NewTimeManager creates a time manager with the given fallback allowance.
// A non-positive value selects DefaultMoveTime.
func NewTimeManager(moveTime time.Duration) *TimeManager {
	if moveTime <= 0 {
		moveTime = DefaultMoveTime
	}
	return &TimeManager{MoveTime: moveTime}
}

// Allowance returns the time to spend on the move for side us at game ply.
// Zero means no time limit.
func (tm *TimeManager) Allowance(limits UCILimits, us board.Color, ply int) time.Duration {
	switch {
	case limits.Infinite:
		return 0
	case limits.MoveTime > 0:
		return limits.MoveTime
	case limits.Time[us] == 0:
		if limits.Depth > 0 {
			return 0
		}
		return tm.MoveTime
	}

	timeLeft := limits.Time[us]
	inc := limits.Inc[us]

	// Sudden death: expect fewer moves as the game goes on.
	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = min(max(50-ply/4, 10), 50)
	}

	allowance := timeLeft/time.Duration(mtg) + inc*9/10

	// Iterative deepening may run to twice the allowance, so keep that
	// within the clock.
	allowance = min(allowance, timeLeft*45/100)
	return max(allowance, 10*time.Millisecond)
}

// Limits converts UCI limits into search limits starting at start.
func (tm *TimeManager) Limits(limits UCILimits, us board.Color, ply int, start time.Time) SearchLimits {
	sl := SearchLimits{Depth: limits.Depth}
	if a := tm.Allowance(limits, us, ply); a > 0 {
		sl.Deadline = start.Add(a)
	}
	return sl
}
