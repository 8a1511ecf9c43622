package engine

import (
	"time"

	"github.com/matthiasgreen/chess-engine/internal/board"
)

// UCILimits holds the clock parameters of a UCI "go" command.
type UCILimits struct {
	Time      [2]time.Duration // remaining time, indexed by color
	Inc       [2]time.Duration // increment per move, indexed by color
	MovesToGo int              // 0 means sudden death
	MoveTime  time.Duration    // fixed time per move, overrides the clock
	Depth     int
	Infinite  bool
}

// InfiniteBudget is the search time used for "go infinite".
const InfiniteBudget = 10 * time.Second

// TimeManager turns clock limits into an iterative-deepening budget.
type TimeManager struct {
	// IterationShare is the fraction of the per-move time given to the
	// iterative-deepening loop. The last iteration runs past the check, so
	// the budget is kept below the allotted time.
	IterationShare float64
}

// NewTimeManager returns a TimeManager with default settings.
func NewTimeManager() *TimeManager {
	return &TimeManager{IterationShare: 0.5}
}

// Limits converts clock limits for side us at game ply into SearchLimits.
func (tm *TimeManager) Limits(limits UCILimits, us board.Color, ply int) SearchLimits {
	out := SearchLimits{Depth: limits.Depth}
	switch {
	case limits.MoveTime > 0:
		out.MoveTime = time.Duration(float64(limits.MoveTime) * tm.IterationShare)
	case limits.Infinite:
		// Searches are synchronous and cannot be stopped, so "infinite"
		// gets a long but finite budget.
		out.MoveTime = InfiniteBudget
	case limits.Time[us] > 0:
		out.MoveTime = time.Duration(float64(tm.allocate(limits, us, ply)) * tm.IterationShare)
	}
	if out.MoveTime < 0 {
		out.MoveTime = 0
	}
	return out
}

// allocate returns the time to spend on this move.
func (tm *TimeManager) allocate(limits UCILimits, us board.Color, ply int) time.Duration {
	left := limits.Time[us]
	mtg := limits.MovesToGo
	if mtg == 0 {
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
	}

	t := left/time.Duration(mtg) + limits.Inc[us]*9/10
	if ply < 8 {
		t = t * 85 / 100
	}
	if ceiling := left * 8 / 10; t > ceiling {
		t = ceiling
	}
	if t < 10*time.Millisecond {
		t = 10 * time.Millisecond
	}
	return t
}
