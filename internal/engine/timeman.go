package engine

import (
	"time"

	"github.com/corentings/chess/v2"
)

// TimeManager turns the clock fields of Limits into a per-move budget.
type TimeManager struct {
	optimumTime time.Duration // target time for this move
	maximumTime time.Duration // hard ceiling
	startTime   time.Time
}

// Init sets up the budget for a new search. ply is the game half-move
// number, used to estimate how many moves remain.
func (tm *TimeManager) Init(limits Limits, us chess.Color, ply int) {
	tm.startTime = limits.Start
	if tm.startTime.IsZero() {
		tm.startTime = time.Now()
	}

	if limits.MoveTime > 0 {
		tm.optimumTime = limits.MoveTime
		tm.maximumTime = limits.MoveTime
		return
	}

	idx := ColorIdx(us)
	if limits.Infinite || limits.Time[idx] == 0 {
		tm.optimumTime = time.Hour
		tm.maximumTime = time.Hour
		return
	}

	timeLeft := limits.Time[idx]
	inc := limits.Inc[idx]

	mtg := limits.MovesToGo
	if mtg == 0 {
		// Sudden death: assume fewer moves remain as the game goes on.
		mtg = 50 - ply/4
		if mtg < 10 {
			mtg = 10
		}
	}

	baseTime := timeLeft / time.Duration(mtg)
	baseTime += inc * 9 / 10
	tm.optimumTime = baseTime

	maxFromOptimum := tm.optimumTime * 5
	maxFromRemaining := timeLeft * 8 / 10
	if maxFromOptimum < maxFromRemaining {
		tm.maximumTime = maxFromOptimum
	} else {
		tm.maximumTime = maxFromRemaining
	}

	safetyMargin := timeLeft * 95 / 100
	if tm.maximumTime > safetyMargin {
		tm.maximumTime = safetyMargin
	}

	if tm.optimumTime < 10*time.Millisecond {
		tm.optimumTime = 10 * time.Millisecond
	}
	if tm.maximumTime < 50*time.Millisecond {
		tm.maximumTime = 50 * time.Millisecond
	}
}

func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// ShouldStop reports whether the hard budget is spent.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.maximumTime
}

// PastOptimum reports whether starting another iteration is worth it.
func (tm *TimeManager) PastOptimum() bool {
	return tm.Elapsed() >= tm.optimumTime
}
