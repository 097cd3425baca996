package engine

import (
	"time"

	"github.com/corentings/chess/v2"
)

// Limits carries the constraints parsed from the "go" command. Numeric
// fields are zero when the command did not mention them.
type Limits struct {
	Time        [2]time.Duration // remaining clock per color
	Inc         [2]time.Duration // increment per move per color
	MovesToGo   int              // moves to the next time control
	Depth       int              // fixed depth
	Nodes       uint64           // fixed node budget
	MoveTime    time.Duration    // fixed time for this move
	Mate        int              // search for mate in N
	Infinite    bool
	Ponder      bool
	SearchMoves []*chess.Move // restrict the root to these moves
	Start       time.Time     // recorded before parsing began
}

// ColorIdx maps a color to the Time/Inc array index.
func ColorIdx(c chess.Color) int {
	if c == chess.White {
		return 0
	}
	return 1
}

// UseTimeManagement reports whether the clock fields drive the search
// rather than a fixed depth/nodes/movetime constraint.
func (l Limits) UseTimeManagement() bool {
	return !l.Infinite && l.MoveTime == 0 &&
		(l.Time[0] > 0 || l.Time[1] > 0)
}
