// Package engine defines the search boundary the UCI driver talks to:
// the Limits/Signals protocol and a reference alpha-beta searcher.
// Pairing the driver with a stronger engine only means implementing
// Searcher.
package engine

import (
	"time"

	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
)

// Info is one progress report emitted during the search.
type Info struct {
	Depth int
	Score int // centipawns, or a mate score (see IsMateScore)
	Nodes uint64
	Time  time.Duration
	PV    []string
}

// Result is what a finished or stopped search hands back.
type Result struct {
	Best   *chess.Move
	Ponder *chess.Move
	Nodes  uint64
}

// Searcher is the engine capability the driver coordinates. Search
// blocks until natural completion or until Signals carries a stop; the
// coordinator provides the goroutine it runs on.
type Searcher interface {
	Search(pos *board.Position, limits Limits, replay *board.ReplayStack, sig *Signals) Result
	Clear()
	Evaluate(pos *board.Position) int
}

// Engine is the bundled reference searcher: iterative deepening
// alpha-beta over the board capability.
type Engine struct {
	// OnInfo receives a progress report after each completed depth.
	OnInfo func(Info)

	tm         TimeManager
	totalNodes uint64
}

func New() *Engine {
	return &Engine{}
}

// Clear resets accumulated search state for a new game.
func (e *Engine) Clear() {
	e.totalNodes = 0
}

// TotalNodes reports the nodes accumulated since the last Clear.
func (e *Engine) TotalNodes() uint64 { return e.totalNodes }

// Search runs iterative deepening until a limit is hit or a stop
// arrives. In ponder or infinite mode it holds the result until the
// dispatcher signals stop or ponderhit.
func (e *Engine) Search(pos *board.Position, limits Limits, replay *board.ReplayStack, sig *Signals) Result {
	e.tm.Init(limits, pos.Turn(), pos.GamePly())

	s := &searcher{
		sig:       sig,
		tm:        &e.tm,
		nodeLimit: limits.Nodes,
		replay:    replay,
		timeBound: func() bool {
			return !limits.Infinite && !sig.PonderActive()
		},
	}

	root := pos.Inner()
	rootMoves := root.ValidMoves()
	if len(limits.SearchMoves) > 0 {
		rootMoves = filterRootMoves(rootMoves, limits.SearchMoves)
	}
	orderMoves(rootMoves)

	depthLimit := maxDepth
	if limits.Depth > 0 && limits.Depth < depthLimit {
		depthLimit = limits.Depth
	}
	if limits.Mate > 0 {
		// Mate in N moves is at most 2N-1 plies deep.
		if d := 2*limits.Mate - 1; d < depthLimit {
			depthLimit = d
		}
	}

	var (
		bestScore int
		bestLine  []*chess.Move
	)
	for depth := 1; depth <= depthLimit && len(rootMoves) > 0; depth++ {
		score, line := s.searchRoot(root, rootMoves, depth)
		if s.stopped && len(bestLine) > 0 {
			break // discard the interrupted iteration
		}
		if len(line) > 0 {
			bestScore, bestLine = score, line
		}
		if e.OnInfo != nil {
			e.OnInfo(Info{
				Depth: depth,
				Score: bestScore,
				Nodes: s.nodes,
				Time:  e.tm.Elapsed(),
				PV:    encodeLine(root, bestLine),
			})
		}
		if s.shouldStop() {
			break
		}
		if s.timeBound() && e.tm.PastOptimum() {
			break
		}
		if limits.Mate > 0 && IsMateScore(bestScore) && MateIn(bestScore) <= limits.Mate {
			break
		}
	}
	e.totalNodes += s.nodes

	// Finishing while still pondering means a later ponderhit has
	// nothing left to confirm and must act like a stop.
	if sig.PonderActive() {
		sig.SetStopOnPonderhit()
	}

	// In infinite or ponder mode the result is held back until the
	// dispatcher says otherwise. The wake channel guarantees a stop or
	// ponderhit issued at any point gets through.
	for (limits.Infinite || sig.PonderActive()) && !sig.StopRequested() {
		<-sig.Wake()
	}

	res := Result{Nodes: s.nodes}
	if len(bestLine) > 0 {
		res.Best = bestLine[0]
	}
	if len(bestLine) > 1 {
		res.Ponder = bestLine[1]
	}
	return res
}

func filterRootMoves(moves []chess.Move, allowed []*chess.Move) []chess.Move {
	var out []chess.Move
	for _, m := range moves {
		for _, a := range allowed {
			if m.S1() == a.S1() && m.S2() == a.S2() && m.Promo() == a.Promo() {
				out = append(out, m)
				break
			}
		}
	}
	return out
}
