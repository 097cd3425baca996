package engine

import (
	"testing"
	"time"

	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
)

func mustPosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.FromFEN(fen, board.Standard)
	if err != nil {
		t.Fatalf("FromFEN(%q): %v", fen, err)
	}
	return pos
}

func encodeBest(pos *board.Position, res Result) string {
	if res.Best == nil {
		return "0000"
	}
	return chess.UCINotation{}.Encode(pos.Inner(), res.Best)
}

func TestSearchFindsMateInOne(t *testing.T) {
	pos := mustPosition(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	replay := board.NewReplayStack()
	replay.Root(pos)

	eng := New()
	sig := NewSignals()
	sig.NewSearch(false)

	res := eng.Search(pos, Limits{Depth: 3, Start: time.Now()}, replay, sig)
	if got := encodeBest(pos, res); got != "a1a8" {
		t.Errorf("best move = %s, want a1a8", got)
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	pos := mustPosition(t, board.StartFEN)
	replay := board.NewReplayStack()
	replay.Root(pos)

	eng := New()
	sig := NewSignals()
	sig.NewSearch(false)

	const limit = 2000
	res := eng.Search(pos, Limits{Nodes: limit, Start: time.Now()}, replay, sig)
	if res.Best == nil {
		t.Fatal("no best move under node limit")
	}
	// The limit is polled every stopCheckInterval nodes, bounding the
	// overshoot.
	if res.Nodes > limit+stopCheckInterval {
		t.Errorf("searched %d nodes, limit was %d", res.Nodes, limit)
	}
}

func TestSearchMovesRestrictsRoot(t *testing.T) {
	pos := mustPosition(t, board.StartFEN)
	replay := board.NewReplayStack()
	replay.Root(pos)

	only := pos.MoveFromUCI("a2a3")
	if only == nil {
		t.Fatal("a2a3 should be legal from the start position")
	}

	eng := New()
	sig := NewSignals()
	sig.NewSearch(false)

	res := eng.Search(pos, Limits{Depth: 2, SearchMoves: []*chess.Move{only}, Start: time.Now()}, replay, sig)
	if got := encodeBest(pos, res); got != "a2a3" {
		t.Errorf("best move = %s, want a2a3", got)
	}
}

func TestInfiniteSearchStopsOnRequest(t *testing.T) {
	pos := mustPosition(t, board.StartFEN)
	replay := board.NewReplayStack()
	replay.Root(pos)

	eng := New()
	sig := NewSignals()
	sig.NewSearch(false)

	done := make(chan Result, 1)
	go func() {
		done <- eng.Search(pos, Limits{Infinite: true, Start: time.Now()}, replay, sig)
	}()

	time.Sleep(50 * time.Millisecond)
	sig.RequestStop()

	select {
	case res := <-done:
		if res.Best == nil {
			t.Error("infinite search returned no move")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("infinite search did not stop after RequestStop")
	}
}

func TestPonderSearchHoldsUntilPonderhit(t *testing.T) {
	pos := mustPosition(t, board.StartFEN)
	replay := board.NewReplayStack()
	replay.Root(pos)

	eng := New()
	sig := NewSignals()
	sig.NewSearch(true)

	done := make(chan Result, 1)
	go func() {
		done <- eng.Search(pos, Limits{Depth: 2, Ponder: true, Start: time.Now()}, replay, sig)
	}()

	// Depth 2 finishes quickly, but the result must be held back.
	select {
	case <-done:
		t.Fatal("ponder search returned before ponderhit")
	case <-time.After(100 * time.Millisecond):
	}
	if !sig.StopOnPonderhit() {
		t.Error("finished ponder search should arm stopOnPonderhit")
	}

	sig.PonderHit()
	sig.RequestStop() // drives the armed search out of its hold

	select {
	case res := <-done:
		if res.Best == nil {
			t.Error("ponder search returned no move")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ponder search did not return after ponderhit")
	}
}

func TestTimeManagerMoveTime(t *testing.T) {
	var tm TimeManager
	tm.Init(Limits{MoveTime: 100 * time.Millisecond, Start: time.Now()}, chess.White, 0)
	if tm.ShouldStop() {
		t.Error("budget spent immediately")
	}
	if tm.PastOptimum() {
		t.Error("past optimum immediately")
	}
}

func TestTimeManagerClock(t *testing.T) {
	var limits Limits
	limits.Start = time.Now()
	limits.Time[0] = time.Minute
	limits.Inc[0] = time.Second
	limits.MovesToGo = 40

	var tm TimeManager
	tm.Init(limits, chess.White, 0)

	if tm.optimumTime <= 0 {
		t.Fatal("no optimum budget from a live clock")
	}
	if tm.maximumTime < tm.optimumTime {
		t.Errorf("maximum %v below optimum %v", tm.maximumTime, tm.optimumTime)
	}
	if tm.maximumTime > limits.Time[0] {
		t.Errorf("maximum %v exceeds remaining time %v", tm.maximumTime, limits.Time[0])
	}
}

func TestEvaluateMaterial(t *testing.T) {
	up := mustPosition(t, "k7/8/8/8/8/8/8/3QK3 w - - 0 1")
	eng := New()
	if score := eng.Evaluate(up); score <= 0 {
		t.Errorf("queen up scored %d for the side to move", score)
	}
}

func TestMateScoreHelpers(t *testing.T) {
	if !IsMateScore(MateScore - 3) {
		t.Error("near-mate score not recognized")
	}
	if IsMateScore(150) {
		t.Error("centipawn score flagged as mate")
	}
	if got := MateIn(MateScore - 1); got != 1 {
		t.Errorf("MateIn = %d, want 1", got)
	}
}
