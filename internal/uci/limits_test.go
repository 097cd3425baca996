package uci

import (
	"testing"
	"time"
)

func TestParseGoClockAndDepth(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("setoption name MoveOverhead value 0")
	d.Dispatch("position startpos")
	d.Dispatch("go wtime 300000 btime 300000 movestogo 40 depth 10")
	waitIdle(t, d)

	limits := fake.limits()
	if limits.Time[0] != 300*time.Second || limits.Time[1] != 300*time.Second {
		t.Errorf("times = %v/%v, want 5m each", limits.Time[0], limits.Time[1])
	}
	if limits.MovesToGo != 40 {
		t.Errorf("movestogo = %d, want 40", limits.MovesToGo)
	}
	if limits.Depth != 10 {
		t.Errorf("depth = %d, want 10", limits.Depth)
	}
	if limits.Infinite || limits.Ponder {
		t.Error("flags set without their keywords")
	}
}

func TestParseGoMoveOverhead(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("setoption name MoveOverhead value 100")
	d.Dispatch("position startpos")
	d.Dispatch("go wtime 10000 btime 10000")
	waitIdle(t, d)

	limits := fake.limits()
	want := 9900 * time.Millisecond
	if limits.Time[0] != want || limits.Time[1] != want {
		t.Errorf("times = %v/%v, want %v each", limits.Time[0], limits.Time[1], want)
	}
}

func TestParseGoSearchmovesSwallowsRest(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("position startpos")
	// Everything after searchmoves is a move candidate; "depth 10"
	// never parses as a keyword here.
	d.Dispatch("go searchmoves e2e4 d2d4 depth 10")
	waitIdle(t, d)

	limits := fake.limits()
	if len(limits.SearchMoves) != 2 {
		t.Fatalf("searchmoves accepted %d moves, want 2", len(limits.SearchMoves))
	}
	if limits.Depth != 0 {
		t.Errorf("depth = %d, want 0 (token swallowed)", limits.Depth)
	}
}

func TestParseGoSearchmovesBeforeOtherKeywords(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("setoption name MoveOverhead value 0")
	d.Dispatch("position startpos")
	// Keywords before searchmoves still apply.
	d.Dispatch("go movetime 500 searchmoves e2e4")
	waitIdle(t, d)

	limits := fake.limits()
	if limits.MoveTime != 500*time.Millisecond {
		t.Errorf("movetime = %v, want 500ms", limits.MoveTime)
	}
	if len(limits.SearchMoves) != 1 {
		t.Errorf("searchmoves accepted %d moves, want 1", len(limits.SearchMoves))
	}
}

func TestParseGoInfiniteAndPonderFlags(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	fake.hold = true
	d.Dispatch("position startpos")
	d.Dispatch("go infinite ponder")

	d.Dispatch("stop")
	waitIdle(t, d)

	limits := fake.limits()
	if !limits.Infinite {
		t.Error("infinite flag not set")
	}
	if !limits.Ponder {
		t.Error("ponder flag not set")
	}
}

func TestParseGoIgnoresMalformedNumbers(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("position startpos")
	d.Dispatch("go depth banana nodes 100")
	waitIdle(t, d)

	limits := fake.limits()
	if limits.Depth != 0 {
		t.Errorf("depth = %d, want 0", limits.Depth)
	}
	if limits.Nodes != 100 {
		t.Errorf("nodes = %d, want 100", limits.Nodes)
	}
}

func TestParseGoRejectsNegativeNodes(t *testing.T) {
	d, fake, _ := newTestDriver(t)
	d.Dispatch("position startpos")
	d.Dispatch("go nodes -5 depth 1")
	waitIdle(t, d)

	if got := fake.limits().Nodes; got != 0 {
		t.Errorf("nodes = %d, want 0 for a negative token", got)
	}
}
