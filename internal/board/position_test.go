package board

import (
	"strings"
	"testing"
)

func TestNewPositionStartFEN(t *testing.T) {
	pos := NewPosition(Standard)
	if pos.FEN() != StartFEN {
		t.Errorf("startpos FEN = %q, want %q", pos.FEN(), StartFEN)
	}
	if pos.GamePly() != 0 {
		t.Errorf("startpos ply = %d, want 0", pos.GamePly())
	}
}

func TestStartingFENPrecedence(t *testing.T) {
	cases := []struct {
		variants Variant
		want     string
	}{
		{Standard, StartFEN},
		{Chess960, StartFEN},
		{Atomic | ThreeCheck, StartFEN},
		{Horde, StartFENHorde},
		{Race, StartFENRace},
		// Horde wins when flags disagree about the layout.
		{Horde | Race, StartFENHorde},
		{Horde | Chess960 | Atomic, StartFENHorde},
	}
	for _, c := range cases {
		if got := c.variants.StartingFEN(); got != c.want {
			t.Errorf("StartingFEN(%s) = %q, want %q", c.variants, got, c.want)
		}
	}
}

func TestFromFENRejectsGarbage(t *testing.T) {
	if _, err := FromFEN("not a fen at all", Standard); err == nil {
		t.Fatal("expected error for malformed FEN")
	}
}

func TestApplyAndRepetitionKey(t *testing.T) {
	pos := NewPosition(Standard)
	key0 := pos.RepetitionKey()
	if strings.Contains(key0, " 0 1") {
		t.Errorf("repetition key %q still carries move clocks", key0)
	}

	move := pos.MoveFromUCI("e2e4")
	if move == nil {
		t.Fatal("e2e4 should be legal from the start position")
	}
	pos.Apply(move)

	if pos.RepetitionKey() == key0 {
		t.Error("repetition key unchanged after a move")
	}
	if pos.HalfmoveClock() != 0 {
		t.Errorf("halfmove clock = %d after a pawn move, want 0", pos.HalfmoveClock())
	}
}

func TestMoveFromUCIRejectsIllegal(t *testing.T) {
	pos := NewPosition(Standard)
	for _, token := range []string{"zz99", "e2e5", "e7e5", "e2"} {
		if m := pos.MoveFromUCI(token); m != nil {
			t.Errorf("token %q resolved to a move, want nil", token)
		}
	}
}

func TestCopyIsIndependent(t *testing.T) {
	pos := NewPosition(Standard)
	cp := pos.Copy()
	cp.Apply(cp.MoveFromUCI("e2e4"))

	if pos.FEN() == cp.FEN() {
		t.Error("mutating the copy changed the original")
	}
	if cp.Variants() != pos.Variants() {
		t.Error("copy lost the variant flags")
	}
}

func TestFlipMirrors(t *testing.T) {
	pos := NewPosition(Standard)
	flipped, err := pos.Flip()
	if err != nil {
		t.Fatalf("Flip failed: %v", err)
	}
	// The start position is symmetric, so only the side to move and
	// move counters can differ.
	fields := strings.Fields(flipped.FEN())
	if fields[0] != strings.Fields(StartFEN)[0] {
		t.Errorf("flipped placement = %q", fields[0])
	}
	if fields[1] != "b" {
		t.Errorf("flipped side to move = %q, want b", fields[1])
	}
	if fields[2] != "KQkq" {
		t.Errorf("flipped castling = %q, want KQkq", fields[2])
	}

	// Round trip restores the original.
	back, err := flipped.Flip()
	if err != nil {
		t.Fatalf("second Flip failed: %v", err)
	}
	if back.FEN() != pos.FEN() {
		t.Errorf("double flip = %q, want %q", back.FEN(), pos.FEN())
	}
}

func TestReplayStackDepth(t *testing.T) {
	pos := NewPosition(Standard)
	stack := NewReplayStack()
	stack.Root(pos)

	for _, token := range []string{"e2e4", "e7e5", "g1f3"} {
		move := pos.MoveFromUCI(token)
		if move == nil {
			t.Fatalf("move %q unexpectedly illegal", token)
		}
		pos.Apply(move)
		stack.Push(pos, move)
	}

	if stack.Depth() != 3 {
		t.Errorf("stack depth = %d, want 3", stack.Depth())
	}
	if len(stack.Keys()) != 4 {
		t.Errorf("stack keys = %d, want 4 (root + 3 moves)", len(stack.Keys()))
	}
}

func TestReplayStackOccurrences(t *testing.T) {
	pos := NewPosition(Standard)
	stack := NewReplayStack()
	stack.Root(pos)

	// Knights shuffle back and forth: the start position recurs.
	startKey := pos.RepetitionKey()
	for _, token := range []string{"g1f3", "g8f6", "f3g1", "f6g8"} {
		move := pos.MoveFromUCI(token)
		pos.Apply(move)
		stack.Push(pos, move)
	}

	if n := stack.Occurrences(startKey); n != 2 {
		t.Errorf("start position occurrences = %d, want 2", n)
	}
}

func TestPolyglotHashStable(t *testing.T) {
	pos := NewPosition(Standard)
	h1 := pos.PolyglotHash()
	h2 := pos.PolyglotHash()
	if h1 != h2 {
		t.Errorf("hash not stable: %016x != %016x", h1, h2)
	}

	pos.Apply(pos.MoveFromUCI("e2e4"))
	if pos.PolyglotHash() == h1 {
		t.Error("hash unchanged after a move")
	}
	t.Logf("start position key: %016x", h1)
}

func TestPolyglotHashTransposition(t *testing.T) {
	a := NewPosition(Standard)
	for _, token := range []string{"e2e4", "e7e5", "g1f3", "b8c6"} {
		a.Apply(a.MoveFromUCI(token))
	}
	b := NewPosition(Standard)
	for _, token := range []string{"g1f3", "b8c6", "e2e4", "e7e5"} {
		b.Apply(b.MoveFromUCI(token))
	}
	if a.PolyglotHash() != b.PolyglotHash() {
		t.Errorf("transposed move orders hash differently: %016x != %016x",
			a.PolyglotHash(), b.PolyglotHash())
	}
}

func TestPerft(t *testing.T) {
	pos := NewPosition(Standard)
	cases := []struct {
		depth int
		want  uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
	}
	for _, c := range cases {
		if got := Perft(pos, c.depth); got != c.want {
			t.Errorf("perft(%d) = %d, want %d", c.depth, got, c.want)
		}
	}
}
