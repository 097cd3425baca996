package board

import "github.com/corentings/chess/v2"

// ReplayEntry records the state reached after one replayed move.
type ReplayEntry struct {
	Key           string
	HalfmoveClock int
	Move          *chess.Move
}

// ReplayStack keeps the states along the setup moves, from the start
// position to the position just before the search starts. Repetition
// detection walks it to find recurring positions. A fresh stack is
// built on every "position" command.
type ReplayStack struct {
	entries []ReplayEntry
}

func NewReplayStack() *ReplayStack {
	return &ReplayStack{}
}

// Push records the position reached after applying move.
func (s *ReplayStack) Push(pos *Position, move *chess.Move) {
	s.entries = append(s.entries, ReplayEntry{
		Key:           pos.RepetitionKey(),
		HalfmoveClock: pos.HalfmoveClock(),
		Move:          move,
	})
}

// Root records the position the move list started from.
func (s *ReplayStack) Root(pos *Position) {
	s.entries = append(s.entries, ReplayEntry{
		Key:           pos.RepetitionKey(),
		HalfmoveClock: pos.HalfmoveClock(),
	})
}

// Depth returns the number of moves accepted while replaying.
func (s *ReplayStack) Depth() int {
	n := len(s.entries)
	if n == 0 {
		return 0
	}
	return n - 1 // the root entry carries no move
}

// Keys returns the repetition keys along the replayed history,
// root first.
func (s *ReplayStack) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// Occurrences counts how often key appears in the recorded history.
func (s *ReplayStack) Occurrences(key string) int {
	n := 0
	for _, e := range s.entries {
		if e.Key == key {
			n++
		}
	}
	return n
}

// Copy returns an independent snapshot handed to the search goroutine.
func (s *ReplayStack) Copy() *ReplayStack {
	cp := &ReplayStack{entries: make([]ReplayEntry, len(s.entries))}
	copy(cp.entries, s.entries)
	return cp
}
