package uci

import (
	"sync"

	"github.com/finback-chess/finback/internal/board"
	"github.com/finback-chess/finback/internal/engine"
	"github.com/finback-chess/finback/internal/logx"
)

// Coordinator owns the search goroutine. At most one search runs at a
// time; starting another while one is active is a protocol violation
// by the controller and is not defended against here.
type Coordinator struct {
	eng engine.Searcher
	sig *engine.Signals
	log logx.Logger

	mu   sync.Mutex
	done chan struct{}
}

func NewCoordinator(eng engine.Searcher, sig *engine.Signals, log logx.Logger) *Coordinator {
	closed := make(chan struct{})
	close(closed)
	return &Coordinator{eng: eng, sig: sig, log: log, done: closed}
}

// StartThinking launches the search on its own goroutine and returns
// immediately. emit receives the result exactly once, from the search
// goroutine, after the engine has released the shared state.
func (c *Coordinator) StartThinking(pos *board.Position, limits engine.Limits, replay *board.ReplayStack, emit func(engine.Result)) {
	c.sig.NewSearch(limits.Ponder)

	done := make(chan struct{})
	c.mu.Lock()
	c.done = done
	c.mu.Unlock()

	go func() {
		defer close(done)
		res := c.eng.Search(pos, limits, replay, c.sig)
		emit(res)
	}()
}

// Done returns a channel closed once the current search has finished.
// When no search is running the channel is already closed.
func (c *Coordinator) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Searching reports whether a search is currently in flight.
func (c *Coordinator) Searching() bool {
	select {
	case <-c.Done():
		return false
	default:
		return true
	}
}

// StopAndWait requests a stop and blocks until the search goroutine is
// idle. Used on quit/shutdown; the plain "stop" command never blocks.
func (c *Coordinator) StopAndWait() {
	c.sig.RequestStop()
	<-c.Done()
}
