package engine

import "sync/atomic"

// Signals is the stop/ponder flag set shared between the dispatcher
// goroutine and the search goroutine. Every stop transition pairs the
// flag write with a wake notification, so a search sleeping between
// iterations can never miss it.
type Signals struct {
	stop            atomic.Bool
	stopOnPonderhit atomic.Bool
	ponder          atomic.Bool

	// wake is buffered so the notifying side never blocks and a
	// notification sent before the search starts waiting is kept.
	wake chan struct{}
}

func NewSignals() *Signals {
	return &Signals{wake: make(chan struct{}, 1)}
}

// NewSearch resets the flags for a fresh search.
func (s *Signals) NewSearch(ponder bool) {
	s.stop.Store(false)
	s.stopOnPonderhit.Store(false)
	s.ponder.Store(ponder)
	// Drop a stale wake left over from the previous search.
	select {
	case <-s.wake:
	default:
	}
}

// RequestStop sets the stop flag and wakes the search goroutine, which
// may be sleeping in a ponder or infinite wait.
func (s *Signals) RequestStop() {
	s.stop.Store(true)
	s.notify()
}

func (s *Signals) StopRequested() bool { return s.stop.Load() }

// PonderHit switches the ongoing search from pondering to normal time
// management without restarting it.
func (s *Signals) PonderHit() {
	s.ponder.Store(false)
	s.notify()
}

func (s *Signals) PonderActive() bool { return s.ponder.Load() }

func (s *Signals) SetStopOnPonderhit()   { s.stopOnPonderhit.Store(true) }
func (s *Signals) StopOnPonderhit() bool { return s.stopOnPonderhit.Load() }

// Wake exposes the notification channel the search waits on.
func (s *Signals) Wake() <-chan struct{} { return s.wake }

func (s *Signals) notify() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
