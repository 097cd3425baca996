package uci

import (
	"strconv"
	"time"

	"github.com/corentings/chess/v2"

	"github.com/finback-chess/finback/internal/board"
	"github.com/finback-chess/finback/internal/engine"
)

// parseGo turns the "go" token stream into search limits. Keywords are
// consumed in encountered order. "searchmoves" greedily takes every
// remaining token as a candidate move — a later "go" keyword cannot
// follow it in the same command. That matches the canonical protocol
// behavior and is deliberately left as is.
func (d *Driver) parseGo(args []string) engine.Limits {
	// Record the start time before parsing so parse latency never
	// charges against the clock budget.
	limits := engine.Limits{Start: time.Now()}

	num := func(i int) (int64, bool) {
		if i+1 >= len(args) {
			return 0, false
		}
		n, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for _, token := range args[i+1:] {
				if move := d.pos.MoveFromUCI(token); move != nil {
					limits.SearchMoves = append(limits.SearchMoves, move)
				}
			}
			i = len(args)
		case "wtime":
			if n, ok := num(i); ok {
				limits.Time[0] = time.Duration(n) * time.Millisecond
				i++
			}
		case "btime":
			if n, ok := num(i); ok {
				limits.Time[1] = time.Duration(n) * time.Millisecond
				i++
			}
		case "winc":
			if n, ok := num(i); ok {
				limits.Inc[0] = time.Duration(n) * time.Millisecond
				i++
			}
		case "binc":
			if n, ok := num(i); ok {
				limits.Inc[1] = time.Duration(n) * time.Millisecond
				i++
			}
		case "movestogo":
			if n, ok := num(i); ok {
				limits.MovesToGo = int(n)
				i++
			}
		case "depth":
			if n, ok := num(i); ok {
				limits.Depth = int(n)
				i++
			}
		case "nodes":
			if n, ok := num(i); ok {
				// A negative budget would wrap to near-infinity.
				if n > 0 {
					limits.Nodes = uint64(n)
				}
				i++
			}
		case "movetime":
			if n, ok := num(i); ok {
				limits.MoveTime = time.Duration(n) * time.Millisecond
				i++
			}
		case "mate":
			if n, ok := num(i); ok {
				limits.Mate = int(n)
				i++
			}
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		}
	}

	// The GUI's transmission delay comes out of our budget.
	if overhead := d.opts.GetInt("MoveOverhead"); overhead > 0 {
		for c := 0; c < 2; c++ {
			if limits.Time[c] > time.Duration(overhead)*time.Millisecond {
				limits.Time[c] -= time.Duration(overhead) * time.Millisecond
			}
		}
	}

	return limits
}

// handleGo parses the limits and hands the position, limits and replay
// stack to the coordinator. The only command that starts asynchronous
// work.
func (d *Driver) handleGo(args []string) {
	limits := d.parseGo(args)

	// Book probe before spinning up a search, for normal timed play
	// only.
	if d.book != nil && d.opts.GetBool("OwnBook") &&
		!limits.Infinite && !limits.Ponder && len(limits.SearchMoves) == 0 {
		if move := d.book.Probe(d.pos); move != nil {
			d.log.Debugf("book hit in %s", d.pos.FEN())
			d.send("bestmove %s", chess.UCINotation{}.Encode(d.pos.Inner(), move))
			return
		}
	}

	searchPos := d.pos.Copy()
	replay := d.replay.Copy()

	if eng, ok := d.eng.(*engine.Engine); ok {
		eng.OnInfo = d.sendInfo
	}

	d.coord.StartThinking(searchPos, limits, replay, func(res engine.Result) {
		d.emitBestMove(searchPos, res)
	})
}

// emitBestMove prints the search result. Runs on the search goroutine.
func (d *Driver) emitBestMove(searchPos *board.Position, res engine.Result) {
	if res.Best == nil {
		d.send("bestmove 0000")
		return
	}
	root := searchPos.Inner()
	best := chess.UCINotation{}.Encode(root, res.Best)
	if res.Ponder != nil {
		after := root.Update(res.Best)
		ponder := chess.UCINotation{}.Encode(after, res.Ponder)
		d.send("bestmove %s ponder %s", best, ponder)
		return
	}
	d.send("bestmove %s", best)
}
