// Package uci implements the Universal Chess Interface driver: the
// command dispatcher, position reconstruction, search-limits parsing
// and the coordination protocol between the command goroutine and the
// search goroutine.
package uci

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/finback-chess/finback/internal/board"
	"github.com/finback-chess/finback/internal/book"
	"github.com/finback-chess/finback/internal/engine"
	"github.com/finback-chess/finback/internal/logx"
)

const (
	engineName   = "Finback"
	engineAuthor = "the Finback developers"
)

// Config wires a Driver together.
type Config struct {
	Log      logx.Logger
	Out      io.Writer // protocol responses; stdout when nil
	Engine   engine.Searcher
	BookPath string // preloaded "Book File" value, may be empty
}

// Driver is the protocol state machine. One goroutine feeds Dispatch;
// the search runs on the goroutine owned by the Coordinator and
// communicates back through Signals and the emit callback.
type Driver struct {
	log   logx.Logger
	out   io.Writer
	outMu sync.Mutex

	opts  *Options
	eng   engine.Searcher
	sig   *engine.Signals
	coord *Coordinator

	pos    *board.Position
	replay *board.ReplayStack

	book *book.Book

	handlers map[string]func(*Driver, []string)
	quitting bool
}

func NewDriver(cfg Config) *Driver {
	if cfg.Log == nil {
		cfg.Log = logx.Nop{}
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Engine == nil {
		cfg.Engine = engine.New()
	}

	sig := engine.NewSignals()
	d := &Driver{
		log:    cfg.Log,
		out:    cfg.Out,
		opts:   NewOptions(),
		eng:    cfg.Engine,
		sig:    sig,
		coord:  NewCoordinator(cfg.Engine, sig, cfg.Log),
		pos:    board.NewPosition(board.Standard),
		replay: board.NewReplayStack(),
	}
	d.registerOptions(cfg.BookPath)
	d.registerHandlers()
	return d
}

// Options exposes the option store for persistence at the facade
// boundary.
func (d *Driver) Options() *Options { return d.opts }

// Coordinator exposes search lifecycle state for the facade and tests.
func (d *Driver) Coordinator() *Coordinator { return d.coord }

// Position returns the authoritative position. Dispatcher-side use
// only.
func (d *Driver) Position() *board.Position { return d.pos }

// ReplayDepth reports how many setup moves the last "position"
// command accepted.
func (d *Driver) ReplayDepth() int { return d.replay.Depth() }

func (d *Driver) registerOptions(bookPath string) {
	d.opts.Register(Option{Name: "Hash", Type: OptionSpin, Default: "64", Min: 1, Max: 4096})
	d.opts.Register(Option{Name: "Ponder", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "MoveOverhead", Type: OptionSpin, Default: "30", Min: 0, Max: 5000})
	d.opts.Register(Option{Name: "OwnBook", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "Book File", Type: OptionString, Default: bookPath,
		OnChange: func(value string) { d.loadBook(value) }})

	// Variant toggles, combined into a bitmask when "position" runs.
	d.opts.Register(Option{Name: "UCI_Chess960", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_Atomic", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_Horde", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_House", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_KingOfTheHill", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_Race", Type: OptionCheck, Default: "false"})
	d.opts.Register(Option{Name: "UCI_3Check", Type: OptionCheck, Default: "false"})

	if bookPath != "" {
		d.loadBook(bookPath)
	}
}

func (d *Driver) registerHandlers() {
	d.handlers = map[string]func(*Driver, []string){
		"uci":        (*Driver).handleUCI,
		"isready":    (*Driver).handleIsReady,
		"ucinewgame": (*Driver).handleNewGame,
		"setoption":  (*Driver).handleSetOption,
		"position":   (*Driver).handlePosition,
		"go":         (*Driver).handleGo,
		"stop":       (*Driver).handleStop,
		"ponderhit":  (*Driver).handlePonderhit,
		"quit":       (*Driver).handleQuit,

		// Debug commands, diagnostic output only.
		"d":     (*Driver).handleDisplay,
		"flip":  (*Driver).handleFlip,
		"eval":  (*Driver).handleEval,
		"perft": (*Driver).handlePerft,
	}
}

// Dispatch processes one protocol line and reports whether the
// session should end. Unknown commands are diagnosed, never fatal.
func (d *Driver) Dispatch(line string) (quit bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	handler, ok := d.handlers[fields[0]]
	if !ok {
		d.send("Unknown command: %s", line)
		return false
	}
	handler(d, fields[1:])
	return d.quitting
}

// Run feeds Dispatch from r until quit, EOF or a read error, then
// waits for any in-flight search.
func (d *Driver) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if d.Dispatch(scanner.Text()) {
			break
		}
	}
	d.coord.StopAndWait()
	return scanner.Err()
}

func (d *Driver) send(format string, args ...interface{}) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	fmt.Fprintf(d.out, format+"\n", args...)
}

func (d *Driver) handleUCI(args []string) {
	d.outMu.Lock()
	fmt.Fprintf(d.out, "id name %s\n", engineName)
	fmt.Fprintf(d.out, "id author %s\n", engineAuthor)
	fmt.Fprintln(d.out)
	d.opts.WriteUCI(d.out)
	fmt.Fprintln(d.out, "uciok")
	d.outMu.Unlock()
}

func (d *Driver) handleIsReady(args []string) {
	d.send("readyok")
}

func (d *Driver) handleNewGame(args []string) {
	d.eng.Clear()
}

func (d *Driver) handleStop(args []string) {
	// Set-and-wake is one protocol step; the search may be sleeping in
	// a ponder or infinite wait and must still see it.
	d.sig.RequestStop()
}

func (d *Driver) handleQuit(args []string) {
	d.sig.RequestStop()
	d.quitting = true
}

// handlePonderhit confirms the predicted move was played. When the
// search already wanted to stop (stopOnPonderhit), this behaves like
// "stop"; otherwise the search keeps running and switches from
// pondering to normal time management.
func (d *Driver) handlePonderhit(args []string) {
	if d.sig.StopOnPonderhit() {
		d.sig.RequestStop()
		return
	}
	d.sig.PonderHit()
}

// handleSetOption parses "setoption name <name> value <value>" where
// both name and value may contain spaces.
func (d *Driver) handleSetOption(args []string) {
	var nameParts, valueParts []string
	target := &nameParts

	for _, arg := range args {
		switch arg {
		case "name":
			target = &nameParts
		case "value":
			target = &valueParts
		default:
			*target = append(*target, arg)
		}
	}

	name := strings.Join(nameParts, " ")
	value := strings.Join(valueParts, " ")

	if err := d.opts.Set(name, value); err != nil {
		if errors.Is(err, ErrUnknownOption) {
			d.send("No such option: %s", name)
		} else {
			d.send("info string %v", err)
		}
		return
	}
	d.log.Debugf("option %s = %q", name, value)
}

func (d *Driver) loadBook(path string) {
	if path == "" {
		d.book = nil
		return
	}
	b, err := book.LoadPolyglot(path)
	if err != nil {
		d.log.Warnf("opening book unavailable: %v", err)
		d.send("info string Book not loaded: %v", err)
		d.book = nil
		return
	}
	d.book = b
	d.log.Infof("opening book loaded: %s (%d positions)", path, b.Len())
}

// activeVariants derives the variant bitmask from the option table.
// Read at "position" time, never cached.
func (d *Driver) activeVariants() board.Variant {
	v := board.Standard
	for opt, flag := range map[string]board.Variant{
		"UCI_Chess960":      board.Chess960,
		"UCI_Atomic":        board.Atomic,
		"UCI_Horde":         board.Horde,
		"UCI_House":         board.House,
		"UCI_KingOfTheHill": board.KingOfTheHill,
		"UCI_Race":          board.Race,
		"UCI_3Check":        board.ThreeCheck,
	} {
		if d.opts.GetBool(opt) {
			v |= flag
		}
	}
	return v
}

func (d *Driver) handleDisplay(args []string) {
	d.send("%s", d.pos.String())
}

// handleFlip prints the mirrored position without touching the
// authoritative state.
func (d *Driver) handleFlip(args []string) {
	flipped, err := d.pos.Flip()
	if err != nil {
		d.send("info string flip failed: %v", err)
		return
	}
	d.send("%s", flipped.String())
}

func (d *Driver) handleEval(args []string) {
	score := d.eng.Evaluate(d.pos)
	d.send("Static eval: %+d cp (side to move)", score)
}

func (d *Driver) handlePerft(args []string) {
	depth := 5
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			depth = n
		}
	}

	start := time.Now()
	nodes := board.Perft(d.pos, depth)
	elapsed := time.Since(start)

	d.send("Nodes: %d", nodes)
	d.send("Time: %v", elapsed)
	if elapsed > 0 {
		d.send("NPS: %.0f", float64(nodes)/elapsed.Seconds())
	}
}

// sendInfo renders one search progress report.
func (d *Driver) sendInfo(info engine.Info) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	if engine.IsMateScore(info.Score) {
		parts = append(parts, fmt.Sprintf("score mate %d", engine.MateIn(info.Score)))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		nps := uint64(float64(info.Nodes) / info.Time.Seconds())
		parts = append(parts, fmt.Sprintf("nps %d", nps))
	}
	if len(info.PV) > 0 {
		parts = append(parts, "pv "+strings.Join(info.PV, " "))
	}

	d.send("info %s", strings.Join(parts, " "))
}
