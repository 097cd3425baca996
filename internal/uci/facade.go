package uci

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/finback-chess/finback/internal/logx"
	"github.com/finback-chess/finback/internal/storage"
)

var (
	// ErrNotRunning is returned by Submit before Init or after
	// Shutdown/quit.
	ErrNotRunning = errors.New("engine is not running")
	// ErrEmptyCommand is returned when the host hands over a blank
	// line.
	ErrEmptyCommand = errors.New("empty command line")
	// ErrQueueFull is returned when the host outruns the dispatcher.
	ErrQueueFull = errors.New("command queue full")
)

// Facade is the three-entry-point boundary an embedding host drives:
// Init, Submit, Shutdown. Submissions may come from any goroutine;
// they are serialized into a single ordered stream before reaching the
// dispatcher.
type Facade struct {
	cfg   Config
	log   logx.Logger
	store *storage.Store

	mu      sync.Mutex
	driver  *Driver
	lines   chan string
	done    chan struct{}
	running bool
}

// NewFacade builds a facade. store may be nil to disable option
// persistence.
func NewFacade(cfg Config, store *storage.Store) *Facade {
	log := cfg.Log
	if log == nil {
		log = logx.Nop{}
		cfg.Log = log
	}
	return &Facade{cfg: cfg, log: log, store: store}
}

// Init allocates the engine state and starts the dispatcher goroutine.
// Idempotent per facade lifetime; must be called before Submit.
func (f *Facade) Init() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.running {
		return nil
	}

	f.driver = NewDriver(f.cfg)

	if f.store != nil {
		values, err := f.store.LoadOptions()
		if err != nil {
			f.log.Warnf("persisted options unavailable: %v", err)
		} else {
			for name, value := range values {
				if f.driver.Options().Has(name) {
					if err := f.driver.Options().Set(name, value); err != nil {
						f.log.Warnf("persisted option %s dropped: %v", name, err)
					}
				}
			}
		}
	}

	f.lines = make(chan string, 128)
	f.done = make(chan struct{})
	f.running = true
	go f.loop(f.driver, f.lines, f.done)
	return nil
}

// Submit feeds exactly one protocol command line. It never blocks on
// the search; "go" dispatches to the search goroutine internally.
func (f *Facade) Submit(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return ErrEmptyCommand
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return ErrNotRunning
	}
	select {
	case f.lines <- line:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops any active search, drains queued commands, persists
// option values and releases resources. Submit after Shutdown fails
// with ErrNotRunning.
func (f *Facade) Shutdown() {
	f.mu.Lock()
	done := f.done
	if f.running {
		f.running = false
		close(f.lines)
	}
	f.mu.Unlock()

	if done != nil {
		<-done
	}
	if f.store != nil {
		if err := f.store.Close(); err != nil {
			f.log.Warnf("store close: %v", err)
		}
		f.store = nil
	}
	_ = f.log.Sync()
}

// Done is closed once the dispatcher goroutine has exited, whether by
// "quit" or by Shutdown.
func (f *Facade) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *Facade) loop(d *Driver, lines <-chan string, done chan struct{}) {
	defer close(done)

	for line := range lines {
		if d.Dispatch(line) {
			break
		}
		// Option changes are durable right away; a killed process keeps
		// its settings.
		if strings.HasPrefix(line, "setoption") {
			f.persist(d)
		}
	}
	d.coord.StopAndWait()
	f.persist(d)

	f.mu.Lock()
	f.running = false
	f.mu.Unlock()
}

func (f *Facade) persist(d *Driver) {
	if f.store == nil {
		return
	}
	if err := f.store.SaveOptions(d.Options().Values()); err != nil {
		f.log.Warnf("options not persisted: %v", err)
	}
}

// RunLines pumps lines from r through Submit until quit or EOF, then
// shuts down. The stdin loop of the standalone binary.
func (f *Facade) RunLines(r io.Reader) error {
	if err := f.Init(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(r)
scan:
	for scanner.Scan() {
		line := scanner.Text()
		for {
			err := f.Submit(line)
			if err == nil || errors.Is(err, ErrEmptyCommand) {
				continue scan
			}
			if errors.Is(err, ErrNotRunning) {
				break scan
			}
			// Queue full: the dispatcher is a strict consumer, wait
			// for it to catch up rather than dropping the command.
			time.Sleep(5 * time.Millisecond)
		}
	}
	f.Shutdown()
	return scanner.Err()
}
