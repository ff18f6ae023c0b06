// Package audio plays game cues without blocking the UI loop.
//
// An Engine owns a backend and a worker goroutine. Cues are loaded once at
// setup and referred to by core.CueHandle afterwards. Play only queues the
// handle; a full queue drops the cue, since sound is cosmetic.
package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/game"
	"github.com/vovakirdan/numtap/internal/registry"
)

// DefaultQueueSize is the number of pending cues an engine buffers.
const DefaultQueueSize = 16

// Engine is a scoped audio resource. Create it with Open or With and
// release it with Close.
type Engine struct {
	backend registry.Backend
	logger  *log.Logger

	mu   sync.RWMutex
	cues []string                  // cue ID by handle-1
	ids  map[string]core.CueHandle // handle by cue ID

	queue     chan core.CueHandle
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error

	played  atomic.Int64
	dropped atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithQueueSize sets the play queue capacity.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queue = make(chan core.CueHandle, n)
		}
	}
}

// WithLogger attaches a logger for backend failures.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// Open starts an engine on top of backend. The engine owns the backend
// from now on and closes it in Close.
func Open(backend registry.Backend, opts ...Option) *Engine {
	e := &Engine{
		backend: backend,
		ids:     make(map[string]core.CueHandle),
		queue:   make(chan core.CueHandle, DefaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.wg.Add(1)
	go e.run()

	return e
}

// OpenNamed creates the named backend from the registry and opens an
// engine on it.
func OpenNamed(name string, env registry.Env, opts ...Option) (*Engine, error) {
	backend, err := registry.Create(name, env)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	if env.Logger != nil {
		opts = append([]Option{WithLogger(env.Logger)}, opts...)
	}
	return Open(backend, opts...), nil
}

// With opens an engine, runs fn and closes the engine on every exit path,
// including a panic inside fn.
func With(backend registry.Backend, fn func(*Engine) error, opts ...Option) (err error) {
	e := Open(backend, opts...)
	defer func() {
		if cerr := e.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(e)
}

// run emits queued cues until the engine is closed.
func (e *Engine) run() {
	defer e.wg.Done()

	for {
		select {
		case <-e.done:
			return
		case h := <-e.queue:
			e.emit(h)
		}
	}
}

func (e *Engine) emit(h core.CueHandle) {
	id, ok := e.cueID(h)
	if !ok {
		return
	}

	if err := e.backend.Emit(id); err != nil {
		if e.logger != nil {
			e.logger.Debug("cue playback failed", "cue", id, "backend", e.backend.Name(), "error", err)
		}
		return
	}
	e.played.Add(1)
}

// LoadCue registers a cue ID and returns its handle.
// Loading the same ID twice returns the same handle.
func (e *Engine) LoadCue(id string) core.CueHandle {
	e.mu.Lock()
	defer e.mu.Unlock()

	if h, ok := e.ids[id]; ok {
		return h
	}

	e.cues = append(e.cues, id)
	h := core.CueHandle(len(e.cues))
	e.ids[id] = h
	return h
}

// LoadCueSet loads the ready cue and one note cue per button label.
// Empty IDs are skipped, leaving that moment silent.
func (e *Engine) LoadCueSet(ready string, notes map[int]string) game.CueSet {
	set := game.CueSet{Notes: make(map[int]core.CueHandle, len(notes))}
	if ready != "" {
		set.Ready = e.LoadCue(ready)
	}
	for value, id := range notes {
		if id == "" {
			continue
		}
		set.Notes[value] = e.LoadCue(id)
	}
	return set
}

// CueID returns the ID a handle was loaded with.
func (e *Engine) CueID(h core.CueHandle) (string, bool) {
	return e.cueID(h)
}

func (e *Engine) cueID(h core.CueHandle) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !h.Valid() || int(h) > len(e.cues) {
		return "", false
	}
	return e.cues[h-1], true
}

// Play queues a cue and returns immediately. Unknown handles, a full queue
// and a closed engine all drop the cue.
func (e *Engine) Play(h core.CueHandle) {
	if !h.Valid() {
		return
	}

	select {
	case <-e.done:
		return
	default:
	}

	select {
	case e.queue <- h:
	default:
		e.dropped.Add(1)
	}
}

// Stats returns how many cues were emitted and how many were dropped.
func (e *Engine) Stats() (played, dropped int64) {
	return e.played.Load(), e.dropped.Load()
}

// Backend returns the name of the backend in use.
func (e *Engine) Backend() string {
	return e.backend.Name()
}

// Close stops the worker and releases the backend. Safe to call more than
// once; later calls return the first result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		e.wg.Wait()
		if err := e.backend.Close(); err != nil {
			e.closeErr = fmt.Errorf("audio: close %s backend: %w", e.backend.Name(), err)
		}
	})
	return e.closeErr
}

var _ game.Audio = (*Engine)(nil)
