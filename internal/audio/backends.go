package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/numtap/internal/registry"
)

// Backend names shipped with numtap.
const (
	BackendBell   = "bell"
	BackendSilent = "silent"
	BackendLog    = "log"
)

func init() {
	registry.Register(BackendBell, func(env registry.Env) registry.Backend {
		return NewBell(env.Out)
	})
	registry.Register(BackendSilent, func(registry.Env) registry.Backend {
		return Silent{}
	})
	registry.Register(BackendLog, func(env registry.Env) registry.Backend {
		return NewLogBackend(env.Logger)
	})
}

// bel is the ASCII bell; terminals beep or flash on it.
const bel = "\a"

// Bell rings the terminal bell for every cue. Terminals have a single
// bell, so every note sounds the same.
type Bell struct {
	mu  sync.Mutex
	out io.Writer
}

// NewBell creates a bell backend writing to out.
func NewBell(out io.Writer) *Bell {
	if out == nil {
		out = io.Discard
	}
	return &Bell{out: out}
}

func (b *Bell) Name() string        { return BackendBell }
func (b *Bell) Description() string { return "Ring the terminal bell on every cue" }

// Emit writes a single BEL to the terminal.
func (b *Bell) Emit(string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.out == nil {
		return nil
	}
	if _, err := io.WriteString(b.out, bel); err != nil {
		return fmt.Errorf("bell: %w", err)
	}
	return nil
}

// Close detaches the bell from its writer.
func (b *Bell) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out = nil
	return nil
}

// Silent discards every cue.
type Silent struct{}

func (Silent) Name() string        { return BackendSilent }
func (Silent) Description() string { return "No sound" }
func (Silent) Emit(string) error   { return nil }
func (Silent) Close() error        { return nil }

// LogBackend writes each cue to a logger, useful on headless servers and
// when debugging cue mappings.
type LogBackend struct {
	logger *log.Logger
}

// NewLogBackend creates a log backend. A nil logger uses the default one.
func NewLogBackend(l *log.Logger) *LogBackend {
	if l == nil {
		l = log.Default()
	}
	return &LogBackend{logger: l.WithPrefix("cue")}
}

func (l *LogBackend) Name() string        { return BackendLog }
func (l *LogBackend) Description() string { return "Log every cue instead of playing it" }

// Emit logs the cue at info level.
func (l *LogBackend) Emit(cue string) error {
	l.logger.Info("play", "cue", cue)
	return nil
}

func (l *LogBackend) Close() error { return nil }
