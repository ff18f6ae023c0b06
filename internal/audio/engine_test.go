package audio

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/registry"
)

// recorder is a backend that reports every emitted cue on a channel.
type recorder struct {
	emitted chan string
	block   chan struct{} // When non-nil, Emit waits on it
	fail    bool

	mu     sync.Mutex
	closed int
}

func newRecorder() *recorder {
	return &recorder{emitted: make(chan string, 64)}
}

func (r *recorder) Name() string        { return "recorder" }
func (r *recorder) Description() string { return "test recorder" }

func (r *recorder) Emit(cue string) error {
	if r.block != nil {
		<-r.block
	}
	if r.fail {
		return errors.New("device unavailable")
	}
	r.emitted <- cue
	return nil
}

func (r *recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

func (r *recorder) closeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func waitCue(t *testing.T, r *recorder) string {
	t.Helper()
	select {
	case cue := <-r.emitted:
		return cue
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for cue")
		return ""
	}
}

func TestLoadCue(t *testing.T) {
	e := Open(newRecorder())
	defer e.Close()

	do := e.LoadCue("do")
	re := e.LoadCue("re")

	if !do.Valid() || !re.Valid() {
		t.Fatalf("handles should be valid, got %d and %d", do, re)
	}
	if do == re {
		t.Error("different cues should get different handles")
	}
	if again := e.LoadCue("do"); again != do {
		t.Errorf("reloading a cue gave %d, want %d", again, do)
	}

	if id, ok := e.CueID(re); !ok || id != "re" {
		t.Errorf("CueID(%d) = %q, %v", re, id, ok)
	}
	if _, ok := e.CueID(core.CueHandle(99)); ok {
		t.Error("CueID should fail for an unknown handle")
	}
	if _, ok := e.CueID(core.NoCue); ok {
		t.Error("CueID should fail for NoCue")
	}
}

func TestPlayEmitsInOrder(t *testing.T) {
	r := newRecorder()
	e := Open(r)
	defer e.Close()

	notes := []string{"do", "re", "mi", "fa"}
	handles := make([]core.CueHandle, len(notes))
	for i, n := range notes {
		handles[i] = e.LoadCue(n)
	}

	for _, h := range handles {
		e.Play(h)
	}

	for _, want := range notes {
		if got := waitCue(t, r); got != want {
			t.Errorf("emitted %q, want %q", got, want)
		}
	}
}

func TestPlayDoesNotBlock(t *testing.T) {
	r := newRecorder()
	r.block = make(chan struct{})
	e := Open(r, WithQueueSize(2))

	h := e.LoadCue("do")

	done := make(chan struct{})
	go func() {
		// Far more than the queue holds while the backend is stuck
		for i := 0; i < 50; i++ {
			e.Play(h)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Play blocked on a stalled backend")
	}

	_, dropped := e.Stats()
	if dropped == 0 {
		t.Error("expected dropped cues with a full queue")
	}

	close(r.block)
	e.Close()
}

func TestPlayIgnoresInvalidHandles(t *testing.T) {
	r := newRecorder()
	e := Open(r)

	e.Play(core.NoCue)
	e.Play(core.CueHandle(42)) // Never loaded

	e.Close()

	if len(r.emitted) != 0 {
		t.Errorf("expected nothing emitted, got %d cues", len(r.emitted))
	}
	if played, _ := e.Stats(); played != 0 {
		t.Errorf("played = %d, want 0", played)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	r := newRecorder()
	e := Open(r)

	if err := e.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close() failed: %v", err)
	}
	if r.closeCount() != 1 {
		t.Errorf("backend closed %d times, want 1", r.closeCount())
	}

	// Play after close is a no-op
	e.Play(e.LoadCue("do"))
}

func TestWithReleasesOnError(t *testing.T) {
	r := newRecorder()
	boom := errors.New("boom")

	err := With(r, func(e *Engine) error {
		e.Play(e.LoadCue("do"))
		return boom
	})

	if !errors.Is(err, boom) {
		t.Errorf("With() = %v, want %v", err, boom)
	}
	if r.closeCount() != 1 {
		t.Errorf("backend closed %d times, want 1", r.closeCount())
	}
}

func TestWithReleasesOnPanic(t *testing.T) {
	r := newRecorder()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate out of With")
			}
		}()
		//nolint:errcheck // Panics before returning
		With(r, func(*Engine) error {
			panic("teardown")
		})
	}()

	if r.closeCount() != 1 {
		t.Errorf("backend closed %d times after panic, want 1", r.closeCount())
	}
}

func TestBackendErrorIsLogged(t *testing.T) {
	var logs bytes.Buffer
	logger := log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})

	r := newRecorder()
	r.fail = true
	e := Open(r, WithLogger(logger))
	e.Play(e.LoadCue("do"))
	e.Close()

	// The worker may exit before picking up the cue; only check when it ran
	if played, _ := e.Stats(); played != 0 {
		t.Errorf("failed cue counted as played")
	}
	if logs.Len() > 0 && !strings.Contains(logs.String(), "cue playback failed") {
		t.Errorf("unexpected log output: %q", logs.String())
	}
}

func TestLoadCueSet(t *testing.T) {
	e := Open(newRecorder())
	defer e.Close()

	set := e.LoadCueSet("ready", map[int]string{1: "do", 2: "re", 3: ""})

	if id, _ := e.CueID(set.Ready); id != "ready" {
		t.Errorf("ready cue = %q", id)
	}
	if id, _ := e.CueID(set.Note(2)); id != "re" {
		t.Errorf("note 2 = %q", id)
	}
	if set.Note(3).Valid() {
		t.Error("empty cue ID should leave the note silent")
	}
	if set.Note(8).Valid() {
		t.Error("unmapped note should be NoCue")
	}
}

func TestOpenNamed(t *testing.T) {
	var out bytes.Buffer
	e, err := OpenNamed(BackendBell, registry.Env{Out: &out})
	if err != nil {
		t.Fatalf("OpenNamed() failed: %v", err)
	}
	if e.Backend() != BackendBell {
		t.Errorf("Backend() = %q", e.Backend())
	}
	e.Close()

	if _, err := OpenNamed("theremin", registry.Env{}); err == nil {
		t.Error("OpenNamed should fail for an unknown backend")
	}
}
