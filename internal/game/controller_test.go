package game

import (
	"math/rand"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/numtap/internal/core"
)

// recordingDisplay captures every display command.
type recordingDisplay struct {
	calls   []string
	grid    []int
	hidden  map[int]bool
	status  string
	control string
}

func newRecordingDisplay() *recordingDisplay {
	return &recordingDisplay{hidden: make(map[int]bool)}
}

func (d *recordingDisplay) RenderGrid(labels []int) {
	d.calls = append(d.calls, "grid")
	d.grid = labels
	d.hidden = make(map[int]bool)
}

func (d *recordingDisplay) HideElement(label int) {
	d.calls = append(d.calls, "hide")
	d.hidden[label] = true
}

func (d *recordingDisplay) SetStatusText(text string) {
	d.calls = append(d.calls, "status")
	d.status = text
}

func (d *recordingDisplay) SetControlLabel(text string) {
	d.calls = append(d.calls, "control")
	d.control = text
}

// recordingAudio captures played cue handles.
type recordingAudio struct {
	played []core.CueHandle
}

func (a *recordingAudio) Play(h core.CueHandle) {
	a.played = append(a.played, h)
}

// manualClock only moves when told to.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testCues() CueSet {
	notes := make(map[int]core.CueHandle, Count)
	for v := 1; v <= Count; v++ {
		notes[v] = core.CueHandle(v + 1)
	}
	return CueSet{Ready: 1, Notes: notes}
}

func newTestController(t *testing.T) (*Controller, *recordingDisplay, *recordingAudio, *manualClock) {
	t.Helper()
	d := newRecordingDisplay()
	a := &recordingAudio{}
	clk := &manualClock{now: time.Unix(1000, 0)}
	ctl := New(d, a,
		WithClock(clk),
		WithRand(rand.New(rand.NewSource(42))),
		WithCues(testCues()),
	)
	return ctl, d, a, clk
}

func TestControllerStartsIdle(t *testing.T) {
	ctl, d, a, _ := newTestController(t)

	if ctl.State() != StateIdle {
		t.Errorf("State() = %v, want idle", ctl.State())
	}
	if _, ok := ctl.Session(); ok {
		t.Error("Session() should report no session before start")
	}

	// Taps before start are ignored
	if got := ctl.Tap(1); got != OutcomeIgnored {
		t.Errorf("Tap(1) before start = %v, want ignored", got)
	}
	if len(d.calls) != 0 || len(a.played) != 0 {
		t.Errorf("expected no side effects before start, got display=%v audio=%v", d.calls, a.played)
	}
}

func TestStartRendersGridAndPlaysReadyCue(t *testing.T) {
	ctl, d, a, _ := newTestController(t)

	if got := ctl.Start(); got != OutcomeStarted {
		t.Fatalf("Start() = %v, want started", got)
	}

	if ctl.State() != StateInProgress {
		t.Errorf("State() = %v, want in_progress", ctl.State())
	}

	snap, ok := ctl.Session()
	if !ok {
		t.Fatal("Session() should exist after start")
	}
	if snap.Next != 1 {
		t.Errorf("Next = %d, want 1", snap.Next)
	}
	if snap.Completed {
		t.Error("new session should not be completed")
	}
	if snap.ID == "" {
		t.Error("session should have an ID")
	}

	if len(d.grid) != Count {
		t.Fatalf("RenderGrid got %d labels, want %d", len(d.grid), Count)
	}
	for i := range d.grid {
		if d.grid[i] != snap.Order[i] {
			t.Errorf("grid[%d] = %d, want session order %d", i, d.grid[i], snap.Order[i])
		}
	}

	labels := DefaultLabels()
	if d.status != labels.Ready {
		t.Errorf("status = %q, want %q", d.status, labels.Ready)
	}
	if d.control != labels.Start {
		t.Errorf("control = %q, want %q", d.control, labels.Start)
	}

	if len(a.played) != 1 || a.played[0] != testCues().Ready {
		t.Errorf("played = %v, want only the ready cue", a.played)
	}
}

func TestStartProducesPermutation(t *testing.T) {
	ctl, _, _, _ := newTestController(t)

	for i := 0; i < 200; i++ {
		ctl.Start()
		snap, _ := ctl.Session()

		if len(snap.Order) != Count {
			t.Fatalf("order length = %d, want %d", len(snap.Order), Count)
		}

		sorted := append([]int(nil), snap.Order...)
		sort.Ints(sorted)
		for j, v := range sorted {
			if v != j+1 {
				t.Fatalf("order %v is not a permutation of 1..%d", snap.Order, Count)
			}
		}
	}
}

func TestOutOfOrderTapIsIgnored(t *testing.T) {
	ctl, d, a, _ := newTestController(t)
	ctl.Start()

	callsBefore := len(d.calls)
	playedBefore := len(a.played)

	for _, v := range []int{0, 2, 3, 8, 9, -1} {
		if got := ctl.Tap(v); got != OutcomeIgnored {
			t.Errorf("Tap(%d) = %v, want ignored", v, got)
		}
	}

	snap, _ := ctl.Session()
	if snap.Next != 1 {
		t.Errorf("Next = %d after ignored taps, want 1", snap.Next)
	}
	if snap.Completed {
		t.Error("ignored taps must not complete the session")
	}
	if len(d.calls) != callsBefore {
		t.Errorf("ignored taps changed display: %v", d.calls[callsBefore:])
	}
	if len(a.played) != playedBefore {
		t.Errorf("ignored taps played audio: %v", a.played[playedBefore:])
	}
}

func TestRepeatedTapIsIgnored(t *testing.T) {
	ctl, d, _, _ := newTestController(t)
	ctl.Start()

	if got := ctl.Tap(1); got != OutcomeAccepted {
		t.Fatalf("Tap(1) = %v, want accepted", got)
	}
	calls := len(d.calls)

	if got := ctl.Tap(1); got != OutcomeIgnored {
		t.Errorf("second Tap(1) = %v, want ignored", got)
	}
	if len(d.calls) != calls {
		t.Error("repeated tap should not touch the display")
	}
}

func TestAscendingTapsComplete(t *testing.T) {
	ctl, d, a, clk := newTestController(t)
	ctl.Start()

	// Scenario: a wrong tap first, then 1..8 in order
	if got := ctl.Tap(3); got != OutcomeIgnored {
		t.Errorf("Tap(3) = %v, want ignored", got)
	}

	for v := 1; v <= Count; v++ {
		clk.Advance(250 * time.Millisecond)
		got := ctl.Tap(v)

		snap, _ := ctl.Session()
		if snap.Next != v+1 {
			t.Errorf("after Tap(%d) Next = %d, want %d", v, snap.Next, v+1)
		}
		if !d.hidden[v] {
			t.Errorf("button %d should be hidden", v)
		}

		if v < Count {
			if got != OutcomeAccepted {
				t.Errorf("Tap(%d) = %v, want accepted", v, got)
			}
			if snap.Completed {
				t.Errorf("session completed early at %d", v)
			}
			continue
		}

		if got != OutcomeCompleted {
			t.Errorf("Tap(%d) = %v, want completed", v, got)
		}
		if !snap.Completed {
			t.Error("session should be completed after the last tap")
		}
	}

	if ctl.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", ctl.State())
	}

	if d.status != "Time: 2.00 s" {
		t.Errorf("status = %q, want %q", d.status, "Time: 2.00 s")
	}
	if d.control != DefaultLabels().Restart {
		t.Errorf("control = %q, want restart label", d.control)
	}

	// Ready cue plus one note per button, in order
	want := []core.CueHandle{1, 2, 3, 4, 5, 6, 7, 8, 9}
	if len(a.played) != len(want) {
		t.Fatalf("played = %v, want %v", a.played, want)
	}
	for i := range want {
		if a.played[i] != want[i] {
			t.Errorf("played[%d] = %d, want %d", i, a.played[i], want[i])
		}
	}

	res, ok := ctl.Result()
	if !ok {
		t.Fatal("Result() should be available after completion")
	}
	if res.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", res.Elapsed)
	}
}

func TestCompletedSessionIgnoresTaps(t *testing.T) {
	ctl, d, a, _ := newTestController(t)
	ctl.Start()
	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}

	calls, played := len(d.calls), len(a.played)
	for v := 0; v <= Count+1; v++ {
		if got := ctl.Tap(v); got != OutcomeIgnored {
			t.Errorf("Tap(%d) after completion = %v, want ignored", v, got)
		}
	}
	if len(d.calls) != calls || len(a.played) != played {
		t.Error("taps after completion must have no side effects")
	}

	snap, _ := ctl.Session()
	if snap.Next != Count+1 {
		t.Errorf("Next = %d, want %d", snap.Next, Count+1)
	}
}

func TestRestartDiscardsProgress(t *testing.T) {
	ctl, d, _, clk := newTestController(t)

	ctl.Start()
	first, _ := ctl.Session()
	ctl.Tap(1)
	ctl.Tap(2)

	// Restart while in progress
	clk.Advance(time.Second)
	ctl.Start()
	second, _ := ctl.Session()

	if second.Next != 1 {
		t.Errorf("Next after restart = %d, want 1", second.Next)
	}
	if second.ID == first.ID {
		t.Error("restart should create a new session")
	}
	if !second.StartedAt.After(first.StartedAt) {
		t.Error("restart should record a new start timestamp")
	}
	if len(d.hidden) != 0 {
		t.Errorf("restart should show every button again, hidden=%v", d.hidden)
	}

	// Restart after completion
	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}
	if ctl.State() != StateCompleted {
		t.Fatalf("State() = %v, want completed", ctl.State())
	}
	ctl.Start()
	if ctl.State() != StateInProgress {
		t.Errorf("State() after restart = %v, want in_progress", ctl.State())
	}
	if _, ok := ctl.Result(); ok {
		t.Error("Result() should be cleared by restart")
	}
	if d.control != DefaultLabels().Start {
		t.Errorf("control = %q, want start label", d.control)
	}
}

func TestRestartReshuffles(t *testing.T) {
	ctl, _, _, _ := newTestController(t)

	ctl.Start()
	first, _ := ctl.Session()

	differs := false
	for i := 0; i < 20 && !differs; i++ {
		ctl.Start()
		next, _ := ctl.Session()
		for j := range next.Order {
			if next.Order[j] != first.Order[j] {
				differs = true
				break
			}
		}
	}
	if !differs {
		t.Error("20 restarts produced the same order every time")
	}
}

func TestMissingCueSkipsPlayback(t *testing.T) {
	d := newRecordingDisplay()
	a := &recordingAudio{}
	ctl := New(d, a, WithCues(CueSet{Notes: map[int]core.CueHandle{1: 5}}))

	ctl.Start()
	ctl.Tap(1)
	ctl.Tap(2)

	if len(a.played) != 1 || a.played[0] != 5 {
		t.Errorf("played = %v, want only the cue for 1", a.played)
	}

	snap, _ := ctl.Session()
	if snap.Next != 3 {
		t.Errorf("missing cues must not block progress, Next = %d", snap.Next)
	}
}

func TestNilAudio(t *testing.T) {
	d := newRecordingDisplay()
	ctl := New(d, nil, WithCues(testCues()))

	ctl.Start()
	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}
	if ctl.State() != StateCompleted {
		t.Errorf("State() = %v, want completed", ctl.State())
	}
}

func TestElapsedNeverNegative(t *testing.T) {
	ctl, d, _, clk := newTestController(t)
	ctl.Start()

	// A clock going backwards must not produce a negative time
	clk.Advance(-5 * time.Second)
	if got := ctl.Elapsed(); got != 0 {
		t.Errorf("Elapsed() = %v, want 0", got)
	}

	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}
	res, _ := ctl.Result()
	if res.Elapsed != 0 {
		t.Errorf("Result().Elapsed = %v, want 0", res.Elapsed)
	}
	if !strings.Contains(d.status, "0.00") {
		t.Errorf("status = %q, want zero time", d.status)
	}
}

func TestElapsedTracksClock(t *testing.T) {
	ctl, _, _, clk := newTestController(t)

	if ctl.Elapsed() != 0 {
		t.Error("Elapsed() should be 0 before start")
	}

	ctl.Start()
	clk.Advance(1500 * time.Millisecond)
	if got := ctl.Elapsed(); got != 1500*time.Millisecond {
		t.Errorf("Elapsed() = %v, want 1.5s", got)
	}

	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}

	// Frozen after completion
	clk.Advance(time.Hour)
	if got := ctl.Elapsed(); got != 1500*time.Millisecond {
		t.Errorf("Elapsed() after completion = %v, want 1.5s", got)
	}
}

func TestCustomLabels(t *testing.T) {
	d := newRecordingDisplay()
	clk := &manualClock{now: time.Unix(0, 0)}
	labels := Labels{
		Ready:   "go",
		Start:   "running",
		Restart: "again",
		Elapsed: "took %.2f",
	}
	ctl := New(d, nil, WithClock(clk), WithLabels(labels))

	ctl.Start()
	if d.status != "go" || d.control != "running" {
		t.Errorf("status/control = %q/%q", d.status, d.control)
	}

	clk.Advance(3456 * time.Millisecond)
	for v := 1; v <= Count; v++ {
		ctl.Tap(v)
	}
	if d.status != "took 3.46" {
		t.Errorf("status = %q, want %q", d.status, "took 3.46")
	}
	if d.control != "again" {
		t.Errorf("control = %q, want %q", d.control, "again")
	}
}

func TestHandleUnknownEvent(t *testing.T) {
	ctl, d, _, _ := newTestController(t)
	if got := ctl.Handle(Event{Kind: EventKind(99)}); got != OutcomeIgnored {
		t.Errorf("Handle(unknown) = %v, want ignored", got)
	}
	if len(d.calls) != 0 {
		t.Error("unknown event should not touch the display")
	}
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		format string
		d      time.Duration
		want   string
	}{
		{"", 1234 * time.Millisecond, "Time: 1.23 s"},
		{"%.2f", 0, "0.00"},
		{"%.2f", 9999 * time.Millisecond, "10.00"},
		{"Time: %.2f s", 61 * time.Second, "Time: 61.00 s"},
	}

	for _, tt := range tests {
		if got := FormatElapsed(tt.format, tt.d); got != tt.want {
			t.Errorf("FormatElapsed(%q, %v) = %q, want %q", tt.format, tt.d, got, tt.want)
		}
	}
}
