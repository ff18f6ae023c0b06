package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/numtap/internal/core"
)

// Display is the surface the controller draws on.
// Calls are assumed to succeed synchronously.
type Display interface {
	// RenderGrid shows one tappable button per label, in the given order.
	RenderGrid(labels []int)

	// HideElement hides and disables the button with the given label.
	HideElement(label int)

	// SetStatusText replaces the status line.
	SetStatusText(text string)

	// SetControlLabel replaces the label of the start control.
	SetControlLabel(text string)
}

// Audio plays pre-loaded cues. Play must not block.
type Audio interface {
	Play(h core.CueHandle)
}

// Clock supplies monotonic timestamps for measuring elapsed time.
type Clock interface {
	Now() time.Time
}

// systemClock relies on the monotonic reading carried by time.Now.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Labels holds the texts the controller pushes to the display.
type Labels struct {
	Ready   string // Status text shown when a session starts
	Start   string // Control label while a session is running
	Restart string // Control label after completion
	Elapsed string // fmt format for the completion time, given seconds as float64
}

// DefaultLabels returns the built-in English labels.
func DefaultLabels() Labels {
	return Labels{
		Ready:   "Tap 1 to 8 in order",
		Start:   "Start",
		Restart: "Restart",
		Elapsed: "Time: %.2f s",
	}
}

// CueSet maps game moments to loaded cue handles.
type CueSet struct {
	Ready core.CueHandle
	Notes map[int]core.CueHandle // Keyed by button label
}

// Note returns the cue for a button label, or core.NoCue.
func (c CueSet) Note(value int) core.CueHandle {
	if c.Notes == nil {
		return core.NoCue
	}
	return c.Notes[value]
}

// Result describes a completed session.
type Result struct {
	SessionID string
	Elapsed   time.Duration
}

// Controller owns the game session and turns UI events into display and
// audio commands. It is not safe for concurrent use; all calls are expected
// from the UI event loop.
type Controller struct {
	display Display
	audio   Audio
	clock   Clock
	rng     *rand.Rand
	logger  *log.Logger
	labels  Labels
	cues    CueSet

	session *Session
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for elapsed time.
func WithClock(c Clock) Option {
	return func(ctl *Controller) { ctl.clock = c }
}

// WithRand sets the random source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(ctl *Controller) { ctl.rng = rng }
}

// WithSeed seeds the shuffle. Zero means time based.
func WithSeed(seed int64) Option {
	return func(ctl *Controller) {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		ctl.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger attaches a logger for session lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(ctl *Controller) { ctl.logger = l }
}

// WithLabels overrides the display texts.
func WithLabels(l Labels) Option {
	return func(ctl *Controller) { ctl.labels = l }
}

// WithCues sets the cue handles played on start and on correct taps.
func WithCues(c CueSet) Option {
	return func(ctl *Controller) { ctl.cues = c }
}

// New creates a controller bound to the given display and audio player.
func New(display Display, audio Audio, opts ...Option) *Controller {
	ctl := &Controller{
		display: display,
		audio:   audio,
		clock:   systemClock{},
		labels:  DefaultLabels(),
	}
	for _, opt := range opts {
		opt(ctl)
	}
	if ctl.rng == nil {
		ctl.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return ctl
}

// Handle is the controller's single input method.
func (c *Controller) Handle(ev Event) Outcome {
	switch ev.Kind {
	case EventStart:
		c.start()
		return OutcomeStarted
	case EventTap:
		return c.tap(ev.Value)
	default:
		return OutcomeIgnored
	}
}

// Start begins a new session, discarding any previous one.
func (c *Controller) Start() Outcome {
	return c.Handle(Start())
}

// Tap delivers a tap on the button labelled value.
func (c *Controller) Tap(value int) Outcome {
	return c.Handle(Tap(value))
}

func (c *Controller) start() {
	c.session = newSession(uuid.NewString(), c.rng, c.clock.Now())

	c.display.RenderGrid(c.session.Snapshot().Order)
	c.display.SetStatusText(c.labels.Ready)
	c.display.SetControlLabel(c.labels.Start)
	c.play(c.cues.Ready)

	if c.logger != nil {
		c.logger.Debug("session started", "session", c.session.id, "order", c.session.order)
	}
}

func (c *Controller) tap(value int) Outcome {
	if c.session == nil || !c.session.accept(value) {
		return OutcomeIgnored
	}

	c.display.HideElement(value)
	c.play(c.cues.Note(value))

	if !c.session.done() {
		return OutcomeAccepted
	}

	c.session.finish(c.clock.Now().Sub(c.session.startedAt))
	c.display.SetStatusText(FormatElapsed(c.labels.Elapsed, c.session.elapsed))
	c.display.SetControlLabel(c.labels.Restart)

	if c.logger != nil {
		c.logger.Info("session completed", "session", c.session.id, "elapsed", c.session.elapsed)
	}
	return OutcomeCompleted
}

// play skips cues that were never loaded; sound is cosmetic.
func (c *Controller) play(h core.CueHandle) {
	if c.audio == nil || !h.Valid() {
		return
	}
	c.audio.Play(h)
}

// State returns the controller's current state.
func (c *Controller) State() State {
	switch {
	case c.session == nil:
		return StateIdle
	case c.session.completed:
		return StateCompleted
	default:
		return StateInProgress
	}
}

// Session returns a snapshot of the current session and whether one exists.
func (c *Controller) Session() (Snapshot, bool) {
	if c.session == nil {
		return Snapshot{State: StateIdle}, false
	}
	return c.session.Snapshot(), true
}

// Result returns the result of the current session once it is completed.
func (c *Controller) Result() (Result, bool) {
	if c.session == nil || !c.session.completed {
		return Result{}, false
	}
	return Result{SessionID: c.session.id, Elapsed: c.session.elapsed}, true
}

// Elapsed returns the time since the current session started, or the final
// time once it is completed.
func (c *Controller) Elapsed() time.Duration {
	if c.session == nil {
		return 0
	}
	if c.session.completed {
		return c.session.elapsed
	}
	if d := c.clock.Now().Sub(c.session.startedAt); d > 0 {
		return d
	}
	return 0
}

// FormatElapsed renders d in seconds with the given format.
// An empty format falls back to the default label.
func FormatElapsed(format string, d time.Duration) string {
	if format == "" {
		format = DefaultLabels().Elapsed
	}
	return fmt.Sprintf(format, d.Seconds())
}
