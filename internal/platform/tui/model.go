package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/numtap/internal/config"
	"github.com/vovakirdan/numtap/internal/core"
	"github.com/vovakirdan/numtap/internal/game"
	"github.com/vovakirdan/numtap/internal/storage"
)

// GameID is the key completion times are stored under.
const GameID = "numtap"

// idlePrompt is shown before the first session starts.
const idlePrompt = "Press Enter or click Start"

// helpHeight is the number of rows reserved for the help bar.
const helpHeight = 1

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// CuePlayer plays cues and resolves a handle back to its cue ID.
// *audio.Engine satisfies it.
type CuePlayer interface {
	game.Audio
	CueID(h core.CueHandle) (string, bool)
}

// cueTracker forwards cues to a player and remembers the last cue played,
// so the board can show the note name next to the sound.
type cueTracker struct {
	player CuePlayer
	last   string
}

func (t *cueTracker) Play(h core.CueHandle) {
	if t.player == nil {
		return
	}
	t.player.Play(h)
	if id, ok := t.player.CueID(h); ok {
		t.last = id
	}
}

// Options configures a game model.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig
	Audio   CuePlayer // Nil plays nothing
	Cues    game.CueSet
	Store   *storage.Store // Nil disables saving
	Logger  *log.Logger
	Player  string
	Clock   game.Clock // Nil uses the system clock

	// ScreenshotDir is where ctrl+s writes the board as text.
	// Empty disables screenshots.
	ScreenshotDir string
}

// Model is the Bubble Tea model for the game screen.
type Model struct {
	ctl     *game.Controller
	board   *Board
	screen  *core.Screen
	tracker *cueTracker

	store   *storage.Store
	logger  *log.Logger
	player  string
	labels  game.Labels
	runtime core.RuntimeConfig

	keys KeyMap
	help help.Model

	scores *ScoreboardModel // Non-nil while the best times overlay is shown

	best          time.Duration
	hasBest       bool
	newBest       bool
	lastSaved     string // Session ID of the last stored result
	gen           int    // Incremented on each start; stale ticks are dropped
	screenshotDir string
	quitting      bool
}

// NewModel creates a new game model. The controller is idle until the
// first start event.
func NewModel(opts Options) Model {
	rt := opts.Runtime
	if rt.Seed == 0 {
		rt.Seed = time.Now().UnixNano()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	labels := opts.Config.GameLabels()
	board := NewBoard(opts.Config.Grid, rt.ScreenW, boardHeight(rt.ScreenH))
	board.SetControlLabel(labels.Start)
	board.SetStatusText(idlePrompt)

	tracker := &cueTracker{player: opts.Audio}

	ctlOpts := []game.Option{
		game.WithLabels(labels),
		game.WithCues(opts.Cues),
		game.WithSeed(rt.Seed),
		game.WithLogger(logger),
	}
	if opts.Clock != nil {
		ctlOpts = append(ctlOpts, game.WithClock(opts.Clock))
	}

	h := help.New()
	h.ShowAll = false
	h.Width = rt.ScreenW

	m := Model{
		ctl:           game.New(board, tracker, ctlOpts...),
		board:         board,
		screen:        core.NewScreen(rt.ScreenW, boardHeight(rt.ScreenH)),
		tracker:       tracker,
		store:         opts.Store,
		logger:        logger,
		player:        opts.Player,
		labels:        labels,
		runtime:       rt,
		keys:          DefaultKeyMap(),
		help:          h,
		screenshotDir: opts.ScreenshotDir,
	}
	m.loadBest()
	m.showBest()
	return m
}

func boardHeight(screenH int) int {
	return max(screenH-helpHeight, 0)
}

// Init implements tea.Model. Nothing runs until the player starts.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		if m.scores != nil {
			return m.updateScores(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.scores != nil {
			return m, nil
		}
		return m.handleMouse(msg)

	case TickMsg:
		return m.handleTick(msg)
	}

	return m, nil
}

// handleResize adapts the board and the overlay to the new size.
// A running session is not reset.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.runtime.ScreenW = msg.Width
	m.runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, boardHeight(msg.Height))
	m.board.Resize(msg.Width, boardHeight(msg.Height))
	m.help.Width = msg.Width

	if m.scores != nil {
		s, _ := m.scores.Update(msg)
		if sb, ok := s.(ScoreboardModel); ok {
			m.scores = &sb
		}
	}
	return m, nil
}

// handleKey processes keyboard input on the game screen.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Scores):
		sb := NewScoreboardModel(m.store, m.player, m.runtime.ScreenW, m.runtime.ScreenH)
		m.scores = &sb
		return m, nil

	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if ev, ok := m.keys.EventForKey(msg); ok {
		return m.apply(ev)
	}
	return m, nil
}

// handleMouse maps left clicks on the board to game events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if ev, ok := m.board.HitTest(msg.X, msg.Y); ok {
		return m.apply(ev)
	}
	return m, nil
}

// updateScores routes keys to the best times overlay.
func (m Model) updateScores(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	s, cmd := m.scores.Update(msg)
	sb, ok := s.(ScoreboardModel)
	if !ok || sb.IsGoingBack() {
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// apply feeds an event to the controller and reacts to the outcome.
func (m Model) apply(ev game.Event) (tea.Model, tea.Cmd) {
	out := m.ctl.Handle(ev)

	switch out {
	case game.OutcomeIgnored:
		return m, nil

	case game.OutcomeStarted:
		m.gen++
		m.newBest = false
		m.board.SetCue(m.tracker.last)
		m.board.SetTimer(game.FormatElapsed(m.labels.Elapsed, 0))
		return m, tickCmd(m.runtime.TickRate, m.gen)

	case game.OutcomeAccepted:
		m.board.SetCue(m.tracker.last)
		m.board.SetTimer(game.FormatElapsed(m.labels.Elapsed, m.ctl.Elapsed()))
		return m, nil

	case game.OutcomeCompleted:
		m.board.SetCue(m.tracker.last)
		m.saveResult()
		m.showBest()
		return m, nil
	}

	return m, nil
}

// handleTick refreshes the running timer while a session is in progress.
func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.gen || m.ctl.State() != game.StateInProgress {
		return m, nil
	}
	m.board.SetTimer(game.FormatElapsed(m.labels.Elapsed, m.ctl.Elapsed()))
	return m, tickCmd(m.runtime.TickRate, m.gen)
}

// saveResult stores the completed session once. Storage failures are
// logged; the game continues regardless.
func (m *Model) saveResult() {
	res, ok := m.ctl.Result()
	if !ok || res.SessionID == m.lastSaved {
		return
	}
	m.lastSaved = res.SessionID

	if !m.hasBest || res.Elapsed < m.best {
		m.newBest = m.hasBest
		m.best = res.Elapsed
		m.hasBest = true
	}

	if m.store == nil {
		return
	}
	id, err := m.store.SaveTime(GameID, m.player, res.SessionID, res.Elapsed)
	if err != nil {
		m.logger.Warn("could not save time", "session", res.SessionID, "err", err)
		return
	}
	m.logger.Debug("time saved", "id", id, "session", res.SessionID, "elapsed", res.Elapsed)
}

// loadBest reads the fastest stored time.
func (m *Model) loadBest() {
	if m.store == nil {
		return
	}
	best, ok, err := m.store.BestTime(GameID)
	if err != nil {
		m.logger.Warn("could not load best time", "err", err)
		return
	}
	m.best, m.hasBest = best, ok
}

// showBest puts the best time on the timer line.
func (m *Model) showBest() {
	switch {
	case m.newBest:
		m.board.SetTimer(fmt.Sprintf("New best! %.2f s", m.best.Seconds()))
	case m.hasBest:
		m.board.SetTimer(fmt.Sprintf("Best: %.2f s", m.best.Seconds()))
	default:
		m.board.SetTimer("")
	}
}

// saveScreenshot saves the current board to a text file.
func (m *Model) saveScreenshot() {
	if m.screenshotDir == "" {
		return
	}

	m.board.Render(m.screen)

	if err := os.MkdirAll(m.screenshotDir, 0o755); err != nil {
		m.logger.Warn("could not create screenshot directory", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("%s_%s.txt", GameID, timestamp))

	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("could not save screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	m.board.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Controller exposes the game controller driving this model.
func (m Model) Controller() *game.Controller {
	return m.ctl
}

// Board exposes the board the controller draws on.
func (m Model) Board() *Board {
	return m.board
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
