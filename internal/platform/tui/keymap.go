package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/numtap/internal/game"
)

// KeyMap defines the key bindings for the game screen.
type KeyMap struct {
	Tap        key.Binding
	Start      key.Binding
	Scores     key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tap, k.Start, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tap, k.Start},
		{k.Scores, k.Back, k.Screenshot},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tap: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"),
			key.WithHelp("1-8", "tap"),
		),
		Start: key.NewBinding(
			key.WithKeys("enter", " ", "r"),
			key.WithHelp("enter/r", "start"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "best times"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// EventForKey translates a key press on the game screen to a game event.
func (k KeyMap) EventForKey(msg tea.KeyMsg) (game.Event, bool) {
	switch {
	case key.Matches(msg, k.Start):
		return game.Start(), true
	case key.Matches(msg, k.Tap):
		s := msg.String()
		return game.Tap(int(s[0] - '0')), true
	}
	return game.Event{}, false
}
