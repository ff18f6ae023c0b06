package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/numtap/internal/storage"
)

func seededStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "times.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	store.SaveTime(GameID, "alice", "a1", 4200*time.Millisecond)
	store.SaveTime(GameID, "bob", "b1", 3100*time.Millisecond)
	store.SaveTime(GameID, "alice", "a2", 5000*time.Millisecond)
	return store
}

func TestScoreboardAllTimes(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), "alice", 80, 24)

	if len(m.times) != 3 {
		t.Fatalf("loaded %d times, want 3", len(m.times))
	}
	if m.times[0].Player != "bob" {
		t.Errorf("fastest player = %q, want bob", m.times[0].Player)
	}

	view := m.View()
	for _, want := range []string{"BEST TIMES", "3.10 s", "bob", "3 runs"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestScoreboardSwitchToPlayer(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), "alice", 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ScoreboardModel)

	if m.view != viewMine {
		t.Fatalf("view = %v, want You", m.view)
	}
	if len(m.times) != 2 {
		t.Fatalf("loaded %d times, want 2", len(m.times))
	}
	for _, e := range m.times {
		if e.Player != "alice" {
			t.Errorf("unexpected player %q in You view", e.Player)
		}
	}
}

func TestScoreboardAnonymousHasNoPlayerView(t *testing.T) {
	m := NewScoreboardModel(seededStore(t), "", 80, 24)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(ScoreboardModel)

	if m.view != viewAll {
		t.Error("anonymous players should stay on the All view")
	}
	if strings.Contains(m.renderTabs(), "You") {
		t.Error("You tab shown without a player")
	}
}

func TestScoreboardWithoutStore(t *testing.T) {
	m := NewScoreboardModel(nil, "alice", 80, 24)

	if !strings.Contains(m.View(), "not being recorded") {
		t.Error("missing no-storage message")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}
