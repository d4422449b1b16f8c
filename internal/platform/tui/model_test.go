package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tissue-box/internal/core"
	"github.com/vovakirdan/tissue-box/internal/messages"
	"github.com/vovakirdan/tissue-box/internal/session"
	"github.com/vovakirdan/tissue-box/internal/storage"
)

// manualScheduler holds the countdown until the test fires it.
type manualScheduler struct {
	fn func()
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	s.fn = fn
	return func() { s.fn = nil }
}

func (s *manualScheduler) fire() {
	if s.fn != nil {
		s.fn()
	}
}

func newTestModel(t *testing.T, sched *manualScheduler) (Model, *storage.Store) {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := NewModel(Options{
		Store:  store,
		Config: core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 7},
		Source: messages.NewStatic(),
		Player: "tester",
		Session: []session.Option{
			session.WithScheduler(sched),
			session.WithSpawner(func(fn func()) { fn() }),
		},
	})
	t.Cleanup(m.Close)

	return m, store
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T, expected Model", next)
	}
	return nm, cmd
}

func press(t *testing.T, m Model, msg tea.KeyMsg) Model {
	t.Helper()
	m, _ = update(t, m, msg)
	return m
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEscape}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestModelStartsInMenu(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})

	if m.Snapshot().Mode != session.ModeIdle {
		t.Errorf("Mode = %v, expected idle", m.Snapshot().Mode)
	}
	if !strings.Contains(m.View(), "Select a mode") {
		t.Error("View() should show the mode picker")
	}
}

func TestModelMenuSelectStartsZen(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})

	m = press(t, m, keyEnter)

	snap := m.Snapshot()
	if snap.Mode != session.ModeUntimed {
		t.Fatalf("Mode = %v, expected zen", snap.Mode)
	}
	if len(snap.Tissues) != 10 {
		t.Errorf("len(Tissues) = %d, expected 10", len(snap.Tissues))
	}
	if !snap.Tissues[0].HasMessage() {
		t.Error("top tissue should carry a message after the first batch")
	}
	if !strings.Contains(m.View(), "Pulls: 0") {
		t.Error("View() should show the pull counter")
	}
}

func TestModelPullKeys(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})

	m = press(t, m, runeKey("2"))
	m = press(t, m, keySpace)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = press(t, m, keyEnter)

	snap := m.Snapshot()
	if snap.Mode != session.ModeTimed {
		t.Fatalf("Mode = %v, expected speed", snap.Mode)
	}
	if snap.PullCount != 3 {
		t.Errorf("PullCount = %d, expected 3", snap.PullCount)
	}
}

func TestModelSpeedExpirySavesRun(t *testing.T) {
	sched := &manualScheduler{}
	m, store := newTestModel(t, sched)

	m = press(t, m, runeKey("2"))
	for i := 0; i < 4; i++ {
		m = press(t, m, keySpace)
	}

	for i := 0; i < session.DefaultSettings().SpeedDuration; i++ {
		sched.fire()
	}
	m, cmd := update(t, m, EventMsg{Kind: session.EventExpired, Mode: session.ModeEnded, Session: m.Snapshot().Session})
	if cmd == nil {
		t.Error("handling an event should keep listening")
	}

	snap := m.Snapshot()
	if snap.Mode != session.ModeEnded {
		t.Fatalf("Mode = %v, expected ended", snap.Mode)
	}
	if !strings.Contains(m.View(), "TIME'S UP") {
		t.Error("View() should show the game over screen")
	}

	runs, err := store.TopRuns("speed", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 speed run, got %d", len(runs))
	}
	if runs[0].Pulls != 4 || runs[0].Duration != 30 || runs[0].Player != "tester" {
		t.Errorf("Run = %+v, expected 4 pulls in 30s by tester", runs[0])
	}

	// A duplicate expiry event must not save twice
	m, _ = update(t, m, EventMsg{Kind: session.EventExpired, Mode: session.ModeEnded, Session: m.Snapshot().Session})
	runs, _ = store.TopRuns("speed", 10)
	if len(runs) != 1 {
		t.Errorf("Expected run saved once, got %d", len(runs))
	}

	// Restart replays the same mode
	m = press(t, m, runeKey("r"))
	if m.Snapshot().Mode != session.ModeTimed || m.Snapshot().PullCount != 0 {
		t.Errorf("after restart Snapshot() = %+v", m.Snapshot())
	}
}

func TestModelRestartBeforeExpiryEventKeepsBothRuns(t *testing.T) {
	sched := &manualScheduler{}
	m, store := newTestModel(t, sched)
	duration := session.DefaultSettings().SpeedDuration

	m = press(t, m, runeKey("2"))
	for i := 0; i < 7; i++ {
		m = press(t, m, keySpace)
	}
	first := m.Snapshot().Session
	for i := 0; i < duration; i++ {
		sched.fire()
	}

	// Keys handled before the queued expiry event
	m = press(t, m, keySpace)
	if m.Snapshot().Mode != session.ModeEnded {
		t.Fatalf("Mode = %v, expected ended", m.Snapshot().Mode)
	}
	m = press(t, m, runeKey("r"))
	if m.Snapshot().Mode != session.ModeTimed || m.Snapshot().PullCount != 0 {
		t.Fatalf("after restart Snapshot() = %+v", m.Snapshot())
	}
	m, _ = update(t, m, EventMsg{Kind: session.EventExpired, Mode: session.ModeEnded, Session: first})

	runs, _ := store.TopRuns("speed", 10)
	if len(runs) != 1 || runs[0].Pulls != 7 {
		t.Fatalf("after first run got %+v, expected one run of 7 pulls", runs)
	}

	for i := 0; i < 3; i++ {
		m = press(t, m, keySpace)
	}
	for i := 0; i < duration; i++ {
		sched.fire()
	}
	m, _ = update(t, m, EventMsg{Kind: session.EventExpired, Mode: session.ModeEnded, Session: m.Snapshot().Session})

	runs, _ = store.TopRuns("speed", 10)
	if len(runs) != 2 {
		t.Fatalf("Expected both speed runs saved, got %d", len(runs))
	}
	if runs[0].Pulls != 7 || runs[1].Pulls != 3 {
		t.Errorf("Pulls = %d, %d, expected 7, 3", runs[0].Pulls, runs[1].Pulls)
	}
}

func TestModelPullKeysDoNotRestartAfterExpiry(t *testing.T) {
	sched := &manualScheduler{}
	m, _ := newTestModel(t, sched)

	m = press(t, m, runeKey("2"))
	for i := 0; i < session.DefaultSettings().SpeedDuration; i++ {
		sched.fire()
	}
	m = press(t, m, keySpace)
	m = press(t, m, keyEnter)
	m = press(t, m, keySpace)

	if m.Snapshot().Mode != session.ModeEnded {
		t.Errorf("Mode = %v, expected ended", m.Snapshot().Mode)
	}
	if !strings.Contains(m.View(), "TIME'S UP") {
		t.Error("View() should keep the game over screen")
	}
}

func TestModelTinyWindow(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})
	m = press(t, m, runeKey("1"))
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 2})

	if !strings.Contains(m.View(), "Window too small") {
		t.Error("View() should ask for a larger window")
	}
}

func TestModelZenEndSavesRun(t *testing.T) {
	m, store := newTestModel(t, &manualScheduler{})

	m = press(t, m, runeKey("1"))
	m = press(t, m, keySpace)
	m = press(t, m, keySpace)
	m = press(t, m, runeKey("e"))

	if m.Snapshot().Mode != session.ModeEnded {
		t.Fatalf("Mode = %v, expected ended", m.Snapshot().Mode)
	}

	m = press(t, m, keyEsc)
	if m.Snapshot().Mode != session.ModeIdle {
		t.Errorf("Mode = %v, expected idle", m.Snapshot().Mode)
	}

	runs, _ := store.TopRuns("zen", 10)
	if len(runs) != 1 {
		t.Fatalf("Expected 1 zen run, got %d", len(runs))
	}
	if runs[0].Pulls != 2 {
		t.Errorf("Pulls = %d, expected 2", runs[0].Pulls)
	}
}

func TestModelZenWithoutPullsIsNotSaved(t *testing.T) {
	m, store := newTestModel(t, &manualScheduler{})

	m = press(t, m, runeKey("1"))
	m = press(t, m, keyEsc)

	runs, _ := store.TopRuns("zen", 10)
	if len(runs) != 0 {
		t.Errorf("Expected no zen runs, got %d", len(runs))
	}
}

func TestModelSpeedEndedEarlyIsNotSaved(t *testing.T) {
	m, store := newTestModel(t, &manualScheduler{})

	m = press(t, m, runeKey("2"))
	m = press(t, m, keySpace)
	m = press(t, m, runeKey("e"))

	runs, _ := store.TopRuns("speed", 10)
	if len(runs) != 0 {
		t.Errorf("Expected no speed runs, got %d", len(runs))
	}
}

func TestModelDragPulls(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = press(t, m, runeKey("1"))

	top := m.Snapshot().Tissues[0].ID

	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 6, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 4, Action: tea.MouseActionRelease})

	snap := m.Snapshot()
	if snap.PullCount != 1 {
		t.Fatalf("PullCount = %d, expected 1", snap.PullCount)
	}
	for _, ts := range snap.Tissues {
		if ts.ID == top {
			t.Errorf("dragged tissue %s is still in the box", top)
		}
	}
}

func TestModelShortDragSnapsBack(t *testing.T) {
	m, _ := newTestModel(t, &manualScheduler{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = press(t, m, runeKey("1"))

	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 8, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 7, Action: tea.MouseActionRelease})

	// Drags starting on the HUD are ignored
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = update(t, m, tea.MouseMsg{X: 40, Y: 0, Action: tea.MouseActionRelease})

	if m.Snapshot().PullCount != 0 {
		t.Errorf("PullCount = %d, expected 0", m.Snapshot().PullCount)
	}
}

func TestModelScoreboard(t *testing.T) {
	m, store := newTestModel(t, &manualScheduler{})
	if _, err := store.SaveRun(storage.Run{Mode: "zen", Pulls: 12, Player: "someone"}); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	m = press(t, m, keyTab)
	if !strings.Contains(m.View(), "BEST RUNS") {
		t.Fatal("Tab should open the scoreboard")
	}
	if !strings.Contains(m.View(), "someone") {
		t.Error("scoreboard should list the saved run")
	}

	m = press(t, m, keyEsc)
	if !strings.Contains(m.View(), "Select a mode") {
		t.Error("Esc should return to the menu")
	}
}

func TestModelQuit(t *testing.T) {
	m, store := newTestModel(t, &manualScheduler{})

	m = press(t, m, runeKey("1"))
	m = press(t, m, keySpace)
	m, cmd := update(t, m, runeKey("q"))

	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}

	runs, _ := store.TopRuns("zen", 10)
	if len(runs) != 1 {
		t.Errorf("quitting Zen with pulls should save the run, got %d runs", len(runs))
	}
}

func TestModelStartMode(t *testing.T) {
	m := NewModel(Options{
		Config:    core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1},
		StartMode: session.ModeTimed,
		Session:   []session.Option{session.WithScheduler(&manualScheduler{})},
	})
	defer m.Close()

	snap := m.Snapshot()
	if snap.Mode != session.ModeTimed {
		t.Errorf("Mode = %v, expected speed", snap.Mode)
	}
	if snap.SecondsRemaining != 30 {
		t.Errorf("SecondsRemaining = %d, expected 30", snap.SecondsRemaining)
	}
}
