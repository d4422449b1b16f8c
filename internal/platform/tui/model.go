package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tissue-box/internal/core"
	"github.com/vovakirdan/tissue-box/internal/messages"
	"github.com/vovakirdan/tissue-box/internal/session"
	"github.com/vovakirdan/tissue-box/internal/storage"
	"github.com/vovakirdan/tissue-box/internal/tissue"
)

// Options configure a Model.
type Options struct {
	Store     *storage.Store
	Config    core.RuntimeConfig
	Settings  session.Settings
	Source    messages.Source
	Logger    *log.Logger
	Player    string           // Recorded with each run; empty for local play
	StartMode session.Mode     // Skip the menu and start this mode
	Session   []session.Option // Extra controller options, applied last
}

// Model is the Bubble Tea model for one player. It owns a session
// controller and renders whatever mode the controller is in.
type Model struct {
	ctrl     *session.Controller
	bridge   *eventBridge
	store    *storage.Store
	config   core.RuntimeConfig
	settings session.Settings
	logger   *log.Logger
	player   string
	keys     *KeyMapper
	gesture  *core.PullGesture
	dragID   tissue.ID

	snap       session.Snapshot
	menuCursor int
	best       map[session.Mode]int
	newBest    bool
	scoreboard *ScoreboardModel
	startedAt  time.Time
	saved      uint64 // Session whose run was last recorded
	quitting   bool
}

// NewModel creates a new Bubble Tea model with its own session controller.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	settings := opts.Settings
	if settings == (session.Settings{}) {
		settings = session.DefaultSettings()
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	bridge := newEventBridge()
	ctrlOpts := []session.Option{
		session.WithSettings(settings),
		session.WithSeed(cfg.Seed),
		session.WithLogger(logger),
		session.WithListener(bridge.publish),
	}
	if opts.Source != nil {
		ctrlOpts = append(ctrlOpts, session.WithSource(opts.Source))
	}
	ctrlOpts = append(ctrlOpts, opts.Session...)

	m := Model{
		ctrl:     session.New(ctrlOpts...),
		bridge:   bridge,
		store:    opts.Store,
		config:   cfg,
		settings: settings,
		logger:   logger,
		player:   opts.Player,
		keys:     NewKeyMapper(),
		gesture:  core.NewPullGesture(stackArea(cfg.ScreenW, cfg.ScreenH), core.DefaultPullRows),
		best:     make(map[session.Mode]int),
	}
	m.loadBest()

	if opts.StartMode.Playing() {
		m.start(opts.StartMode)
	}
	m.snap = m.ctrl.Snapshot()

	return m
}

// Init starts listening for controller events.
func (m Model) Init() tea.Cmd {
	return m.bridge.wait()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case EventMsg:
		return m.handleEvent(session.Event(msg))
	}

	if m.scoreboard != nil {
		return m.updateScoreboard(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.gesture.Area = stackArea(msg.Width, msg.Height)

	if m.scoreboard != nil {
		return m.updateScoreboard(msg)
	}
	return m, nil
}

// handleEvent refreshes the snapshot after a controller change.
func (m Model) handleEvent(e session.Event) (tea.Model, tea.Cmd) {
	m.snap = m.ctrl.Snapshot()

	// An expiry queued behind a restart belongs to the old session,
	// which start has already settled.
	if e.Kind == session.EventExpired && e.Session == m.snap.Session {
		m.recordRun()
	}

	return m, m.bridge.wait()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.snap.Mode == session.ModeIdle {
		return m.handleMenuKey(msg)
	}

	action, isQuit := m.keys.MapKey(msg, m.snap.Mode)
	if isQuit {
		return m.quit()
	}

	switch action {
	case core.ActionPull:
		m.ctrl.PullTop()
	case core.ActionEnd:
		m.settle()
		m.ctrl.End()
	case core.ActionMenu:
		m.settle()
		m.ctrl.ReturnToMenu()
	case core.ActionRestart:
		m.start(m.snap.Played)
	case core.ActionZen:
		m.start(session.ModeUntimed)
	case core.ActionSpeed:
		m.start(session.ModeTimed)
	case core.ActionScores:
		m.openScoreboard(m.snap.Played)
	}

	m.snap = m.ctrl.Snapshot()
	return m, nil
}

// handleMenuKey processes keyboard input on the mode picker.
func (m Model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		return m.quit()

	case MenuActionUp:
		if m.menuCursor > 0 {
			m.menuCursor--
		}

	case MenuActionDown:
		if m.menuCursor < len(menuItems)-1 {
			m.menuCursor++
		}

	case MenuActionSelect:
		m.start(menuItems[m.menuCursor].Mode)

	case MenuActionZen:
		m.start(session.ModeUntimed)

	case MenuActionSpeed:
		m.start(session.ModeTimed)

	case MenuActionScoreboard:
		m.openScoreboard(menuItems[m.menuCursor].Mode)
	}

	m.snap = m.ctrl.Snapshot()
	return m, nil
}

// handleMouse turns an upward drag on the stack into a single pull.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.snap.Mode.Playing() {
		m.gesture.Cancel()
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		top, ok := firstTissue(m.snap.Tissues)
		if !ok {
			return m, nil
		}
		m.gesture.Press(msg.X, msg.Y)
		if m.gesture.Dragging() {
			m.dragID = top.ID
		}

	case tea.MouseActionMotion:
		m.gesture.Motion(msg.X, msg.Y)

	case tea.MouseActionRelease:
		if m.gesture.Release(msg.X, msg.Y) {
			m.ctrl.Pull(m.dragID)
		}
		m.dragID = ""
	}

	m.snap = m.ctrl.Snapshot()
	return m, nil
}

// updateScoreboard forwards messages to the open scoreboard.
func (m Model) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scoreboard.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		m.scoreboard = nil
		return m, nil
	}

	if sb.IsQuitting() {
		return m.quit()
	}
	if sb.IsGoingBack() {
		m.scoreboard = nil
		return m, nil
	}

	m.scoreboard = &sb
	return m, cmd
}

func (m *Model) openScoreboard(mode session.Mode) {
	sb := NewScoreboardModel(m.store, mode, m.config.ScreenW, m.config.ScreenH)
	m.scoreboard = &sb
}

// start begins a new session, recording the run being left.
func (m *Model) start(mode session.Mode) {
	m.settle()
	if m.ctrl.Start(mode) {
		m.startedAt = time.Now()
		m.newBest = false
		m.gesture.Cancel()
		m.dragID = ""
	}
}

// settle records the run the player is about to leave: a Zen run in
// progress, or a speed run whose expiry event has not been handled yet.
func (m *Model) settle() {
	snap := m.ctrl.Snapshot()
	if snap.Mode == session.ModeUntimed || snap.Expired {
		m.recordRun()
	}
}

// recordRun saves the current session's run once. Runs without pulls are skipped.
func (m *Model) recordRun() {
	snap := m.ctrl.Snapshot()
	if snap.Session == 0 || snap.Session == m.saved {
		return
	}
	m.saved = snap.Session

	if snap.PullCount == 0 || !snap.Played.Playing() {
		return
	}

	duration := int(time.Since(m.startedAt).Seconds())
	if snap.Played == session.ModeTimed {
		duration = m.settings.SpeedDuration
	}

	m.newBest = snap.PullCount > m.best[snap.Played]
	if m.newBest {
		m.best[snap.Played] = snap.PullCount
	}

	if m.store == nil {
		return
	}
	id, err := m.store.SaveRun(storage.Run{
		Mode:     snap.Played.String(),
		Pulls:    snap.PullCount,
		Duration: duration,
		Player:   m.player,
	})
	if err != nil {
		m.logger.Warn("could not save run", "mode", snap.Played, "error", err)
		return
	}
	m.logger.Debug("run saved", "id", id, "mode", snap.Played, "pulls", snap.PullCount)
}

// loadBest reads the best pull counts from storage.
func (m *Model) loadBest() {
	if m.store == nil {
		return
	}
	for _, item := range menuItems {
		best, err := m.store.BestPulls(item.Mode.String())
		if err != nil {
			m.logger.Warn("could not load best run", "mode", item.Mode, "error", err)
			continue
		}
		m.best[item.Mode] = best
	}
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.settle()
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

// Close stops the controller and the event bridge. Safe to call more than once.
func (m Model) Close() {
	m.ctrl.Close()
	m.bridge.close()
}

// Snapshot returns the last rendered session state.
func (m Model) Snapshot() session.Snapshot {
	return m.snap
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.scoreboard != nil {
		return m.scoreboard.View()
	}

	switch m.snap.Mode {
	case session.ModeUntimed, session.ModeTimed:
		if stackArea(m.config.ScreenW, m.config.ScreenH).Empty() {
			return renderTooSmall(m.config.ScreenW)
		}
		return renderPlay(m.snap, m.config.ScreenW, m.gesture.Lift())
	case session.ModeEnded:
		return renderGameOver(m.snap, m.best[m.snap.Played], m.newBest, m.config.ScreenW)
	default:
		return renderMenu(m.menuCursor, m.best, m.config.ScreenW)
	}
}

// Run starts the Bubble Tea program with a fresh model.
func Run(opts Options) error {
	model := NewModel(opts)
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Drag to pull
	)

	_, err := p.Run()
	return err
}
