// Package session implements the game state machine: mode selection,
// pulling tissues, the speed countdown and the Zen message backlog.
// It contains no terminal code; the platform layer drives it through
// Start/Pull/End/ReturnToMenu and observes it through Snapshot and events.
package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tissue-box/internal/messages"
	"github.com/vovakirdan/tissue-box/internal/tissue"
)

// Snapshot is a read-only copy of the session state for rendering.
type Snapshot struct {
	Mode             Mode
	Played           Mode // Last playable mode started (Untimed or Timed)
	Session          uint64 // Increments with every Start; 0 before the first
	Expired          bool   // The speed countdown ran out in this session
	PullCount        int
	SecondsRemaining int
	Backlog          int
	Tissues          []tissue.Tissue
}

// Controller owns the session state. All methods are safe for concurrent use;
// pulls, countdown ticks and message arrivals are serialized on one mutex.
type Controller struct {
	mu sync.Mutex

	settings  Settings
	source    messages.Source
	scheduler Scheduler
	spawn     func(func())
	listener  func(Event)
	logger    *log.Logger
	seed      int64

	ctx    context.Context
	cancel context.CancelFunc

	pool             *tissue.Pool
	mode             Mode
	played           Mode
	session          uint64
	expired          bool
	pullCount        int
	secondsRemaining int
	backlog          []string

	stopTimer func()
	timerGen  uint64 // Incremented per countdown; stale ticks carry an old value
}

// Option configures a Controller.
type Option func(*Controller)

// WithSettings overrides the default game rules.
func WithSettings(s Settings) Option {
	return func(c *Controller) {
		c.settings = s
	}
}

// WithSource sets the message source used in Zen mode.
func WithSource(src messages.Source) Option {
	return func(c *Controller) {
		c.source = src
	}
}

// WithScheduler replaces the real-time countdown scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.scheduler = s
	}
}

// WithSpawner sets how message requests are run off the caller's goroutine.
func WithSpawner(spawn func(func())) Option {
	return func(c *Controller) {
		c.spawn = spawn
	}
}

// WithListener registers a callback invoked after every state change.
// It is called without the controller lock held.
func WithListener(fn func(Event)) Option {
	return func(c *Controller) {
		c.listener = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithSeed sets the RNG seed for tissue rotation.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.seed = seed
	}
}

// New creates a Controller in Idle mode.
func New(opts ...Option) *Controller {
	c := &Controller{
		settings:  DefaultSettings(),
		source:    messages.NewStatic(),
		scheduler: TickerScheduler{},
		spawn:     func(fn func()) { go fn() },
		logger:    log.New(io.Discard),
		mode:      ModeIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.seed == 0 {
		c.seed = time.Now().UnixNano()
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.pool = tissue.NewPool(c.seed, c.settings.MaxRotation)
	return c
}

// Start begins a new session in the given mode, discarding any previous one.
// Only ModeUntimed and ModeTimed can be started; other modes are ignored.
func (c *Controller) Start(mode Mode) bool {
	if !mode.Playing() {
		return false
	}

	c.mu.Lock()
	c.stopTimerLocked()

	c.mode = mode
	c.played = mode
	c.session++
	c.expired = false
	c.pullCount = 0
	c.secondsRemaining = 0
	c.backlog = nil
	c.pool.Reset()
	c.pool.Refill(c.settings.InitialBatch, nil)

	sessionID := c.session

	var tasks []func()
	switch mode {
	case ModeTimed:
		c.secondsRemaining = c.settings.SpeedDuration
		c.startTimerLocked()
	case ModeUntimed:
		tasks = c.topUpLocked(tasks)
	}
	c.mu.Unlock()

	c.logger.Debug("session started", "mode", mode)
	c.dispatch(tasks)
	c.emit(Event{Kind: EventStarted, Mode: mode, Session: sessionID})
	return true
}

// Pull removes the tissue with the given id and counts it.
// Returns false when not playing or when the id is not in the pool.
func (c *Controller) Pull(id tissue.ID) bool {
	c.mu.Lock()
	ok, tasks := c.pullLocked(id)
	mode, sessionID := c.mode, c.session
	c.mu.Unlock()

	if !ok {
		return false
	}
	c.dispatch(tasks)
	c.emit(Event{Kind: EventPulled, Mode: mode, Session: sessionID})
	return true
}

// PullTop pulls the next tissue in the stack.
func (c *Controller) PullTop() bool {
	c.mu.Lock()
	top, ok := c.pool.Top()
	c.mu.Unlock()

	if !ok {
		return false
	}
	return c.Pull(top.ID)
}

func (c *Controller) pullLocked(id tissue.ID) (bool, []func()) {
	if !c.mode.Playing() {
		return false, nil
	}
	if !c.pool.Remove(id) {
		return false, nil
	}
	c.pullCount++

	var tasks []func()
	if c.pool.Len() <= c.settings.LowWater {
		c.pool.Refill(c.settings.RefillBatch, nil)
		if c.mode == ModeUntimed {
			tasks = c.topUpLocked(tasks)
		}
	}
	c.distributeLocked()
	return true, tasks
}

// End stops the countdown and moves to ModeEnded.
func (c *Controller) End() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mode = ModeEnded
	sessionID := c.session
	c.mu.Unlock()

	c.emit(Event{Kind: EventEnded, Mode: ModeEnded, Session: sessionID})
}

// ReturnToMenu stops the countdown and goes back to ModeIdle,
// discarding the pool and backlog.
func (c *Controller) ReturnToMenu() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mode = ModeIdle
	c.pool.Reset()
	c.backlog = nil
	c.secondsRemaining = 0
	c.expired = false
	sessionID := c.session
	c.mu.Unlock()

	c.emit(Event{Kind: EventMenu, Mode: ModeIdle, Session: sessionID})
}

// Close stops the countdown and cancels outstanding message requests.
// The controller must not be used afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.stopTimerLocked()
	c.mu.Unlock()
	c.cancel()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Mode:             c.mode,
		Played:           c.played,
		Session:          c.session,
		Expired:          c.expired,
		PullCount:        c.pullCount,
		SecondsRemaining: c.secondsRemaining,
		Backlog:          len(c.backlog),
		Tissues:          c.pool.Tissues(),
	}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// startTimerLocked starts the single countdown for this session.
func (c *Controller) startTimerLocked() {
	c.timerGen++
	gen := c.timerGen
	c.stopTimer = c.scheduler.Every(c.settings.TickInterval, func() {
		c.tick(gen)
	})
}

// stopTimerLocked cancels the active countdown, if any.
func (c *Controller) stopTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
	// Invalidate ticks already in flight from the old countdown
	c.timerGen++
}

// tick advances the countdown started with generation gen.
func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if gen != c.timerGen || c.mode != ModeTimed {
		c.mu.Unlock()
		return
	}

	c.secondsRemaining--
	kind := EventTick
	if c.secondsRemaining <= 0 {
		c.secondsRemaining = 0
		c.stopTimerLocked()
		c.mode = ModeEnded
		c.expired = true
		kind = EventExpired
	}
	mode, sessionID := c.mode, c.session
	pulls := c.pullCount
	c.mu.Unlock()

	if kind == EventExpired {
		c.logger.Info("speed challenge finished", "pulls", pulls)
	}
	c.emit(Event{Kind: kind, Mode: mode, Session: sessionID})
}

// topUpLocked schedules a message request if the backlog is low.
// The request runs after the lock is released (see dispatch).
func (c *Controller) topUpLocked(tasks []func()) []func() {
	if len(c.backlog) >= c.settings.BacklogThreshold {
		return tasks
	}
	count := c.settings.BacklogRequest
	return append(tasks, func() { c.fetch(count) })
}

// fetch requests messages and merges them into the backlog in one update.
// A late batch is appended even if the session has moved on.
func (c *Controller) fetch(count int) {
	ctx := c.ctx
	if c.settings.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.settings.RequestTimeout)
		defer cancel()
	}

	msgs, err := c.source.Request(ctx, count)
	if err != nil {
		c.logger.Warn("message request failed", "error", err)
		return
	}
	if len(msgs) == 0 {
		return
	}

	c.mu.Lock()
	c.backlog = append(c.backlog, msgs...)
	c.distributeLocked()
	mode, sessionID := c.mode, c.session
	c.mu.Unlock()

	c.emit(Event{Kind: EventMessages, Mode: mode, Session: sessionID})
}

// distributeLocked writes backlog entries onto unlabeled tissues in Zen mode.
func (c *Controller) distributeLocked() {
	if c.mode != ModeUntimed || len(c.backlog) == 0 {
		return
	}
	used := c.pool.AssignMessages(c.backlog)
	c.backlog = c.backlog[used:]
}

func (c *Controller) dispatch(tasks []func()) {
	for _, t := range tasks {
		c.spawn(t)
	}
}

func (c *Controller) emit(e Event) {
	if c.listener != nil {
		c.listener(e)
	}
}
