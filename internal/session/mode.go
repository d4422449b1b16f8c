package session

import "time"

// Mode is the state of the session state machine.
type Mode int

const (
	ModeIdle    Mode = iota // Menu, no session
	ModeUntimed             // Zen: endless pulling with messages
	ModeTimed               // Speed: pull as many as possible before time runs out
	ModeEnded               // Game over, waiting for restart or menu
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeUntimed:
		return "zen"
	case ModeTimed:
		return "speed"
	case ModeEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Playing reports whether pulls are accepted in this mode.
func (m Mode) Playing() bool {
	return m == ModeUntimed || m == ModeTimed
}

// ParseMode maps a CLI/config name to a playable mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "zen", "untimed":
		return ModeUntimed, true
	case "speed", "timed":
		return ModeTimed, true
	}
	return ModeIdle, false
}

// Settings holds the session tunables.
type Settings struct {
	InitialBatch     int           // Tissues placed at session start
	LowWater         int           // Refill when the pool has this many or fewer
	RefillBatch      int           // Tissues added per refill
	BacklogThreshold int           // Request messages when the backlog is below this
	BacklogRequest   int           // Messages asked for per request
	SpeedDuration    int           // Seconds in a speed challenge
	TickInterval     time.Duration // Countdown granularity
	MaxRotation      float64       // Cosmetic tilt range in degrees
	RequestTimeout   time.Duration // Upper bound on one message request
}

// DefaultSettings returns the standard game rules.
func DefaultSettings() Settings {
	return Settings{
		InitialBatch:     10,
		LowWater:         4,
		RefillBatch:      5,
		BacklogThreshold: 5,
		BacklogRequest:   5,
		SpeedDuration:    30,
		TickInterval:     time.Second,
		MaxRotation:      3,
		RequestTimeout:   15 * time.Second,
	}
}

// EventKind identifies what changed in the session.
type EventKind int

const (
	EventStarted  EventKind = iota // A new session began
	EventPulled                    // A tissue was pulled
	EventTick                      // The countdown advanced
	EventExpired                   // The countdown reached zero
	EventEnded                     // The session was ended explicitly
	EventMenu                      // Returned to the menu
	EventMessages                  // A message batch arrived
)

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventPulled:
		return "pulled"
	case EventTick:
		return "tick"
	case EventExpired:
		return "expired"
	case EventEnded:
		return "ended"
	case EventMenu:
		return "menu"
	case EventMessages:
		return "messages"
	default:
		return "unknown"
	}
}

// Event is delivered to the listener after each state change.
type Event struct {
	Kind    EventKind
	Mode    Mode   // Mode after the change
	Session uint64 // Session the change belongs to
}
