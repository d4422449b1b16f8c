// Package tui provides the Bubble Tea front end for the tissue box.
// It handles the terminal UI loop, input mapping, and run recording;
// all game rules live in the session controller.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tissue-box/internal/session"
)

// EventMsg carries a controller event into the Bubble Tea loop.
type EventMsg session.Event

// eventBufferSize bounds queued controller events. Overflow is dropped;
// the model re-reads the full snapshot on every event it does receive.
const eventBufferSize = 64

// eventBridge forwards controller events, which arrive on timer and
// request goroutines, to the single Bubble Tea update goroutine.
type eventBridge struct {
	events chan session.Event
	done   chan struct{}
	once   sync.Once
}

func newEventBridge() *eventBridge {
	return &eventBridge{
		events: make(chan session.Event, eventBufferSize),
		done:   make(chan struct{}),
	}
}

// publish is the controller listener. It never blocks.
func (b *eventBridge) publish(e session.Event) {
	select {
	case <-b.done:
	case b.events <- e:
	default:
	}
}

// wait returns a command that delivers the next event.
// It returns nil once the bridge is closed.
func (b *eventBridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case e := <-b.events:
			return EventMsg(e)
		case <-b.done:
			return nil
		}
	}
}

func (b *eventBridge) close() {
	b.once.Do(func() { close(b.done) })
}
