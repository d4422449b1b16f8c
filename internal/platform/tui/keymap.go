package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tissue-box/internal/core"
	"github.com/vovakirdan/tissue-box/internal/session"
)

// KeyMapper translates Bubble Tea key messages to player actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action for the given session mode.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg, mode session.Mode) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch mode {
	case session.ModeUntimed, session.ModeTimed:
		switch key {
		case " ", "up", "w", "k", "enter":
			return core.ActionPull, false
		case "e":
			return core.ActionEnd, false
		case "b", "esc":
			return core.ActionMenu, false
		}

	case session.ModeEnded:
		switch key {
		case "r":
			return core.ActionRestart, false
		case "z":
			return core.ActionZen, false
		case "s":
			return core.ActionSpeed, false
		case "b", "esc":
			return core.ActionMenu, false
		case "tab":
			return core.ActionScores, false
		}
	}

	return core.ActionNone, false
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionZen
	MenuActionSpeed
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "z", "1":
		return MenuActionZen
	case "2":
		return MenuActionSpeed
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
