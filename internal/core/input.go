package core

// Action represents a semantic player intent, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionPull           // Space, Up, Enter - pull the top tissue
	ActionZen            // Z, 1 - start Zen mode
	ActionSpeed          // S, 2 - start the speed challenge
	ActionEnd            // E - end the current session
	ActionMenu           // B, Escape - return to the menu
	ActionScores         // Tab - open the scoreboard
	ActionRestart        // R - replay the last mode
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionPull:
		return "Pull"
	case ActionZen:
		return "Zen"
	case ActionSpeed:
		return "Speed"
	case ActionEnd:
		return "End"
	case ActionMenu:
		return "Menu"
	case ActionScores:
		return "Scores"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
