package core

// DefaultPullRows is how far upward, in rows, a drag must travel to pull.
const DefaultPullRows = 3

// PullGesture tracks a single press-drag-release on the tissue stack.
// A drag that starts inside Area and is released at least Threshold rows
// above where it started counts as one pull. Anything shorter snaps back.
type PullGesture struct {
	Area      Rect
	Threshold int

	active bool
	startY int
	lastY  int
}

// NewPullGesture creates a tracker for the given stack area.
func NewPullGesture(area Rect, threshold int) *PullGesture {
	if threshold <= 0 {
		threshold = DefaultPullRows
	}
	return &PullGesture{Area: area, Threshold: threshold}
}

// Press begins a drag if the point is on the stack.
func (g *PullGesture) Press(x, y int) {
	if !g.Area.Contains(x, y) {
		g.active = false
		return
	}
	g.active = true
	g.startY = y
	g.lastY = y
}

// Motion records the current pointer row while dragging.
func (g *PullGesture) Motion(_, y int) {
	if g.active {
		g.lastY = y
	}
}

// Release ends the drag and reports whether it was a pull.
func (g *PullGesture) Release(_, y int) bool {
	if !g.active {
		return false
	}
	g.active = false
	g.lastY = y
	return g.startY-y >= g.Threshold
}

// Cancel abandons any drag in progress.
func (g *PullGesture) Cancel() {
	g.active = false
}

// Dragging reports whether a drag is in progress.
func (g *PullGesture) Dragging() bool {
	return g.active
}

// Lift returns how many rows the tissue has been lifted so far, never negative.
func (g *PullGesture) Lift() int {
	if !g.active || g.lastY >= g.startY {
		return 0
	}
	return g.startY - g.lastY
}
