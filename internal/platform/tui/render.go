package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tissue-box/internal/core"
	"github.com/vovakirdan/tissue-box/internal/session"
	"github.com/vovakirdan/tissue-box/internal/tissue"
)

// Play view layout constants
const (
	hudRows       = 2  // HUD line plus spacer above the stack
	cardWidth     = 28 // Inner width of the top tissue
	visibleLayers = 4  // Tissues drawn under the top one
	minLayerWidth = 8
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	hudStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hudAccentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	urgentStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("250")).
			Foreground(lipgloss.Color("236")).
			Background(lipgloss.Color("255")).
			Width(cardWidth).
			Align(lipgloss.Center).
			Padding(1, 1)

	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// stackArea is the region where a mouse drag may start a pull.
func stackArea(width, height int) core.Rect {
	return core.NewRect(0, hudRows, width, height-hudRows)
}

// tiltOffset maps a cosmetic rotation in degrees to a column shift.
func tiltOffset(rotation float64) int {
	return int(math.Round(rotation))
}

// renderHUD renders the mode, pull count and countdown line.
func renderHUD(snap session.Snapshot) string {
	var parts []string
	parts = append(parts, hudAccentStyle.Render(strings.ToUpper(snap.Mode.String())))
	parts = append(parts, hudStyle.Render(fmt.Sprintf("Pulls: %d", snap.PullCount)))

	switch snap.Mode {
	case session.ModeTimed:
		style := hudStyle
		if snap.SecondsRemaining <= 5 {
			style = urgentStyle
		}
		parts = append(parts, style.Render(fmt.Sprintf("Time: %ds", snap.SecondsRemaining)))
	case session.ModeUntimed:
		parts = append(parts, dimStyle.Render(fmt.Sprintf("Notes waiting: %d", snap.Backlog)))
	}

	return strings.Join(parts, "   ")
}

// renderTopCard renders the tissue that will be pulled next.
func renderTopCard(t tissue.Tissue, lift int) string {
	text := " "
	if t.HasMessage() {
		text = t.Message
	}
	card := cardStyle.Render(text)
	if off := tiltOffset(t.Rotation); off > 0 {
		card = lipgloss.NewStyle().MarginLeft(off).Render(card)
	}
	if lift > 0 {
		card += strings.Repeat("\n", lift)
	}
	return card
}

// renderLayers renders the edges of the tissues below the top one.
func renderLayers(tissues []tissue.Tissue) string {
	n := len(tissues)
	if n > visibleLayers {
		n = visibleLayers
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		w := core.Clamp(cardWidth-2*i, minLayerWidth, cardWidth)
		pad := core.Clamp((cardWidth+2-w)/2+tiltOffset(tissues[i].Rotation), 0, cardWidth)
		lines = append(lines, strings.Repeat(" ", pad)+layerStyle.Render("╰"+strings.Repeat("─", w-2)+"╯"))
	}
	return strings.Join(lines, "\n")
}

// renderPlay renders a session in progress.
func renderPlay(snap session.Snapshot, width int, lift int) string {
	var b strings.Builder

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderHUD(snap)))
	b.WriteString(strings.Repeat("\n", hudRows))

	var stack string
	if top, ok := firstTissue(snap.Tissues); ok {
		stack = lipgloss.JoinVertical(lipgloss.Left,
			renderTopCard(top, lift),
			renderLayers(snap.Tissues[1:]),
		)
	} else {
		stack = dimStyle.Render("The box is empty")
	}

	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		stack,
		"",
		dimStyle.Render(fmt.Sprintf("%d tissues in the box", len(snap.Tissues))),
	))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
	b.WriteString("\n\n")

	controls := "Space/Up/Enter or drag up: Pull  |  E: End  |  Esc: Menu  |  Q: Quit"
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dimStyle.Render(controls)))

	return b.String()
}

// renderGameOver renders the end of a session.
func renderGameOver(snap session.Snapshot, best int, newBest bool, width int) string {
	var b strings.Builder

	title := "TIME'S UP"
	if snap.Played == session.ModeUntimed {
		title = "SESSION ENDED"
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, titleStyle.Render(title)))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("You pulled %d tissues", snap.PullCount)
	if snap.Played == session.ModeTimed {
		summary = fmt.Sprintf("You pulled %d tissues in the speed challenge", snap.PullCount)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hudStyle.Render(summary)))
	b.WriteString("\n")

	if best > 0 {
		line := fmt.Sprintf("Best %s run: %d", snap.Played, best)
		if newBest {
			line = "New best!"
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, hudAccentStyle.Render(line)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	controls := "R: Play again  |  Z: Zen  |  S: Speed  |  Tab: Scores  |  Esc: Menu  |  Q: Quit"
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dimStyle.Render(controls)))

	return b.String()
}

// renderTooSmall replaces the play view when the terminal has no room for the stack.
func renderTooSmall(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, urgentStyle.Render("Window too small"))
}

func firstTissue(ts []tissue.Tissue) (tissue.Tissue, bool) {
	if len(ts) == 0 {
		return tissue.Tissue{}, false
	}
	return ts[0], true
}
