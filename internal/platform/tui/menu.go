package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tissue-box/internal/session"
)

// MenuItem represents a selectable mode in the menu.
type MenuItem struct {
	Mode        session.Mode
	Title       string
	Description string
}

// menuItems lists the playable modes in display order.
var menuItems = []MenuItem{
	{
		Mode:        session.ModeUntimed,
		Title:       "Zen",
		Description: "Pull at your own pace. Some tissues carry a note.",
	},
	{
		Mode:        session.ModeTimed,
		Title:       "Speed",
		Description: "Pull as many as you can before time runs out.",
	},
}

// renderMenu renders the mode picker.
func renderMenu(cursor int, best map[session.Mode]int, width int) string {
	var b strings.Builder

	// Title
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  T I S S U E   B O X  "), width))
	b.WriteString("\n\n")

	// Subtitle
	b.WriteString(centerText("Select a mode", width))
	b.WriteString("\n\n")

	// Mode list
	for i, item := range menuItems {
		marker := "  "
		style := hudStyle
		if i == cursor {
			marker = "> "
			style = hudAccentStyle
		}

		line := marker + item.Title
		if n := best[item.Mode]; n > 0 {
			line += fmt.Sprintf("  (best %d)", n)
		}
		b.WriteString(centerText(style.Render(line), width))
		b.WriteString("\n")
		b.WriteString(centerText(dimStyle.Render(item.Description), width))
		b.WriteString("\n\n")
	}

	// Footer with controls
	controls := "Up/Down: Navigate  |  Enter: Select  |  1/2: Zen/Speed  |  Tab: Scores  |  Q: Quit"
	b.WriteString(centerText(dimStyle.Render(controls), width))
	b.WriteString("\n")

	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
