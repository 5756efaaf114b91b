package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/ui"
)

// RenderStatusBar draws the last status message and the key hints of the
// focused pane. Errors are shown in the failure colour.
func RenderStatusBar(status string, isErr bool, hints string, width int) string {
	color := ui.ColorMuted
	if isErr {
		color = ui.ColorFailure
	}
	left := lipgloss.NewStyle().Foreground(color).Render("  " + status)

	help := lipgloss.NewStyle().Foreground(ui.ColorMuted).
		Render(hints + " ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 0 {
		// Hints give way to the status text on narrow terminals.
		help = ""
		gap = width - lipgloss.Width(left)
		if gap < 0 {
			gap = 0
		}
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#111827")).
		Width(width).
		MaxHeight(1).
		Render(left + padding + help)
}
