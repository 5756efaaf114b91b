package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/harvester-reports/internal/ui"
)

// RenderHeader shows the backend host on the left and the hit count of
// the active query on the right. total < 0 hides the count.
func RenderHeader(host string, total int, loading bool, width int) string {
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(fmt.Sprintf(" harvester-reports | %s", host))

	right := ""
	switch {
	case loading:
		right = lipgloss.NewStyle().Foreground(ui.ColorWarning).Render("searching... ")
	case total >= 0:
		color := ui.ColorSuccess
		if total == 0 {
			color = ui.ColorMuted
		}
		right = lipgloss.NewStyle().Foreground(color).
			Render(fmt.Sprintf("%d logs ", total))
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(lipgloss.Color("#1F2937")).
		Width(width).
		Render(left + padding + right)
}
