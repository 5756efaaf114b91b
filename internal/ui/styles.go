package ui

import "github.com/charmbracelet/lipgloss"

var (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorFailure   = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorCancelled = lipgloss.Color("#F97316")
	ColorInfo      = lipgloss.Color("#3B82F6")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorBorder    = lipgloss.Color("#374151")
	ColorHighlight = lipgloss.Color("#1F2937")

	StylePane = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StylePaneFocused = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F9FAFB")).
			Background(ColorPrimary).
			Padding(0, 1)

	StyleSuccess   = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleFailure   = lipgloss.NewStyle().Foreground(ColorFailure)
	StyleWarning   = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleCancelled = lipgloss.NewStyle().Foreground(ColorCancelled)
	StyleInfo      = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted     = lipgloss.NewStyle().Foreground(ColorMuted)

	StyleMatch = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FCD34D")).
			Background(lipgloss.Color("#78350F"))
)

// StatusStyle maps a run status to the terminal colour of its label.
func StatusStyle(status string) lipgloss.Style {
	switch StatusColor(status) {
	case "green":
		return StyleSuccess
	case "red":
		return StyleFailure
	case "yellow":
		return StyleWarning
	case "orange":
		return StyleCancelled
	default:
		return StyleMuted
	}
}

// StatusGlyph is the one-cell rendering of StatusIcon.
func StatusGlyph(status string) string {
	var g string
	switch StatusIcon(status) {
	case "check circle":
		g = "✔"
	case "times circle":
		g = "✘"
	case "spinner":
		g = "⟳"
	case "ban":
		g = "⊘"
	case "clock outline":
		g = "◷"
	case "warning sign":
		g = "⚠"
	default:
		g = "○"
	}
	return StatusStyle(status).Render(g)
}
