// Package theme provides the Lip Gloss color palette and reusable styles
// for the DataDive TUI. It is a leaf package with no internal imports to
// avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Phase colors.
var (
	ColorLobby  = lipgloss.Color("#7c3aed")
	ColorActive = lipgloss.Color("#2563eb")
	ColorEnded  = lipgloss.Color("#d97706")
)

// Outcome colors.
var (
	ColorSuccess = lipgloss.Color("#16a34a")
	ColorFailure = lipgloss.Color("#dc2626")
)

// Countdown thresholds.
var (
	ColorTimeAmple = lipgloss.Color("#22c55e") // >50% left
	ColorTimeLow   = lipgloss.Color("#d97706") // 20-50%
	ColorTimeCrit  = lipgloss.Color("#dc2626") // <20%
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorAccent  = lipgloss.Color("#06b6d4")
)

// PhaseColor returns the accent color for a phase name.
func PhaseColor(phase string) lipgloss.Color {
	switch phase {
	case "round_active":
		return ColorActive
	case "round_ended":
		return ColorEnded
	default:
		return ColorLobby
	}
}

// OutcomeColor returns green for success, red otherwise.
func OutcomeColor(success bool) lipgloss.Color {
	if success {
		return ColorSuccess
	}
	return ColorFailure
}

// TimeColor returns the countdown color for the remaining fraction of the
// round.
func TimeColor(fraction float64) lipgloss.Color {
	switch {
	case fraction < 0.2:
		return ColorTimeCrit
	case fraction < 0.5:
		return ColorTimeLow
	default:
		return ColorTimeAmple
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
			Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorBright)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorFailure)
)

// ConnGlyph returns the status-bar connection indicator.
func ConnGlyph(connected bool) string {
	if connected {
		return lipgloss.NewStyle().Foreground(ColorHealthy).Render("● Connected")
	}
	return lipgloss.NewStyle().Foreground(ColorDanger).Render("○ Connecting...")
}
