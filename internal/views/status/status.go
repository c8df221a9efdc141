package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Connected  bool
	Phase      string
	QueryCount int
	Remaining  int
	RoomCode   string
	Width      int
}

// New creates a status bar model.
func New(roomCode string) Model {
	return Model{Phase: "lobby", RoomCode: roomCode}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	phaseStr := lipgloss.NewStyle().
		Foreground(theme.PhaseColor(m.Phase)).
		Render(strings.ToUpper(strings.ReplaceAll(m.Phase, "_", " ")))

	parts := []string{
		theme.ConnGlyph(m.Connected),
		phaseStr,
		fmt.Sprintf("queries: %d", m.QueryCount),
		fmt.Sprintf("%ds", m.Remaining),
	}
	if m.RoomCode != "" {
		parts = append(parts, theme.StyleDimmed.Render("room "+m.RoomCode))
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := strings.Join(parts, sep)

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
