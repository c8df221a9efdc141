// Package roster renders the participant list: one line per slot, in
// position order, with a single disconnected marker per entry.
package roster

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/session"
	"github.com/datadive/tui/internal/theme"
)

// Model holds the roster view state.
type Model struct {
	Width        int
	participants []session.Participant
}

// New creates a roster view model.
func New() Model {
	return Model{}
}

// SetParticipants replaces the displayed list. The view keeps its own
// copy so later roster mutations don't bleed into a stale render.
func (m *Model) SetParticipants(participants []session.Participant) {
	m.participants = make([]session.Participant, len(participants))
	copy(m.participants, participants)
}

// View renders the participant lines.
func (m Model) View() string {
	header := theme.StyleHeader.Render("Players")
	if len(m.participants) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  No one here yet"),
		)
	}

	lines := []string{header}
	for _, p := range m.participants {
		lines = append(lines, renderLine(p))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderLine shows one participant. The disconnected marker is part of
// the render, so repeated disconnect events can never stack duplicates.
func renderLine(p session.Participant) string {
	if !p.Connected {
		glyph := lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○")
		name := theme.StyleDimmed.Render(p.DisplayName)
		marker := theme.StyleDimmed.Render("  Disconnected")
		return "  " + glyph + " " + name + marker
	}
	glyph := lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("●")
	name := lipgloss.NewStyle().Foreground(theme.ColorBright).Render(p.DisplayName)
	return "  " + glyph + " " + name
}
