// Package summary renders the end-of-round leaderboard.
package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/session"
	"github.com/datadive/tui/internal/theme"
)

// Model holds the summary view state.
type Model struct {
	Width           int
	rows            []session.SummaryRow
	correctLocation string
}

// New creates a summary view model.
func New() Model {
	return Model{}
}

// SetData fully replaces the displayed rows and correct-location label.
// Row order is the server's; nothing is re-sorted here.
func (m *Model) SetData(rows []session.SummaryRow, correctLocation string) {
	m.rows = make([]session.SummaryRow, len(rows))
	copy(m.rows, rows)
	m.correctLocation = correctLocation
}

// View renders the leaderboard.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	header := theme.StyleHeader.Render("  ROUND OVER")
	location := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorAccent).
		Render("  Correct Location: " + m.correctLocation)

	colName := 24
	colPoints := 8
	colGuessed := 10

	dim := theme.StyleDimmed
	tableHeader := fmt.Sprintf("  %-*s %*s  %-*s",
		colName, "Player",
		colPoints, "Points",
		colGuessed, "Guessed",
	)

	lines := []string{
		header,
		location,
		"",
		dim.Render(tableHeader),
		dim.Render("  " + strings.Repeat("─", min(width-4, colName+colPoints+colGuessed+4))),
	}

	if len(m.rows) == 0 {
		lines = append(lines, dim.Render("  No scores reported"))
	}

	for _, row := range m.rows {
		name := row.DisplayName
		if len(name) > colName-1 {
			name = name[:colName-2] + "…"
		}
		nameStr := lipgloss.NewStyle().Foreground(theme.ColorBright).
			Render(fmt.Sprintf("%-*s", colName, name))
		pointsStr := theme.StyleHeader.Render(fmt.Sprintf("%*d", colPoints, row.Points))

		verdict := "✗"
		style := theme.StyleError
		if row.Correct {
			verdict = "✓"
			style = theme.StyleSuccess
		}
		verdictStr := style.Render(fmt.Sprintf("%-*s", colGuessed, verdict))

		lines = append(lines, fmt.Sprintf("  %s %s  %s", nameStr, pointsStr, verdictStr))
	}

	lines = append(lines, "",
		theme.StyleDimmed.Render("  n:next round  e:end game"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
