// Package help renders the game-rules overlay from markdown.
package help

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/theme"
)

const rules = `# DataDive

A hidden location is picked each round. Dig it out of the dataset before
the clock runs down.

## How to play

1. Write queries against the round's tables to uncover clues. Every
   query you run counts toward your score.
2. Watch the **Hints** panel: the server reveals attributes of the
   location as the round progresses.
3. When you think you know where you are, type a guess and lock it in.
   A correct guess ends your round; fewer queries means more points.

## Keys

| Key | Action |
| --- | ------ |
| tab | switch between query editor and guess input |
| ctrl+s | run the query |
| enter | submit the guess (when focused) |
| s | start the game (lobby) |
| n | next round (between rounds) |
| e | end the game (between rounds) |
| d | event log |
| ? | this help |
| q | quit |
`

// Model caches the rendered rules.
type Model struct {
	rendered string
}

// New creates the help overlay, rendering the markdown once.
func New() Model {
	out, err := glamour.Render(rules, "dark")
	if err != nil {
		// Raw markdown still reads fine in a terminal.
		out = rules
	}
	return Model{rendered: out}
}

// View renders the overlay panel.
func (m Model) View(width int) string {
	innerW := width - 4
	if innerW < 30 {
		innerW = 30
	}
	return lipgloss.NewStyle().
		Width(innerW).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(m.rendered + "\n" + theme.StyleDimmed.Render(" esc:close"))
}
