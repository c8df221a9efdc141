// Package round renders the in-round screen: countdown bar, revealed
// hints, the query editor with its result table, and the guess input.
package round

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/session"
	"github.com/datadive/tui/internal/theme"
)

// DefaultQueryText is restored into the editor at round boundaries.
const DefaultQueryText = "SELECT foo_id FROM foo WHERE foo_name='bar';"

// BarFPS is the frame rate of the countdown bar animation.
const BarFPS = 12

// Focus identifies which input currently receives keystrokes.
type Focus int

const (
	FocusEditor Focus = iota
	FocusGuess
)

// Model holds the round view state. Channel state, outcomes and results
// are mirrored in from the session controller after each event.
type Model struct {
	Width int

	editor textarea.Model
	guess  textinput.Model
	focus  Focus

	hints []session.Hint

	queryState   session.State
	queryOutcome *session.Outcome
	result       *session.Result
	queryCount   int

	guessState   session.State
	guessOutcome *session.Outcome

	remaining int
	total     int

	// Spring-animated fill of the countdown bar.
	spring harmonica.Spring
	barPos float64
	barVel float64
}

// New creates the round view.
func New() Model {
	ed := textarea.New()
	ed.Placeholder = "SELECT ..."
	ed.SetValue(DefaultQueryText)
	ed.SetHeight(5)
	ed.Focus()

	gi := textinput.New()
	gi.Placeholder = "where are we?"
	gi.CharLimit = 200

	return Model{
		editor: ed,
		guess:  gi,
		spring: harmonica.NewSpring(harmonica.FPS(BarFPS), 6.0, 0.7),
		barPos: 1.0,
		total:  session.DefaultRoundSeconds,
	}
}

// ResetInputs applies the round-boundary reset: default query restored,
// guess cleared, focus back on the editor, bar refilled.
func (m *Model) ResetInputs() {
	m.editor.SetValue(DefaultQueryText)
	m.guess.Reset()
	m.focus = FocusEditor
	m.editor.Focus()
	m.guess.Blur()
	m.barPos = 1.0
	m.barVel = 0
}

// ToggleFocus switches keystrokes between the editor and the guess input.
func (m *Model) ToggleFocus() tea.Cmd {
	if m.focus == FocusEditor {
		m.focus = FocusGuess
		m.editor.Blur()
		return m.guess.Focus()
	}
	m.focus = FocusEditor
	m.guess.Blur()
	return m.editor.Focus()
}

// Focused reports which input has focus.
func (m Model) Focused() Focus {
	return m.focus
}

// QueryText returns the editor contents.
func (m Model) QueryText() string {
	return m.editor.Value()
}

// GuessText returns the guess input contents.
func (m Model) GuessText() string {
	return m.guess.Value()
}

// SetWidth resizes the inputs.
func (m *Model) SetWidth(w int) {
	m.Width = w
	inner := w - 6
	if inner < 20 {
		inner = 20
	}
	m.editor.SetWidth(inner)
	m.guess.Width = inner
}

// SetHints replaces the displayed hint list.
func (m *Model) SetHints(hints []session.Hint) {
	m.hints = hints
}

// SetQuery mirrors the query channel.
func (m *Model) SetQuery(state session.State, outcome *session.Outcome, result *session.Result, count int) {
	m.queryState = state
	m.queryOutcome = outcome
	m.result = result
	m.queryCount = count
}

// SetGuess mirrors the guess channel.
func (m *Model) SetGuess(state session.State, outcome *session.Outcome) {
	m.guessState = state
	m.guessOutcome = outcome
}

// SetTime updates the countdown display.
func (m *Model) SetTime(remaining, total int) {
	m.remaining = remaining
	if total > 0 {
		m.total = total
	}
}

// Animate advances the countdown bar one frame toward the real fraction.
func (m *Model) Animate() {
	target := 0.0
	if m.total > 0 {
		target = float64(m.remaining) / float64(m.total)
	}
	m.barPos, m.barVel = m.spring.Update(m.barPos, m.barVel, target)
}

// Update forwards keystrokes to the focused input.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == FocusEditor {
		m.editor, cmd = m.editor.Update(msg)
	} else {
		m.guess, cmd = m.guess.Update(msg)
	}
	return cmd
}

// View renders the round screen.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	sections := []string{
		m.renderTimeBar(width),
		m.renderHints(),
		m.renderQueryPanel(width),
		m.renderGuessPanel(width),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTimeBar(width int) string {
	barWidth := width - 10
	if barWidth < 10 {
		barWidth = 10
	}

	fraction := 0.0
	if m.total > 0 {
		fraction = float64(m.remaining) / float64(m.total)
	}

	fill := m.barPos
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}
	filled := int(fill * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	color := theme.TimeColor(fraction)
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	bar += lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Repeat("░", barWidth-filled))
	label := lipgloss.NewStyle().Foreground(color).Render(fmt.Sprintf(" %3ds", m.remaining))

	return " " + bar + label
}

func (m Model) renderHints() string {
	header := theme.StyleHeader.Render("Hints")
	if len(m.hints) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			header,
			theme.StyleDimmed.Render("  Nothing revealed yet"),
		)
	}

	lines := []string{header}
	for _, h := range m.hints {
		name := theme.StyleDimmed.Render(h.Name + " is ")
		value := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBright).Render(h.Value)
		lines = append(lines, "  "+name+value)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderQueryPanel(width int) string {
	title := theme.StyleHeader.Render("Query")
	if m.focus == FocusEditor {
		title += theme.StyleDimmed.Render("  (focused)")
	}
	title += m.stateSuffix(m.queryState)

	lines := []string{
		title,
		m.editor.View(),
	}

	if m.queryOutcome != nil {
		style := theme.StyleError
		if m.queryOutcome.Success {
			style = theme.StyleSuccess
		}
		lines = append(lines, style.Render("  "+m.queryOutcome.Message))
	}
	if m.result != nil {
		lines = append(lines, renderResultTable(*m.result))
	}
	lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  Queries: %d", m.queryCount)))

	return theme.StyleBorder.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) renderGuessPanel(width int) string {
	title := theme.StyleHeader.Render("Guess")
	if m.focus == FocusGuess {
		title += theme.StyleDimmed.Render("  (focused)")
	}
	title += m.stateSuffix(m.guessState)

	lines := []string{
		title,
		m.guess.View(),
	}
	if m.guessOutcome != nil {
		style := theme.StyleError
		if m.guessOutcome.Success {
			style = theme.StyleSuccess
		}
		lines = append(lines, style.Render("  "+m.guessOutcome.Message))
	}

	return theme.StyleBorder.Width(width - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m Model) stateSuffix(s session.State) string {
	switch s {
	case session.InFlight:
		return lipgloss.NewStyle().Foreground(theme.ColorWarning).Render("  ⋯ waiting for server")
	case session.Locked:
		return lipgloss.NewStyle().Foreground(theme.ColorAccent).Render("  ✓ locked in")
	default:
		return ""
	}
}

// renderResultTable draws the tabular query result: a "#" index column
// followed by the server's columns, one body row per result row, indexed
// from zero within this response.
func renderResultTable(res session.Result) string {
	headers := append([]string{"#"}, res.Columns...)

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for i, row := range res.Rows {
		if w := len(fmt.Sprint(i)); w > widths[0] {
			widths[0] = w
		}
		for j, cell := range row {
			if j+1 < len(widths) && len(cell) > widths[j+1] {
				widths[j+1] = len(cell)
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			w := 0
			if i < len(widths) {
				w = widths[i]
			}
			parts[i] = fmt.Sprintf("%-*s", w, c)
		}
		return style.Render("  " + strings.Join(parts, "  "))
	}

	lines := []string{renderRow(headers, theme.StyleDimmed)}
	body := lipgloss.NewStyle().Foreground(theme.ColorBright)
	for i, row := range res.Rows {
		cells := append([]string{fmt.Sprint(i)}, row...)
		lines = append(lines, renderRow(cells, body))
	}
	return strings.Join(lines, "\n")
}
