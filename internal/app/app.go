// Package app wires the session controller, the WebSocket client and the
// views into the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/datadive/tui/internal/client"
	"github.com/datadive/tui/internal/config"
	"github.com/datadive/tui/internal/session"
	"github.com/datadive/tui/internal/theme"
	"github.com/datadive/tui/internal/views/debug"
	"github.com/datadive/tui/internal/views/help"
	"github.com/datadive/tui/internal/views/roster"
	"github.com/datadive/tui/internal/views/round"
	"github.com/datadive/tui/internal/views/status"
	"github.com/datadive/tui/internal/views/summary"
	"github.com/rs/zerolog"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayLog
)

// clockTickMsg is one scheduled countdown second. The generation pins it
// to the clock run it was scheduled under; Stale ticks are dropped by the
// clock itself.
type clockTickMsg struct{ gen int }

// frameMsg drives the countdown bar animation.
type frameMsg struct{}

// Model is the root Bubble Tea model.
type Model struct {
	ws     *client.Client
	ctrl   *session.Controller
	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	overlay   Overlay
	connected bool
	animating bool

	statusBar   status.Model
	rosterView  roster.Model
	roundView   round.Model
	summaryView summary.Model
	helpView    help.Model
	eventLog    debug.Model
}

// New creates the root model. The WebSocket client doubles as the
// controller's emitter.
func New(ws *client.Client, cfg *config.Config, log zerolog.Logger) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		ws:          ws,
		ctrl:        session.NewController(ws, cfg.Round.DefaultSeconds, log),
		ctx:         ctx,
		cancel:      cancel,
		keys:        DefaultKeyMap(),
		statusBar:   status.New(cfg.Player.RoomCode),
		rosterView:  roster.New(),
		roundView:   round.New(),
		summaryView: summary.New(),
		helpView:    help.New(),
		eventLog:    debug.New(),
	}
}

// Init starts the WebSocket connection.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ws.Listen(m.ctx), textarea.Blink)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.rosterView.Width = msg.Width
		m.summaryView.Width = msg.Width
		m.roundView.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case clockTickMsg:
		again := m.ctrl.Clock().Tick(msg.gen)
		m.sync()
		if again {
			return m, m.tickCmd(msg.gen)
		}
		return m, nil

	case frameMsg:
		m.roundView.Animate()
		if m.ctrl.Phase() == session.RoundActive && !m.ctrl.GameOver() {
			return m, frameCmd()
		}
		m.animating = false
		return m, nil

	case client.ConnectedMsg:
		m.connected = true
		m.eventLog.Add("ws", "connected")
		m.ctrl.Connected()
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.DisconnectedMsg:
		m.connected = false
		if m.ctrl.GameOver() {
			return m, nil
		}
		m.eventLog.Add("err", fmt.Sprintf("disconnected: %v", msg.Err))
		m.sync()
		return m, m.ws.Listen(m.ctx)

	case client.GameStartedMsg:
		m.eventLog.Add("ws", "start_game")
		m.ctrl.GameStarted()
		m.eventLog.Add("phase", m.ctrl.Phase().String())
		m.roundView.ResetInputs()
		m.sync()
		return m, tea.Batch(m.ws.ReadLoop(m.ctx), m.tickCmd(m.ctrl.Clock().Generation()), m.animateCmd())

	case client.RoundBeganMsg:
		m.eventLog.Add("ws", "round_began")
		m.ctrl.RoundBegan()
		m.eventLog.Add("phase", m.ctrl.Phase().String())
		m.roundView.ResetInputs()
		m.sync()
		return m, tea.Batch(m.ws.ReadLoop(m.ctx), m.tickCmd(m.ctrl.Clock().Generation()), m.animateCmd())

	case client.RoundEndedMsg:
		m.eventLog.Add("ws", "round_ended")
		data := roundEndFromWire(msg.Payload.UserQueryCounts, msg.Payload.CorrectLocation)
		m.ctrl.RoundOver(data)
		m.eventLog.Add("phase", m.ctrl.Phase().String())
		m.summaryView.SetData(data.Rows, data.CorrectLocation)
		m.roundView.ResetInputs()
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.GameEndedMsg:
		m.eventLog.Add("ws", "game_ended")
		m.ctrl.GameEnded()
		m.ws.Close()
		m.sync()
		return m, nil

	case client.QueryResultMsg:
		m.eventLog.Add("ws", "query_result")
		if msg.Payload.Error != "" {
			m.ctrl.QueryFailed(msg.Payload.Error)
		} else {
			m.ctrl.QuerySucceeded(msg.Payload.Columns, msg.Payload.Rows())
		}
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.GuessResultMsg:
		m.eventLog.Add("ws", "guess_result")
		if msg.Payload.Error != "" {
			m.ctrl.GuessFailed(msg.Payload.Error)
		} else {
			m.ctrl.GuessChecked(msg.Payload.Result)
		}
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.HintMsg:
		m.eventLog.Add("ws", fmt.Sprintf("hint_revealed %s", msg.Payload.Name))
		m.ctrl.HintRevealed(msg.Payload.Name, msg.Payload.Value)
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.ParticipantJoinedMsg:
		m.eventLog.Add("ws", fmt.Sprintf("participant_joined %s", msg.Payload.DisplayName))
		m.ctrl.ParticipantJoined(msg.Payload.DisplayName, msg.Payload.IsConnected())
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.ParticipantReconnectedMsg:
		m.eventLog.Add("ws", fmt.Sprintf("participant_reconnected %d", msg.Position))
		m.ctrl.ParticipantReconnected(msg.Position)
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.ParticipantDisconnectedMsg:
		m.eventLog.Add("ws", fmt.Sprintf("participant_disconnected %d", msg.Position))
		m.ctrl.ParticipantDisconnected(msg.Position)
		m.sync()
		return m, m.ws.ReadLoop(m.ctx)

	case client.SnapshotMsg:
		m.eventLog.Add("ws", "room_snapshot")
		m.ctrl.ApplySnapshot(snapshotFromWire(msg.Payload))
		m.eventLog.Add("phase", m.ctrl.Phase().String())
		if m.ctrl.Phase() == session.RoundEnded {
			s := m.ctrl.Summary()
			m.summaryView.SetData(s.Rows(), s.CorrectLocation())
		}
		m.sync()
		cmds := []tea.Cmd{m.ws.ReadLoop(m.ctx)}
		if m.ctrl.Clock().Running() {
			cmds = append(cmds, m.tickCmd(m.ctrl.Clock().Generation()), m.animateCmd())
		}
		return m, tea.Batch(cmds...)
	}

	if m.ctrl.Phase() == session.RoundActive {
		return m, m.roundView.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.QuitHard) {
		return m.quit()
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case m.overlay == OverlayLog && key.Matches(msg, m.keys.Up):
			m.eventLog.ScrollUp(1)
		case m.overlay == OverlayLog && key.Matches(msg, m.keys.Down):
			m.eventLog.ScrollDown(1)
		}
		return m, nil
	}

	if m.ctrl.Phase() == session.RoundActive && !m.ctrl.GameOver() {
		return m.handleRoundKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleRoundKey runs while an input is focused: only control-key
// bindings are intercepted, everything else is typed into the input.
func (m Model) handleRoundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Tab):
		cmd := m.roundView.ToggleFocus()
		return m, cmd

	case key.Matches(msg, m.keys.RunQuery):
		if m.ctrl.SubmitQuery(m.roundView.QueryText()) {
			m.eventLog.Add("act", "submit_query")
		}
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Submit) && m.roundView.Focused() == round.FocusGuess:
		if m.ctrl.SubmitGuess(m.roundView.GuessText()) {
			m.eventLog.Add("act", "submit_guess")
		}
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.HelpAlt):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.LogAlt):
		m.overlay = OverlayLog
		return m, nil
	}

	return m, m.roundView.Update(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Start):
		m.ctrl.StartGame()
		m.eventLog.Add("act", "start_game")
		return m, nil

	case key.Matches(msg, m.keys.Next):
		m.ctrl.AdvanceRound()
		m.eventLog.Add("act", "advance_round")
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.ctrl.EndGame()
		m.eventLog.Add("act", "end_game")
		return m, nil

	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.HelpAlt):
		m.overlay = OverlayHelp
		return m, nil

	case key.Matches(msg, m.keys.Log), key.Matches(msg, m.keys.LogAlt):
		m.overlay = OverlayLog
		return m, nil
	}

	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.cancel()
	m.ws.Close()
	return m, tea.Quit
}

// sync mirrors controller state into the views. Views never read the
// controller directly; every event funnels through here once.
func (m *Model) sync() {
	m.statusBar.Connected = m.connected
	m.statusBar.Phase = m.ctrl.Phase().String()
	m.statusBar.QueryCount = m.ctrl.Queries().QueryCount()
	m.statusBar.Remaining = m.ctrl.Clock().Remaining()

	m.rosterView.SetParticipants(m.ctrl.Roster().Participants())
	m.roundView.SetHints(m.ctrl.Hints().Hints())

	q := m.ctrl.Queries()
	m.roundView.SetQuery(q.State(), q.Outcome(), q.Result(), q.QueryCount())
	g := m.ctrl.Guess()
	m.roundView.SetGuess(g.State(), g.Outcome())
	m.roundView.SetTime(m.ctrl.Clock().Remaining(), m.ctrl.Clock().DefaultSeconds())
}

func (m Model) tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return clockTickMsg{gen: gen}
	})
}

func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/round.BarFPS, func(time.Time) tea.Msg {
		return frameMsg{}
	})
}

// animateCmd starts the bar animation unless it is already running.
func (m *Model) animateCmd() tea.Cmd {
	if m.animating {
		return nil
	}
	m.animating = true
	return frameCmd()
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	switch m.overlay {
	case OverlayHelp:
		return lipgloss.JoinVertical(lipgloss.Left, m.statusBar.View(), m.helpView.View(m.width))
	case OverlayLog:
		return lipgloss.JoinVertical(lipgloss.Left, m.statusBar.View(), m.eventLog.View(m.width, m.height-3))
	}

	sections := []string{m.statusBar.View()}

	switch {
	case m.ctrl.GameOver():
		sections = append(sections,
			"",
			theme.StyleHeader.Render("  GAME OVER"),
			theme.StyleDimmed.Render("  Thanks for playing."),
			"",
			theme.StyleDimmed.Render("  q:quit"),
		)

	case m.ctrl.Phase() == session.RoundActive:
		sections = append(sections,
			m.rosterView.View(),
			m.roundView.View(),
			theme.StyleDimmed.Render("  tab:switch  ctrl+s:run query  enter:guess  ctrl+o:log  ctrl+g:help  ctrl+c:quit"),
		)

	case m.ctrl.Phase() == session.RoundEnded:
		sections = append(sections,
			m.rosterView.View(),
			m.summaryView.View(),
			theme.StyleDimmed.Render("  d:log  ?:help  q:quit"),
		)

	default: // lobby
		sections = append(sections,
			m.rosterView.View(),
			"",
			theme.StyleDimmed.Render("  Waiting for the game to start..."),
			theme.StyleDimmed.Render("  s:start game  d:log  ?:help  q:quit"),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// --- wire → session conversions ---

func rowsFromWire(entries []client.SummaryEntry) []session.SummaryRow {
	rows := make([]session.SummaryRow, len(entries))
	for i, e := range entries {
		rows[i] = session.SummaryRow{
			DisplayName: e.DisplayName,
			Points:      e.Points,
			Correct:     e.Correct,
		}
	}
	return rows
}

func roundEndFromWire(entries []client.SummaryEntry, correctLocation string) session.RoundEndData {
	return session.RoundEndData{
		Rows:            rowsFromWire(entries),
		CorrectLocation: correctLocation,
	}
}

func snapshotFromWire(p client.SnapshotPayload) session.Snapshot {
	users := make([]session.SnapshotUser, len(p.Users))
	for i, u := range p.Users {
		users[i] = session.SnapshotUser{
			DisplayName: u.DisplayName,
			Connected:   u.IsConnected(),
		}
	}

	hints := make([]session.Hint, len(p.Hints))
	for i, h := range p.Hints {
		hints[i] = session.Hint{Name: h.Name, Value: h.Value}
	}

	snap := session.Snapshot{
		Users:       users,
		Hints:       hints,
		QueryCount:  p.QueryCount,
		RoomStatus:  p.RoomStatus,
		CurrentTime: p.CurrentTime,
	}
	if p.HasRoundEnd() {
		data := roundEndFromWire(p.UserQueryCounts, p.CorrectLocation)
		snap.Ended = &data
	}
	return snap
}
