package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/datadive/tui/internal/client"
	"github.com/datadive/tui/internal/config"
	"github.com/datadive/tui/internal/session"
	"github.com/rs/zerolog"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	ws := client.New(cfg.Server.URL, zerolog.Nop())
	m := New(ws, cfg, zerolog.Nop())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestViewBeforeFirstResize(t *testing.T) {
	cfg := config.Default()
	ws := client.New(cfg.Server.URL, zerolog.Nop())
	m := New(ws, cfg, zerolog.Nop())
	if got := m.View(); got != "Initializing..." {
		t.Fatalf("View() = %q, want Initializing...", got)
	}
}

func TestLobbyView(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m,
		client.ConnectedMsg{},
		client.ParticipantJoinedMsg{Payload: client.RoomUser{DisplayName: "alice"}},
	)

	view := m.View()
	for _, want := range []string{"Players", "alice", "s:start game", "Waiting for the game to start"} {
		if !strings.Contains(view, want) {
			t.Errorf("lobby view missing %q", want)
		}
	}
}

func TestGameStartedEntersActiveRound(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{}, client.GameStartedMsg{})

	if got := m.ctrl.Phase(); got != session.RoundActive {
		t.Fatalf("phase = %v, want RoundActive", got)
	}
	view := m.View()
	for _, want := range []string{"ctrl+s:run query", "Guess", "Hints"} {
		if !strings.Contains(view, want) {
			t.Errorf("round view missing %q", want)
		}
	}
}

func TestHintShowsUpInRoundView(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m,
		client.ConnectedMsg{},
		client.GameStartedMsg{},
		client.HintMsg{Payload: client.HintPayload{Name: "color", Value: "red"}},
	)

	view := m.View()
	if !strings.Contains(view, "color") || !strings.Contains(view, "red") {
		t.Errorf("hint not rendered:\n%s", view)
	}
}

func TestRoundEndedShowsSummary(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m,
		client.ConnectedMsg{},
		client.GameStartedMsg{},
		client.RoundEndedMsg{Payload: client.RoundEndedPayload{
			UserQueryCounts: []client.SummaryEntry{
				{DisplayName: "alice", Points: 3, Correct: true},
				{DisplayName: "bob", Points: 7, Correct: false},
			},
			CorrectLocation: "Kitchen",
		}},
	)

	if got := m.ctrl.Phase(); got != session.RoundEnded {
		t.Fatalf("phase = %v, want RoundEnded", got)
	}
	view := m.View()
	for _, want := range []string{"ROUND OVER", "Kitchen", "alice", "bob", "n:next round"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary view missing %q", want)
		}
	}
}

func TestGameEndedShowsGameOver(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{}, client.GameStartedMsg{}, client.GameEndedMsg{})

	if !m.ctrl.GameOver() {
		t.Fatal("controller not marked game over")
	}
	if view := m.View(); !strings.Contains(view, "GAME OVER") {
		t.Errorf("game over screen missing:\n%s", view)
	}
}

func TestDisconnectAfterGameOverStaysQuiet(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{}, client.GameEndedMsg{})

	updated, cmd := m.Update(client.DisconnectedMsg{})
	m = updated.(Model)
	if cmd != nil {
		t.Error("expected no reconnect command after the game ended")
	}
	if !strings.Contains(m.View(), "GAME OVER") {
		t.Error("game over screen lost after disconnect")
	}
}

func TestClockTickIgnoresStaleGeneration(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{}, client.GameStartedMsg{})

	gen := m.ctrl.Clock().Generation()
	before := m.ctrl.Clock().Remaining()

	m = apply(t, m, clockTickMsg{gen: gen - 1})
	if got := m.ctrl.Clock().Remaining(); got != before {
		t.Errorf("stale tick decremented clock: %d -> %d", before, got)
	}

	m = apply(t, m, clockTickMsg{gen: gen})
	if got := m.ctrl.Clock().Remaining(); got != before-1 {
		t.Errorf("live tick: remaining = %d, want %d", got, before-1)
	}
}

func TestRoundBeganRestartsTicksUnderNewGeneration(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{}, client.GameStartedMsg{})
	oldGen := m.ctrl.Clock().Generation()

	m = apply(t, m,
		client.RoundEndedMsg{Payload: client.RoundEndedPayload{CorrectLocation: "Garage"}},
		client.RoundBeganMsg{},
	)

	if got := m.ctrl.Clock().Generation(); got == oldGen {
		t.Error("new round reused the old clock generation")
	}
	before := m.ctrl.Clock().Remaining()
	m = apply(t, m, clockTickMsg{gen: oldGen})
	if got := m.ctrl.Clock().Remaining(); got != before {
		t.Error("tick from the previous round still decremented the clock")
	}
}

func TestHelpOverlayToggle(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m, client.ConnectedMsg{})

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if m.overlay != OverlayHelp {
		t.Fatalf("overlay = %v, want OverlayHelp", m.overlay)
	}
	if !strings.Contains(m.View(), "esc:close") {
		t.Error("help overlay missing close hint")
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != OverlayNone {
		t.Errorf("overlay = %v after esc, want OverlayNone", m.overlay)
	}
}

func TestLogOverlayRecordsEvents(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m,
		client.ConnectedMsg{},
		client.HintMsg{Payload: client.HintPayload{Name: "size", Value: "small"}},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}},
	)

	if m.overlay != OverlayLog {
		t.Fatalf("overlay = %v, want OverlayLog", m.overlay)
	}
	view := m.View()
	for _, want := range []string{"EVENT LOG", "connected", "hint_revealed size"} {
		if !strings.Contains(view, want) {
			t.Errorf("event log missing %q", want)
		}
	}
}

func TestSnapshotFromWire(t *testing.T) {
	disconnected := client.StatusDisconnected
	snap := snapshotFromWire(client.SnapshotPayload{
		Users: []client.RoomUser{
			{DisplayName: "alice"},
			{DisplayName: "bob", Status: &disconnected},
		},
		Hints:       []client.HintPair{{Name: "color", Value: "red"}},
		QueryCount:  4,
		RoomStatus:  client.RoomActive,
		CurrentTime: 31,
	})

	if len(snap.Users) != 2 || !snap.Users[0].Connected || snap.Users[1].Connected {
		t.Errorf("users converted wrong: %+v", snap.Users)
	}
	if len(snap.Hints) != 1 || snap.Hints[0].Name != "color" {
		t.Errorf("hints converted wrong: %+v", snap.Hints)
	}
	if snap.QueryCount != 4 || snap.RoomStatus != client.RoomActive || snap.CurrentTime != 31 {
		t.Errorf("scalars converted wrong: %+v", snap)
	}
	if snap.Ended != nil {
		t.Error("mid-round snapshot should not carry round-end data")
	}
}

func TestSnapshotFromWireWithRoundEnd(t *testing.T) {
	snap := snapshotFromWire(client.SnapshotPayload{
		UserQueryCounts: []client.SummaryEntry{{DisplayName: "alice", Points: 2, Correct: true}},
		CorrectLocation: "Attic",
	})
	if snap.Ended == nil {
		t.Fatal("round-end data dropped in conversion")
	}
	if snap.Ended.CorrectLocation != "Attic" || len(snap.Ended.Rows) != 1 {
		t.Errorf("round-end data converted wrong: %+v", snap.Ended)
	}
}

func TestSnapshotWhileEndedPopulatesSummaryView(t *testing.T) {
	m := newTestModel(t)
	m = apply(t, m,
		client.ConnectedMsg{},
		client.SnapshotMsg{Payload: client.SnapshotPayload{
			Users:           []client.RoomUser{{DisplayName: "alice"}},
			UserQueryCounts: []client.SummaryEntry{{DisplayName: "alice", Points: 5, Correct: false}},
			CorrectLocation: "Basement",
		}},
	)

	if got := m.ctrl.Phase(); got != session.RoundEnded {
		t.Fatalf("phase = %v, want RoundEnded", got)
	}
	view := m.View()
	for _, want := range []string{"ROUND OVER", "Basement", "alice"} {
		if !strings.Contains(view, want) {
			t.Errorf("summary view missing %q after snapshot", want)
		}
	}
}
