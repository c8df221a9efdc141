// Package client provides the WebSocket client for the DataDive game
// server. Types mirror the server wire protocol without importing server
// packages.
package client

import (
	"encoding/json"
	"fmt"
)

// EventType identifies the kind of event on the wire. start_game flows in
// both directions: the host's request up, the broadcast down.
type EventType string

const (
	// Client → server.
	EvtRegisterSelf EventType = "register_self"
	EvtSubmitQuery  EventType = "submit_query"
	EvtSubmitGuess  EventType = "submit_guess"
	EvtAdvanceRound EventType = "advance_round"
	EvtEndGame      EventType = "end_game"

	// Server → client.
	EvtStartGame               EventType = "start_game"
	EvtRoundBegan              EventType = "round_began"
	EvtRoundEnded              EventType = "round_ended"
	EvtGameEnded               EventType = "game_ended"
	EvtQueryResult             EventType = "query_result"
	EvtGuessResult             EventType = "guess_result"
	EvtHintRevealed            EventType = "hint_revealed"
	EvtParticipantJoined       EventType = "participant_joined"
	EvtParticipantReconnected  EventType = "participant_reconnected"
	EvtParticipantDisconnected EventType = "participant_disconnected"
	EvtRoomSnapshot            EventType = "room_snapshot"
)

// Event is the envelope for all wire events.
type Event struct {
	Type    EventType       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// TextPayload carries a submitted query or guess.
type TextPayload struct {
	Text string `json:"text"`
}

// QueryResultPayload is the server's answer to a submitted query. Error
// and the tabular fields are mutually exclusive.
type QueryResultPayload struct {
	Error   string   `json:"error,omitempty"`
	Columns []string `json:"columns"`
	Result  [][]any  `json:"result"`
}

// Rows renders the opaque result scalars as display strings.
func (p QueryResultPayload) Rows() [][]string {
	rows := make([][]string, len(p.Result))
	for i, row := range p.Result {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = formatScalar(v)
		}
		rows[i] = cells
	}
	return rows
}

// formatScalar renders a decoded JSON value. Whole floats print without a
// fractional part since the server's integers arrive as JSON numbers.
func formatScalar(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// GuessResultPayload is the server's verdict on a guess.
type GuessResultPayload struct {
	Error  string `json:"error,omitempty"`
	Result bool   `json:"result"`
}

// HintPayload is one revealed hint.
type HintPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SummaryEntry is one end-of-round leaderboard row. The server sends it
// as a heterogeneous array: [display_name, points, guessed_correctly].
type SummaryEntry struct {
	DisplayName string
	Points      int
	Correct     bool
}

func (e *SummaryEntry) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 3 {
		return fmt.Errorf("summary entry has %d fields, want 3", len(parts))
	}
	if err := json.Unmarshal(parts[0], &e.DisplayName); err != nil {
		return err
	}
	var points float64
	if err := json.Unmarshal(parts[1], &points); err != nil {
		return err
	}
	e.Points = int(points)
	return json.Unmarshal(parts[2], &e.Correct)
}

// HintPair is a snapshot hint, sent as a [name, value] array.
type HintPair struct {
	Name  string
	Value string
}

func (h *HintPair) UnmarshalJSON(data []byte) error {
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("hint pair has %d fields, want 2", len(parts))
	}
	h.Name, h.Value = parts[0], parts[1]
	return nil
}

// Participant connection status codes on the wire.
const (
	StatusDisconnected = 0
	StatusConnected    = 1
)

// RoomUser is a roster entry as carried by participant_joined and
// room_snapshot. Status is a pointer because the server omits it for a
// first-time join, which means connected.
type RoomUser struct {
	DisplayName string `json:"display_name"`
	Status      *int   `json:"status,omitempty"`
}

// IsConnected interprets the wire status, defaulting to connected when
// the field is absent.
func (u RoomUser) IsConnected() bool {
	return u.Status == nil || *u.Status != StatusDisconnected
}

// PositionPayload addresses a roster slot by its stable index.
type PositionPayload struct {
	Position int `json:"position"`
}

// RoundEndedPayload is the terminal outcome of a round. May arrive
// double-encoded; see Decode.
type RoundEndedPayload struct {
	UserQueryCounts []SummaryEntry `json:"user_query_counts"`
	CorrectLocation string         `json:"correct_location"`
}

// Room status codes carried by snapshots.
const (
	RoomLobby  = 0
	RoomActive = 1
	RoomEnded  = 2
)

// SnapshotPayload is the full-state catch-up event for a (re)joining
// client. The round-end fields are present only when the room is between
// rounds. May arrive double-encoded; see Decode.
type SnapshotPayload struct {
	Users       []RoomUser `json:"users"`
	Hints       []HintPair `json:"hints"`
	QueryCount  int        `json:"query_count"`
	RoomStatus  int        `json:"room_status"`
	CurrentTime int        `json:"current_time"`

	UserQueryCounts []SummaryEntry `json:"user_query_counts,omitempty"`
	CorrectLocation string         `json:"correct_location,omitempty"`
}

// HasRoundEnd reports whether the snapshot carries end-of-round data. The
// presence of that data in the payload is authoritative for the
// round-ended phase, regardless of the room status field.
func (p SnapshotPayload) HasRoundEnd() bool {
	return p.CorrectLocation != "" || len(p.UserQueryCounts) > 0
}

// Decode unmarshals a payload, transparently unwrapping one layer of
// string encoding. The server serializes the round_ended and
// room_snapshot payloads to a JSON string before sending, so those events
// need a second decode step.
func Decode(raw json.RawMessage, out any) error {
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = json.RawMessage(s)
	}
	return json.Unmarshal(raw, out)
}
