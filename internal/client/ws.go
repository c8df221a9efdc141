package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// Client manages the WebSocket connection to the game server. It
// reconnects with backoff until Close is called; after a deliberate Close
// (game over) no reconnection is attempted.
type Client struct {
	url   string
	log   zerolog.Logger
	clock clockwork.Clock

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (pings and emits)
	conn    *websocket.Conn
	closed  bool
	pingCtx context.CancelFunc // cancels the active ping goroutine
}

// New creates a client that connects to the given WebSocket URL.
func New(url string, log zerolog.Logger) *Client {
	return &Client{
		url:   url,
		log:   log,
		clock: clockwork.NewRealClock(),
	}
}

// --- Bubble Tea messages ---

// ConnectedMsg is sent when the WebSocket connects.
type ConnectedMsg struct{}

// DisconnectedMsg is sent when the connection drops.
type DisconnectedMsg struct{ Err error }

// GameStartedMsg is the server's start-of-game broadcast.
type GameStartedMsg struct{}

// RoundBeganMsg is the server's start-of-round broadcast.
type RoundBeganMsg struct{}

// RoundEndedMsg carries the terminal round outcome.
type RoundEndedMsg struct{ Payload RoundEndedPayload }

// GameEndedMsg is terminal; the client closes the connection on receipt.
type GameEndedMsg struct{}

// QueryResultMsg is the answer to a submitted query.
type QueryResultMsg struct{ Payload QueryResultPayload }

// GuessResultMsg is the verdict on a submitted guess.
type GuessResultMsg struct{ Payload GuessResultPayload }

// HintMsg delivers one revealed hint.
type HintMsg struct{ Payload HintPayload }

// ParticipantJoinedMsg announces a new roster slot.
type ParticipantJoinedMsg struct{ Payload RoomUser }

// ParticipantReconnectedMsg marks a slot connected.
type ParticipantReconnectedMsg struct{ Position int }

// ParticipantDisconnectedMsg marks a slot disconnected.
type ParticipantDisconnectedMsg struct{ Position int }

// SnapshotMsg delivers the full-state catch-up payload.
type SnapshotMsg struct{ Payload SnapshotPayload }

// Listen returns a Bubble Tea command that connects and reports
// ConnectedMsg. It retries with exponential backoff until the context is
// cancelled or the client is closed.
func (c *Client) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if c.isClosed() {
				return nil
			}

			conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
			if err != nil {
				c.log.Warn().Err(err).Dur("retry_in", delay).Msg("dial failed")
				c.clock.Sleep(delay)
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			// Cancel any previous ping goroutine before swapping conns.
			c.mu.Lock()
			if c.pingCtx != nil {
				c.pingCtx()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			c.conn = conn
			c.pingCtx = pingCancel
			c.mu.Unlock()

			go c.pingLoop(pingCtx, conn)

			return ConnectedMsg{}
		}
	}
}

// ReadLoop returns a Bubble Tea command that reads events from the
// connection, returning the first one that maps to a message. Start it
// after ConnectedMsg and re-issue it after every delivered message.
func (c *Client) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return DisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
				}
				closed := c.closed
				c.mu.Unlock()
				conn.Close()
				if closed {
					return nil
				}
				return DisconnectedMsg{Err: err}
			}

			var evt Event
			if err := json.Unmarshal(data, &evt); err != nil {
				c.log.Warn().Err(err).Msg("malformed event skipped")
				continue
			}

			msg := c.dispatch(evt)
			if msg != nil {
				return msg
			}
		}
	}
}

// pingLoop sends periodic pings on the given connection. It exits when
// the context is cancelled or the connection changes.
func (c *Client) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := c.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			c.mu.Lock()
			cc := c.conn
			c.mu.Unlock()
			if cc != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Close shuts the connection down for good. Used when the game ends; the
// reconnect loop observes the flag and stops.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	conn := c.conn
	c.conn = nil
	if c.pingCtx != nil {
		c.pingCtx()
		c.pingCtx = nil
	}
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) dispatch(evt Event) tea.Msg {
	switch evt.Type {
	case EvtStartGame:
		return GameStartedMsg{}
	case EvtRoundBegan:
		return RoundBeganMsg{}
	case EvtRoundEnded:
		var p RoundEndedPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return RoundEndedMsg{Payload: p}
	case EvtGameEnded:
		return GameEndedMsg{}
	case EvtQueryResult:
		var p QueryResultPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return QueryResultMsg{Payload: p}
	case EvtGuessResult:
		var p GuessResultPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return GuessResultMsg{Payload: p}
	case EvtHintRevealed:
		var p HintPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return HintMsg{Payload: p}
	case EvtParticipantJoined:
		var p RoomUser
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return ParticipantJoinedMsg{Payload: p}
	case EvtParticipantReconnected:
		var p PositionPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return ParticipantReconnectedMsg{Position: p.Position}
	case EvtParticipantDisconnected:
		var p PositionPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return ParticipantDisconnectedMsg{Position: p.Position}
	case EvtRoomSnapshot:
		var p SnapshotPayload
		if err := Decode(evt.Payload, &p); err != nil {
			c.log.Warn().Err(err).Str("event", string(evt.Type)).Msg("bad payload")
			return nil
		}
		return SnapshotMsg{Payload: p}
	}
	c.log.Debug().Str("event", string(evt.Type)).Msg("unknown event ignored")
	return nil
}

// --- session.Emitter ---

// RegisterSelf announces this client to the server after (re)connecting.
func (c *Client) RegisterSelf() error {
	return c.emit(EvtRegisterSelf, nil)
}

// SubmitQuery sends a query for execution against the hidden dataset.
func (c *Client) SubmitQuery(text string) error {
	return c.emit(EvtSubmitQuery, TextPayload{Text: text})
}

// SubmitGuess sends a final location guess.
func (c *Client) SubmitGuess(text string) error {
	return c.emit(EvtSubmitGuess, TextPayload{Text: text})
}

// StartGame asks the server to start the game.
func (c *Client) StartGame() error {
	return c.emit(EvtStartGame, nil)
}

// AdvanceRound asks the server for the next round.
func (c *Client) AdvanceRound() error {
	return c.emit(EvtAdvanceRound, nil)
}

// EndGame asks the server to close the room.
func (c *Client) EndGame() error {
	return c.emit(EvtEndGame, nil)
}

func (c *Client) emit(evt EventType, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("not connected")
	}

	e := Event{Type: evt}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", evt, err)
		}
		e.Payload = raw
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(e)
}
