package session

import (
	"github.com/rs/zerolog"
)

// Emitter sends user actions to the server. The websocket client
// implements it; tests substitute a recorder.
type Emitter interface {
	RegisterSelf() error
	SubmitQuery(text string) error
	SubmitGuess(text string) error
	StartGame() error
	AdvanceRound() error
	EndGame() error
}

// SnapshotUser is one roster entry carried by a catch-up snapshot.
type SnapshotUser struct {
	DisplayName string
	Connected   bool
}

// RoundEndData is the terminal outcome of a round.
type RoundEndData struct {
	Rows            []SummaryRow
	CorrectLocation string
}

// Snapshot is the full-state catch-up payload a (re)joining client
// receives. Ended is non-nil when the server included round-end data,
// which forces the round-ended effect regardless of local phase.
// RoomStatus/CurrentTime mirror the server's room status codes
// (0 lobby, 1 active, 2 ended) and the authoritative remaining time.
type Snapshot struct {
	Users       []SnapshotUser
	Hints       []Hint
	QueryCount  int
	RoomStatus  int
	CurrentTime int
	Ended       *RoundEndData
}

// Controller is the orchestrating state machine. It owns the current
// Phase, wires server-pushed events into the Roster, Clock, HintLog,
// action channels and Summary, and relays user actions out through the
// Emitter. Everything runs on the single Bubble Tea event loop; no
// synchronization is needed.
type Controller struct {
	log zerolog.Logger

	phase    Phase
	roster   *Roster
	clock    *Clock
	queries  *Channel
	guess    *Channel
	hints    *HintLog
	summary  *Summary
	emitter  Emitter
	gameOver bool
}

func NewController(emitter Emitter, defaultRoundSeconds int, log zerolog.Logger) *Controller {
	return &Controller{
		log:     log,
		phase:   Lobby,
		roster:  NewRoster(),
		clock:   NewClock(defaultRoundSeconds),
		queries: NewChannel(KindQuery),
		guess:   NewChannel(KindGuess),
		hints:   NewHintLog(),
		summary: NewSummary(),
		emitter: emitter,
	}
}

func (c *Controller) Phase() Phase { return c.phase }

func (c *Controller) Roster() *Roster { return c.roster }

func (c *Controller) Clock() *Clock { return c.clock }

func (c *Controller) Queries() *Channel { return c.queries }

func (c *Controller) Guess() *Channel { return c.guess }

func (c *Controller) Hints() *HintLog { return c.hints }

func (c *Controller) Summary() *Summary { return c.summary }

func (c *Controller) GameOver() bool { return c.gameOver }

// expectedFrom lists the phases each phase-changing server event is
// expected to arrive in. The server stays authoritative: a transition
// outside the table is logged, not rejected.
var expectedFrom = map[string][]Phase{
	"start_game":  {Lobby},
	"round_began": {RoundEnded},
	"round_ended": {RoundActive},
}

func (c *Controller) setPhase(event string, to Phase) {
	from := c.phase
	if allowed, ok := expectedFrom[event]; ok {
		expected := false
		for _, p := range allowed {
			if p == from {
				expected = true
				break
			}
		}
		if !expected {
			c.log.Warn().
				Str("event", event).
				Stringer("from", from).
				Stringer("to", to).
				Msg("unexpected phase transition")
		}
	}
	c.phase = to
	c.log.Debug().Str("event", event).Stringer("phase", to).Msg("phase")
}

// Connected handles transport establishment (first connect and every
// reconnect): the client registers itself so the server will answer with
// a room snapshot.
func (c *Controller) Connected() {
	c.log.Info().Msg("transport connected")
	if err := c.emitter.RegisterSelf(); err != nil {
		c.log.Error().Err(err).Msg("register self")
	}
}

// GameStarted applies the server's start-of-game event.
func (c *Controller) GameStarted() {
	c.beginRound("start_game")
}

// RoundBegan applies the server's start-of-round event.
func (c *Controller) RoundBegan() {
	c.beginRound("round_began")
}

func (c *Controller) beginRound(event string) {
	c.clock.ResetToDefault()
	c.clock.Start()
	c.queries.Reset()
	c.guess.Reset()
	c.hints.Clear()
	c.setPhase(event, RoundActive)
}

// RoundOver applies the server's end-of-round event: the countdown halts,
// the leaderboard replaces the round UI and all per-round state resets.
func (c *Controller) RoundOver(data RoundEndData) {
	c.clock.Stop()
	c.summary.Set(data.Rows, data.CorrectLocation)
	c.hints.Clear()
	c.queries.Reset()
	c.guess.Reset()
	c.setPhase("round_ended", RoundEnded)
}

// GameEnded is terminal: the clock stops and the caller is expected to
// close the transport. No reconnection follows.
func (c *Controller) GameEnded() {
	c.clock.Stop()
	c.gameOver = true
	c.log.Info().Msg("game ended")
}

// ParticipantJoined appends a new roster slot.
func (c *Controller) ParticipantJoined(displayName string, connected bool) {
	pos := c.roster.Add(displayName, connected)
	c.log.Debug().Str("name", displayName).Int("position", pos).Msg("participant joined")
}

// ParticipantReconnected marks the slot at pos connected.
func (c *Controller) ParticipantReconnected(pos int) {
	if !c.roster.SetConnected(pos, true) {
		c.log.Warn().Int("position", pos).Msg("reconnect for unknown position")
	}
}

// ParticipantDisconnected marks the slot at pos disconnected. The slot
// itself stays; positions are never compacted by a disconnect.
func (c *Controller) ParticipantDisconnected(pos int) {
	if !c.roster.SetConnected(pos, false) {
		c.log.Warn().Int("position", pos).Msg("disconnect for unknown position")
	}
}

// HintRevealed appends to the hint log.
func (c *Controller) HintRevealed(name, value string) {
	c.hints.Append(name, value)
}

// ApplySnapshot rebuilds roster, hint log and query counter from scratch
// so a client joining mid-session converges on the same state as one that
// saw every incremental event. Safe to apply over any prior local state.
//
// When the snapshot carries round-end data its presence is authoritative:
// the round-ended effect is applied as a forced override of the local
// phase. The hint log is not cleared in that branch; the snapshot's own
// hint list is the server's truth for what should be shown.
func (c *Controller) ApplySnapshot(snap Snapshot) {
	c.roster.Reset()
	for _, u := range snap.Users {
		c.roster.Add(u.DisplayName, u.Connected)
	}

	c.hints.Clear()
	for _, h := range snap.Hints {
		c.hints.Append(h.Name, h.Value)
	}

	switch {
	case snap.Ended != nil:
		c.clock.Stop()
		c.queries.Reset()
		c.guess.Reset()
		c.summary.Set(snap.Ended.Rows, snap.Ended.CorrectLocation)
		c.setPhase("room_snapshot", RoundEnded)
	case snap.RoomStatus == 1:
		c.clock.Seed(snap.CurrentTime)
		c.clock.Start()
		c.setPhase("room_snapshot", RoundActive)
	}

	c.queries.SetQueryCount(snap.QueryCount)

	c.log.Info().
		Int("users", len(snap.Users)).
		Int("hints", len(snap.Hints)).
		Int("query_count", snap.QueryCount).
		Bool("round_end", snap.Ended != nil).
		Msg("snapshot applied")
}

// SubmitQuery relays a query if the channel accepts it. Returns whether
// anything was emitted.
func (c *Controller) SubmitQuery(text string) bool {
	return c.submit(c.queries, text, c.emitter.SubmitQuery)
}

// SubmitGuess relays a guess if the channel accepts it.
func (c *Controller) SubmitGuess(text string) bool {
	return c.submit(c.guess, text, c.emitter.SubmitGuess)
}

func (c *Controller) submit(ch *Channel, text string, emit func(string) error) bool {
	payload, ok := ch.TrySubmit(text)
	if !ok {
		return false
	}
	if err := emit(payload); err != nil {
		c.log.Error().Err(err).Stringer("kind", ch.Kind()).Msg("emit failed")
		ch.Abort("Could not reach the server.")
		return false
	}
	return true
}

// QueryFailed renders a server-reported query error.
func (c *Controller) QueryFailed(message string) {
	c.queries.Fail(message)
}

// QuerySucceeded renders a tabular result.
func (c *Controller) QuerySucceeded(columns []string, rows [][]string) {
	c.queries.QueryOutcome(Result{Columns: columns, Rows: rows})
}

// GuessFailed renders a server-reported guess error.
func (c *Controller) GuessFailed(message string) {
	c.guess.Fail(message)
}

// GuessChecked renders the server's verdict on a guess.
func (c *Controller) GuessChecked(correct bool) {
	c.guess.GuessOutcome(correct)
}

// StartGame asks the server to start the game. Only meaningful in the
// lobby; elsewhere it is ignored.
func (c *Controller) StartGame() {
	if c.phase != Lobby {
		c.log.Debug().Stringer("phase", c.phase).Msg("start game ignored")
		return
	}
	if err := c.emitter.StartGame(); err != nil {
		c.log.Error().Err(err).Msg("start game")
	}
}

// AdvanceRound asks the server for the next round, between rounds only.
func (c *Controller) AdvanceRound() {
	if c.phase != RoundEnded {
		c.log.Debug().Stringer("phase", c.phase).Msg("advance round ignored")
		return
	}
	if err := c.emitter.AdvanceRound(); err != nil {
		c.log.Error().Err(err).Msg("advance round")
	}
}

// EndGame asks the server to close the room, between rounds only.
func (c *Controller) EndGame() {
	if c.phase != RoundEnded {
		c.log.Debug().Stringer("phase", c.phase).Msg("end game ignored")
		return
	}
	if err := c.emitter.EndGame(); err != nil {
		c.log.Error().Err(err).Msg("end game")
	}
}
