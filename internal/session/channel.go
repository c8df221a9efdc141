package session

import "strings"

// Kind distinguishes the two user action channels.
type Kind int

const (
	KindQuery Kind = iota
	KindGuess
)

func (k Kind) String() string {
	if k == KindGuess {
		return "guess"
	}
	return "query"
}

// State tracks a channel's request cycle. At most one request is
// outstanding per channel at any time; Locked is the guess channel's
// terminal sub-state after a correct guess and only a round-boundary
// Reset leaves it.
type State int

const (
	Idle State = iota
	InFlight
	Locked
)

func (s State) String() string {
	switch s {
	case InFlight:
		return "in_flight"
	case Locked:
		return "locked"
	default:
		return "idle"
	}
}

// Outcome is the rendered result line for a channel's last request.
type Outcome struct {
	Success bool
	Message string
}

// Result is one tabular query result. A new result fully replaces the
// prior one; row indices are positions within this response only.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Channel manages the single-in-flight request cycle for one action kind.
// The query channel additionally owns the last Result and the running
// query counter.
type Channel struct {
	kind    Kind
	state   State
	outcome *Outcome
	result  *Result
	queries int
}

func NewChannel(kind Kind) *Channel {
	return &Channel{kind: kind}
}

// TrySubmit validates a submission. Payloads that are empty after trimming
// are refused locally with no server round-trip, and a second submission
// while one is outstanding (or after the guess channel locked) is a no-op.
// On success the channel moves to InFlight and the trimmed payload is
// returned for emission.
func (c *Channel) TrySubmit(payload string) (string, bool) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" || c.state != Idle {
		return "", false
	}
	c.state = InFlight
	return trimmed, true
}

// Fail records a server-reported error for the outstanding request and
// re-opens the channel. Always recoverable.
func (c *Channel) Fail(message string) {
	c.outcome = &Outcome{Success: false, Message: message}
	if c.state != Locked {
		c.state = Idle
	}
}

// GuessOutcome records the server's verdict on a guess. A correct guess
// locks the channel for the remainder of the round.
func (c *Channel) GuessOutcome(correct bool) {
	if correct {
		c.outcome = &Outcome{Success: true, Message: "Guess is correct!"}
		c.state = Locked
		return
	}
	c.outcome = &Outcome{Success: false, Message: "Guess is wrong."}
	if c.state != Locked {
		c.state = Idle
	}
}

// QueryOutcome stores a successful tabular result, bumps the running query
// counter and re-opens the channel.
func (c *Channel) QueryOutcome(res Result) {
	c.outcome = nil
	c.result = &res
	c.queries++
	if c.state != Locked {
		c.state = Idle
	}
}

// Abort force-clears an in-flight request that will never get a server
// result (local emit failure). The message is rendered as an error.
func (c *Channel) Abort(message string) {
	c.outcome = &Outcome{Success: false, Message: message}
	if c.state == InFlight {
		c.state = Idle
	}
}

// Reset is the round-boundary contract: outcome and result cleared, state
// back to Idle (the only exit from Locked) and the query counter zeroed.
func (c *Channel) Reset() {
	c.state = Idle
	c.outcome = nil
	c.result = nil
	c.queries = 0
}

// SetQueryCount overrides the running counter from a snapshot.
func (c *Channel) SetQueryCount(n int) {
	c.queries = n
}

func (c *Channel) Kind() Kind { return c.kind }

func (c *Channel) State() State { return c.state }

func (c *Channel) Outcome() *Outcome { return c.outcome }

func (c *Channel) Result() *Result { return c.result }

func (c *Channel) QueryCount() int { return c.queries }
