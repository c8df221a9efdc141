package session

// Clock is the advisory round countdown. It holds pure state; the app
// schedules one tick per second and delivers it through Tick together with
// the generation the tick was scheduled under. Seed, Start and Stop all
// bump or invalidate the generation; a tick scheduled before any of them
// goes stale and is dropped, leaving at most one live decrement source
// per Clock.
//
// The clock is display only. It never ends the round; the server does.
type Clock struct {
	remaining      int
	defaultSeconds int
	running        bool
	gen            int
}

func NewClock(defaultSeconds int) *Clock {
	if defaultSeconds <= 0 {
		defaultSeconds = DefaultRoundSeconds
	}
	return &Clock{
		remaining:      defaultSeconds,
		defaultSeconds: defaultSeconds,
	}
}

// DefaultRoundSeconds matches the server's round length and is used until
// an authoritative remaining time arrives.
const DefaultRoundSeconds = 80

// Seed sets the remaining time from an authoritative value and stops any
// running ticker so the reseed cannot race an old decrement.
func (c *Clock) Seed(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	c.Stop()
	c.remaining = seconds
}

// Start begins the countdown and returns the generation the caller must
// attach to the ticks it schedules. Starting while already running does
// not stack a second ticker: the generation bump orphans any tick that was
// scheduled before this call.
func (c *Clock) Start() int {
	c.gen++
	c.running = true
	return c.gen
}

// Stop halts the countdown. Idempotent.
func (c *Clock) Stop() {
	c.gen++
	c.running = false
}

// ResetToDefault seeds the clock back to the default round length.
func (c *Clock) ResetToDefault() {
	c.Seed(c.defaultSeconds)
}

// Tick applies one scheduled one-second tick. Stale ticks (wrong
// generation) and ticks on a stopped clock are ignored. The remaining time
// never goes below zero. The return value tells the caller whether to
// schedule the next tick.
func (c *Clock) Tick(gen int) bool {
	if !c.running || gen != c.gen {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	return c.remaining > 0
}

func (c *Clock) Remaining() int {
	return c.remaining
}

func (c *Clock) Running() bool {
	return c.running
}

// Generation identifies the current ticker; ticks carrying an older
// generation are discarded by Tick.
func (c *Clock) Generation() int {
	return c.gen
}

// DefaultSeconds returns the configured round length.
func (c *Clock) DefaultSeconds() int {
	return c.defaultSeconds
}
