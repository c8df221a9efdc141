package session

// Phase is the room's current game-lifecycle stage. It is owned by the
// Controller and changes only in response to server events.
type Phase int

const (
	Lobby Phase = iota
	RoundActive
	RoundEnded
)

var phaseNames = map[Phase]string{
	Lobby:       "lobby",
	RoundActive: "round_active",
	RoundEnded:  "round_ended",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "unknown"
}
