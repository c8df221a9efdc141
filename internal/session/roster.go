package session

// Participant is one roster slot: a display name plus a connected flag.
// Slots are identified by their position in the roster, not by a durable
// identity, so the sequence is append-only and existing entries are never
// re-indexed while a room lives.
type Participant struct {
	DisplayName string
	Connected   bool
}

// Roster is the ordered collection of participants in the room. It is
// mutated only by Controller-dispatched events.
type Roster struct {
	participants []Participant
}

func NewRoster() *Roster {
	return &Roster{}
}

// Add appends a participant at the next position and returns that position.
// Callers never choose positions.
func (r *Roster) Add(displayName string, connected bool) int {
	r.participants = append(r.participants, Participant{
		DisplayName: displayName,
		Connected:   connected,
	})
	return len(r.participants) - 1
}

// SetConnected flips the connected flag of the entry at pos. Out-of-range
// positions are a no-op: the server is trusted not to reference unknown
// slots, but a malformed event must not crash the client. Returns whether
// the position was in range.
func (r *Roster) SetConnected(pos int, connected bool) bool {
	if pos < 0 || pos >= len(r.participants) {
		return false
	}
	r.participants[pos].Connected = connected
	return true
}

// Remove drops the slot at pos. No wire event triggers a removal today;
// the method exists for completeness and the freed index is never reused.
func (r *Roster) Remove(pos int) {
	if pos < 0 || pos >= len(r.participants) {
		return
	}
	r.participants = append(r.participants[:pos], r.participants[pos+1:]...)
}

// Reset empties the roster. Used only when rebuilding from a snapshot.
func (r *Roster) Reset() {
	r.participants = nil
}

func (r *Roster) Len() int {
	return len(r.participants)
}

// Get returns the participant at pos.
func (r *Roster) Get(pos int) (Participant, bool) {
	if pos < 0 || pos >= len(r.participants) {
		return Participant{}, false
	}
	return r.participants[pos], true
}

// Participants returns a copy of the current sequence, in position order.
func (r *Roster) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	copy(out, r.participants)
	return out
}
