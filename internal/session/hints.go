package session

// Hint is one revealed attribute of the hidden location.
type Hint struct {
	Name  string
	Value string
}

// HintLog is the append-only record of hints revealed this round.
// Insertion order is reveal order; entries are never deduplicated,
// reordered or removed mid-round.
type HintLog struct {
	hints []Hint
}

func NewHintLog() *HintLog {
	return &HintLog{}
}

func (l *HintLog) Append(name, value string) {
	l.hints = append(l.hints, Hint{Name: name, Value: value})
}

// Clear empties the log. Invoked only at round boundaries and when
// rebuilding from a snapshot.
func (l *HintLog) Clear() {
	l.hints = nil
}

func (l *HintLog) Len() int {
	return len(l.hints)
}

// Hints returns a copy of the log in reveal order.
func (l *HintLog) Hints() []Hint {
	out := make([]Hint, len(l.hints))
	copy(out, l.hints)
	return out
}
