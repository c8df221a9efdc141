package session

// SummaryRow is one leaderboard entry of a finished round, in the order
// the server delivered it. The client never re-sorts.
type SummaryRow struct {
	DisplayName string
	Points      int
	Correct     bool
}

// Summary is a pure projection of the terminal round outcome: each Set
// fully replaces the previous rows and correct-location label.
type Summary struct {
	rows            []SummaryRow
	correctLocation string
}

func NewSummary() *Summary {
	return &Summary{}
}

func (s *Summary) Set(rows []SummaryRow, correctLocation string) {
	s.rows = make([]SummaryRow, len(rows))
	copy(s.rows, rows)
	s.correctLocation = correctLocation
}

func (s *Summary) Rows() []SummaryRow {
	out := make([]SummaryRow, len(s.rows))
	copy(out, s.rows)
	return out
}

func (s *Summary) CorrectLocation() string {
	return s.correctLocation
}
