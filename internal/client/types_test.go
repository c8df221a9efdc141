package client

import (
	"encoding/json"
	"testing"
)

func TestDecodePlainPayload(t *testing.T) {
	raw := json.RawMessage(`{"name":"depth","value":"12m"}`)
	var p HintPayload
	if err := Decode(raw, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Name != "depth" || p.Value != "12m" {
		t.Errorf("payload = %+v", p)
	}
}

func TestDecodeStringWrappedPayload(t *testing.T) {
	// The server json-encodes the snapshot to a string before sending.
	inner := `{"users":[{"display_name":"A","status":1}],"hints":[["depth","12m"]],"query_count":3}`
	wrapped, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}

	var p SnapshotPayload
	if err := Decode(wrapped, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(p.Users) != 1 || p.Users[0].DisplayName != "A" {
		t.Errorf("users = %+v", p.Users)
	}
	if len(p.Hints) != 1 || p.Hints[0] != (HintPair{Name: "depth", Value: "12m"}) {
		t.Errorf("hints = %+v", p.Hints)
	}
	if p.QueryCount != 3 {
		t.Errorf("query_count = %d, want 3", p.QueryCount)
	}
}

func TestSummaryEntryFromArray(t *testing.T) {
	raw := json.RawMessage(`{"user_query_counts":[["Alice",50,true],["Bob",10,false]],"correct_location":"Kitchen"}`)
	var p RoundEndedPayload
	if err := Decode(raw, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(p.UserQueryCounts) != 2 {
		t.Fatalf("rows = %d, want 2", len(p.UserQueryCounts))
	}

	want := []SummaryEntry{
		{DisplayName: "Alice", Points: 50, Correct: true},
		{DisplayName: "Bob", Points: 10, Correct: false},
	}
	for i, w := range want {
		if p.UserQueryCounts[i] != w {
			t.Errorf("row %d = %+v, want %+v", i, p.UserQueryCounts[i], w)
		}
	}
	if p.CorrectLocation != "Kitchen" {
		t.Errorf("correct_location = %q", p.CorrectLocation)
	}
}

func TestSummaryEntryBadShape(t *testing.T) {
	var e SummaryEntry
	if err := json.Unmarshal([]byte(`["Alice",50]`), &e); err == nil {
		t.Error("two-field entry should not decode")
	}
	if err := json.Unmarshal([]byte(`"Alice"`), &e); err == nil {
		t.Error("scalar entry should not decode")
	}
}

func TestHintPairBadShape(t *testing.T) {
	var h HintPair
	if err := json.Unmarshal([]byte(`["depth"]`), &h); err == nil {
		t.Error("one-field pair should not decode")
	}
}

func TestQueryResultRows(t *testing.T) {
	raw := json.RawMessage(`{"columns":["foo_id","name"],"result":[[1,"bar"],[2.5,null]]}`)
	var p QueryResultPayload
	if err := Decode(raw, &p); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	rows := p.Rows()
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][0] != "1" || rows[0][1] != "bar" {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1][0] != "2.5" || rows[1][1] != "" {
		t.Errorf("row 1 = %v", rows[1])
	}
}

func TestRoomUserConnectedDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"status omitted means connected", `{"display_name":"A"}`, true},
		{"status 1 connected", `{"display_name":"A","status":1}`, true},
		{"status 0 disconnected", `{"display_name":"A","status":0}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u RoomUser
			if err := json.Unmarshal([]byte(tt.raw), &u); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := u.IsConnected(); got != tt.want {
				t.Errorf("IsConnected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshotHasRoundEnd(t *testing.T) {
	var p SnapshotPayload
	if p.HasRoundEnd() {
		t.Error("empty snapshot should not report round-end data")
	}

	p.CorrectLocation = "Reef"
	if !p.HasRoundEnd() {
		t.Error("correct_location alone should report round-end data")
	}

	p = SnapshotPayload{UserQueryCounts: []SummaryEntry{{DisplayName: "A"}}}
	if !p.HasRoundEnd() {
		t.Error("user_query_counts alone should report round-end data")
	}
}
