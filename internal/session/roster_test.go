package session

import "testing"

func TestAddAssignsPositionsInOrder(t *testing.T) {
	r := NewRoster()
	if pos := r.Add("Alice", true); pos != 0 {
		t.Errorf("first position = %d, want 0", pos)
	}
	if pos := r.Add("Bob", false); pos != 1 {
		t.Errorf("second position = %d, want 1", pos)
	}

	p, ok := r.Get(1)
	if !ok || p.DisplayName != "Bob" || p.Connected {
		t.Errorf("Get(1) = %+v, %v", p, ok)
	}
}

func TestDisconnectKeepsSlot(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)
	r.Add("Bob", true)

	if !r.SetConnected(1, false) {
		t.Fatal("SetConnected(1) reported out of range")
	}
	if r.Len() != 2 {
		t.Errorf("len = %d, want 2 (disconnect must not remove the slot)", r.Len())
	}

	// Positions of existing entries never move.
	p, _ := r.Get(0)
	if p.DisplayName != "Alice" || !p.Connected {
		t.Errorf("position 0 disturbed: %+v", p)
	}
}

func TestDisconnectThenReconnect(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)
	r.Add("Bob", true)

	r.SetConnected(1, false)
	r.SetConnected(1, true)

	p, _ := r.Get(1)
	if !p.Connected {
		t.Error("participant 1 not restored to connected")
	}
}

func TestSetConnectedOutOfRange(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)

	for _, pos := range []int{-1, 1, 99} {
		if r.SetConnected(pos, false) {
			t.Errorf("SetConnected(%d) reported in range", pos)
		}
	}
	if p, _ := r.Get(0); !p.Connected {
		t.Error("out-of-range writes disturbed a real slot")
	}
}

func TestResetEmptiesRoster(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)
	r.Reset()
	if r.Len() != 0 {
		t.Errorf("len after reset = %d, want 0", r.Len())
	}
}

func TestRemoveIsBoundsChecked(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)
	r.Remove(5)
	r.Remove(-1)
	if r.Len() != 1 {
		t.Errorf("len = %d, want 1", r.Len())
	}
	r.Remove(0)
	if r.Len() != 0 {
		t.Errorf("len = %d, want 0", r.Len())
	}
}

func TestParticipantsReturnsCopy(t *testing.T) {
	r := NewRoster()
	r.Add("Alice", true)

	got := r.Participants()
	got[0].Connected = false

	p, _ := r.Get(0)
	if !p.Connected {
		t.Error("mutation of the returned slice leaked into the roster")
	}
}
