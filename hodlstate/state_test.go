package hodlstate

import "testing"

func TestStateStringParseRoundTrip(t *testing.T) {
	states := []HodlState{Open, Settled, Canceled, Accepted}

	for _, s := range states {
		str := s.String()
		parsed, err := Parse(str)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", str, err)
		}
		if parsed != s {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", s, str, parsed)
		}
	}
}

func TestParseIsCaseInsensitive(t *testing.T) {
	s, err := Parse("AcCePtEd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != Accepted {
		t.Fatalf("expected Accepted, got %v", s)
	}
}

func TestParseUnknownToken(t *testing.T) {
	if _, err := Parse("somewhere-in-between"); err == nil {
		t.Fatal("expected an error for an unrecognized token")
	}
}

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		from, to HodlState
		want     bool
	}{
		{Open, Open, true},
		{Open, Accepted, true},
		{Open, Canceled, true},
		{Open, Settled, false},

		{Accepted, Open, true},
		{Accepted, Accepted, true},
		{Accepted, Canceled, true},
		{Accepted, Settled, true},

		{Settled, Settled, true},
		{Settled, Open, false},
		{Settled, Canceled, false},

		{Canceled, Canceled, true},
		{Canceled, Open, false},
		{Canceled, Accepted, false},
	}

	for _, tc := range tests {
		got := IsValidTransition(tc.from, tc.to)
		if got != tc.want {
			t.Errorf("IsValidTransition(%v, %v) = %v, want %v",
				tc.from, tc.to, got, tc.want)
		}
	}
}

func TestInt32StableWireRepresentation(t *testing.T) {
	if Open.Int32() != 0 || Settled.Int32() != 1 || Canceled.Int32() != 2 || Accepted.Int32() != 3 {
		t.Fatal("wire representation of HodlState values changed")
	}
}
