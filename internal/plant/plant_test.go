package plant

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	p := Plant{Logs: []Log{{Note: "sprouted"}, {Note: "repotted", Comments: []Comment{{Text: "nice"}}}}}
	p.Normalize()

	if p.Logs == nil {
		t.Fatal("logs must not be nil")
	}
	if p.Logs[0].Comments == nil {
		t.Error("comments must not be nil")
	}
	if len(p.Logs[1].Comments) != 1 {
		t.Errorf("existing comments must be preserved, got %d", len(p.Logs[1].Comments))
	}

	var empty Plant
	empty.Normalize()
	if empty.Logs == nil {
		t.Error("logs must be initialized on an empty plant")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-05"` {
		t.Errorf("marshal: got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.String() != "2024-03-05" {
		t.Errorf("round trip: got %s", back)
	}

	if err := json.Unmarshal([]byte(`"garbage"`), &back); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2024, time.January, 1).AddDays(7)
	if d.String() != "2024-01-08" {
		t.Errorf("add days: got %s", d)
	}
	if !NewDate(2024, time.January, 9).After(d) {
		t.Error("jan 9 should be after jan 8")
	}
	if NewDate(2024, time.January, 8).After(d) {
		t.Error("a date is not after itself")
	}
}

func TestCallerFor(t *testing.T) {
	tests := []struct {
		in        string
		anonymous bool
	}{
		{"alice", false},
		{"  alice  ", false},
		{"", true},
		{"   ", true},
		{"null", true},
		{"undefined", true},
	}
	for _, tt := range tests {
		c := CallerFor(tt.in)
		if c.IsAnonymous() != tt.anonymous {
			t.Errorf("CallerFor(%q): anonymous = %v, want %v", tt.in, c.IsAnonymous(), tt.anonymous)
		}
	}

	if Anonymous.Is("") {
		t.Error("anonymous caller must never match, even an empty owner")
	}
	if !CallerFor("alice").Is("alice") {
		t.Error("caller should match its own username")
	}
	if CallerFor("alice").Is("bob") {
		t.Error("caller must not match another user")
	}
}
