package stats

import "testing"

func TestLineEffectiveness(t *testing.T) {
	tests := []struct {
		name string
		line Line
		want float64
	}{
		{name: "typical ratio", line: Line{Throws: 8, Hits: 3}, want: 37.5},
		{name: "perfect", line: Line{Throws: 5, Hits: 5}, want: 100},
		{name: "no throws", line: Line{Hits: 4, Catches: 2}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.line.Effectiveness(); got != tt.want {
				t.Fatalf("effectiveness = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRoundEffectiveness(t *testing.T) {
	if got := RoundEffectiveness(Line{Throws: 3, Hits: 1}.Effectiveness()); got != 33.3 {
		t.Fatalf("rounded effectiveness = %v, want 33.3", got)
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	tests := []struct {
		name  string
		value int
		delta int
		want  int
	}{
		{name: "increment", value: 2, delta: 1, want: 3},
		{name: "decrement", value: 2, delta: -1, want: 1},
		{name: "decrement at zero clamps", value: 0, delta: -1, want: 0},
		{name: "large negative clamps", value: 3, delta: -10, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Adjust(tt.value, tt.delta); got != tt.want {
				t.Fatalf("Adjust(%d, %d) = %d, want %d", tt.value, tt.delta, got, tt.want)
			}
		})
	}
}

func TestLineValid(t *testing.T) {
	if !(Line{Throws: 1, Hits: 1}).Valid() {
		t.Fatalf("expected non-negative line to be valid")
	}
	if (Line{Outs: -1}).Valid() {
		t.Fatalf("expected negative counter to be invalid")
	}
}

func TestSumByEntry(t *testing.T) {
	lines := []SetLine{
		{MatchID: "m1", SetID: "s1", RosterEntryID: "r1", TeamID: "home", Line: Line{Throws: 4, Hits: 2}},
		{MatchID: "m1", SetID: "s2", RosterEntryID: "r1", TeamID: "home", Line: Line{Throws: 6, Hits: 1, Outs: 1}},
		{MatchID: "m1", SetID: "s1", RosterEntryID: "r2", TeamID: "away", Line: Line{Catches: 3}},
	}

	summed := SumByEntry(lines)
	if len(summed) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(summed))
	}
	r1 := summed["r1"]
	if r1.Line != (Line{Throws: 10, Hits: 3, Outs: 1}) {
		t.Fatalf("unexpected r1 sum: %+v", r1.Line)
	}
	if r1.TeamID != "home" {
		t.Fatalf("unexpected r1 team: %q", r1.TeamID)
	}
}

func TestSumByTeam(t *testing.T) {
	lines := []SetLine{
		{MatchID: "m1", SetID: "s1", RosterEntryID: "r1", TeamID: "home", Line: Line{Throws: 8, Hits: 3}},
		{MatchID: "m1", SetID: "s2", RosterEntryID: "r1", TeamID: "home", Line: Line{Throws: 2, Hits: 1}},
		{MatchID: "m1", SetID: "s1", RosterEntryID: "r2", TeamID: "away", Line: Line{Throws: 4, Hits: 4}},
		{MatchID: "m1", SetID: "s1", RosterEntryID: "orphan", TeamID: "", Line: Line{Throws: 99}},
	}

	aggs := SumByTeam(lines)
	if len(aggs) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(aggs))
	}

	// Sorted by team id: away first.
	if aggs[0].TeamID != "away" || aggs[1].TeamID != "home" {
		t.Fatalf("unexpected team order: %q, %q", aggs[0].TeamID, aggs[1].TeamID)
	}
	if aggs[0].Effectiveness != 100 {
		t.Fatalf("away effectiveness = %v, want 100", aggs[0].Effectiveness)
	}
	if aggs[1].Line != (Line{Throws: 10, Hits: 4}) {
		t.Fatalf("unexpected home sum: %+v", aggs[1].Line)
	}
	if aggs[1].Effectiveness != 40 {
		t.Fatalf("home effectiveness = %v, want 40", aggs[1].Effectiveness)
	}
}

func TestTeamTotal(t *testing.T) {
	lines := []SetLine{
		{TeamID: "home", Line: Line{Throws: 3}},
		{TeamID: "away", Line: Line{Throws: 7}},
		{TeamID: "home", Line: Line{Hits: 2}},
	}
	if got := TeamTotal(lines, "home"); got != (Line{Throws: 3, Hits: 2}) {
		t.Fatalf("unexpected home total: %+v", got)
	}
}
