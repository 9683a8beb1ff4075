package editrequest

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{name: "pending to approved", from: StatePending, to: StateApproved, want: true},
		{name: "pending to rejected", from: StatePending, to: StateRejected, want: true},
		{name: "pending to cancelled", from: StatePending, to: StateCancelled, want: true},
		{name: "pending to pending", from: StatePending, to: StatePending, want: false},
		{name: "approved is terminal", from: StateApproved, to: StateRejected, want: false},
		{name: "rejected is terminal", from: StateRejected, to: StateApproved, want: false},
		{name: "cancelled is terminal", from: StateCancelled, to: StateApproved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("CanTransition(%q, %q) = %t, want %t", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(StatePending) {
		t.Fatalf("pending must not be terminal")
	}
	for _, state := range []string{StateApproved, StateRejected, StateCancelled} {
		if !IsTerminal(state) {
			t.Fatalf("expected %q to be terminal", state)
		}
	}
}

func TestIsValidKind(t *testing.T) {
	if !IsValidKind("  Match-Reschedule ") {
		t.Fatalf("expected kind matching to trim and lowercase")
	}
	if IsValidKind("made-up-kind") {
		t.Fatalf("unexpected kind accepted")
	}
}

func TestIsValidState(t *testing.T) {
	if !IsValidState("PENDING") {
		t.Fatalf("expected state matching to be case insensitive")
	}
	if IsValidState("archived") {
		t.Fatalf("unexpected state accepted")
	}
}

func TestKindsCatalogCoversEditableSurface(t *testing.T) {
	kinds := Kinds()
	if len(kinds) == 0 {
		t.Fatalf("empty kind catalog")
	}
	seen := make(map[string]bool, len(kinds))
	for _, kind := range kinds {
		if seen[kind] {
			t.Fatalf("duplicate kind %q", kind)
		}
		seen[kind] = true
		if !IsValidKind(kind) {
			t.Fatalf("catalog kind %q not accepted by IsValidKind", kind)
		}
	}
}
