package usecase

import (
	"errors"
	"testing"

	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
)

func TestRosterService_Assign(t *testing.T) {
	f := newServiceFixture()

	entry, err := f.rosterSvc.Assign(t.Context(), AssignPlayerInput{
		MatchID:  memory.MatchIDDerby,
		PlayerID: "player-wren-kato",
		TeamID:   memory.TeamIDMariners,
	})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if entry.MatchID != memory.MatchIDDerby || entry.TeamID != memory.TeamIDMariners {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	listed, err := f.rosterSvc.ListByMatch(t.Context(), memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(listed))
	}
}

func TestRosterService_Assign_TeamMustPlayTheMatch(t *testing.T) {
	f := newServiceFixture()

	_, err := f.rosterSvc.Assign(t.Context(), AssignPlayerInput{
		MatchID:  memory.MatchIDDerby,
		PlayerID: "player-wren-kato",
		TeamID:   memory.TeamIDThunder,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a team not in the match, got %v", err)
	}
}

func TestRosterService_Assign_RejectsDuplicatePlayer(t *testing.T) {
	f := newServiceFixture()

	// player-aya-rosen is already on the opening night roster.
	_, err := f.rosterSvc.Assign(t.Context(), AssignPlayerInput{
		MatchID:  memory.MatchIDOpening,
		PlayerID: "player-aya-rosen",
		TeamID:   memory.TeamIDComets,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate player, got %v", err)
	}
}

func TestRosterService_Remove(t *testing.T) {
	f := newServiceFixture()

	if err := f.rosterSvc.Remove(t.Context(), "roster-thunder-02"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	listed, err := f.rosterSvc.ListByMatch(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries after removal, got %d", len(listed))
	}

	if err := f.rosterSvc.Remove(t.Context(), "roster-thunder-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound removing twice, got %v", err)
	}
}
