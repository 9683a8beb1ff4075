package usecase

import (
	"errors"
	"testing"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
)

func TestSetStatsService_Upsert_CreatesThenUpdatesSameRow(t *testing.T) {
	f := newServiceFixture()

	first, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 6, Hits: 2, Outs: 1},
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.TeamID != memory.TeamIDThunder {
		t.Fatalf("team resolved from roster entry, got %q", first.TeamID)
	}
	if first.MatchID != memory.MatchIDOpening {
		t.Fatalf("match resolved from set, got %q", first.MatchID)
	}

	// Same (set, entry) pair without a row id must update, not duplicate.
	second, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 9, Hits: 4, Outs: 1, Catches: 2},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected the same row, got %q then %q", first.ID, second.ID)
	}

	lines, err := f.setStatsSvc.ListBySet(t.Context(), "set-opening-1")
	if err != nil {
		t.Fatalf("list set lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 row, got %d", len(lines))
	}
	if lines[0].Line.Throws != 9 || lines[0].Line.Catches != 2 {
		t.Fatalf("counters not updated: %+v", lines[0].Line)
	}
}

func TestSetStatsService_Upsert_ByID(t *testing.T) {
	f := newServiceFixture()

	created, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-comets-01",
		Line:          stats.Line{Throws: 3, Hits: 3},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		ID:            created.ID,
		SetID:         "set-opening-1",
		RosterEntryID: "roster-comets-01",
		Line:          stats.Line{Throws: 5, Hits: 4},
	})
	if err != nil {
		t.Fatalf("update by id: %v", err)
	}
	if updated.Line.Throws != 5 {
		t.Fatalf("counters not updated: %+v", updated.Line)
	}

	_, err = f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		ID:            "line-missing",
		SetID:         "set-opening-1",
		RosterEntryID: "roster-comets-01",
		Line:          stats.Line{Throws: 1},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown row id, got %v", err)
	}
}

func TestSetStatsService_Upsert_RejectsForeignRosterEntry(t *testing.T) {
	f := newServiceFixture()

	entry, err := f.rosterSvc.Assign(t.Context(), AssignPlayerInput{
		MatchID:  memory.MatchIDDerby,
		PlayerID: "player-nils-fray",
		TeamID:   memory.TeamIDRaptors,
	})
	if err != nil {
		t.Fatalf("add roster entry: %v", err)
	}

	_, err = f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: entry.ID,
		Line:          stats.Line{Throws: 2},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an entry of another match, got %v", err)
	}
}

func TestSetStatsService_Upsert_RejectsNegativeCounters(t *testing.T) {
	f := newServiceFixture()

	_, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: -1},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSetStatsService_ListBySet_UnknownSet(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setStatsSvc.ListBySet(t.Context(), "set-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
