package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
)

func TestSetService_Create_AppendsNextNumber(t *testing.T) {
	f := newServiceFixture()

	created, err := f.setSvc.Create(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("create set: %v", err)
	}
	if created.Number != 3 {
		t.Fatalf("expected set number 3 after seeds 1 and 2, got %d", created.Number)
	}
	if created.Status != matchset.StatusPending || created.Winner != matchset.WinnerPending {
		t.Fatalf("expected pending status and winner, got %q/%q", created.Status, created.Winner)
	}
}

func TestSetService_Create_FillsNumberGap(t *testing.T) {
	f := newServiceFixture()

	if err := f.setRepo.Create(t.Context(), matchset.Set{
		ID:      "set-derby-1",
		MatchID: memory.MatchIDDerby,
		Number:  1,
		Status:  matchset.StatusFinished,
		Winner:  matchset.WinnerHome,
	}); err != nil {
		t.Fatalf("seed set 1: %v", err)
	}
	if err := f.setRepo.Create(t.Context(), matchset.Set{
		ID:      "set-derby-3",
		MatchID: memory.MatchIDDerby,
		Number:  3,
		Status:  matchset.StatusPending,
		Winner:  matchset.WinnerPending,
	}); err != nil {
		t.Fatalf("seed set 3: %v", err)
	}

	created, err := f.setSvc.Create(t.Context(), memory.MatchIDDerby)
	if err != nil {
		t.Fatalf("create set: %v", err)
	}
	if created.Number != 2 {
		t.Fatalf("expected gap number 2, got %d", created.Number)
	}
}

func TestSetService_Create_UnknownMatch(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setSvc.Create(t.Context(), "missing-match"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetService_Update_RejectsUnknownStatusAndWinner(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setSvc.Update(t.Context(), "set-opening-2", UpdateSetInput{Status: "paused"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for status, got %v", err)
	}
	if _, err := f.setSvc.Update(t.Context(), "set-opening-2", UpdateSetInput{Winner: "referee"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for winner, got %v", err)
	}

	updated, err := f.setSvc.Update(t.Context(), "set-opening-2", UpdateSetInput{Status: "finished", Winner: "AWAY"})
	if err != nil {
		t.Fatalf("update set: %v", err)
	}
	if updated.Status != matchset.StatusFinished || updated.Winner != matchset.WinnerAway {
		t.Fatalf("unexpected normalized fields: %q/%q", updated.Status, updated.Winner)
	}
}

func TestSetService_Delete_OnlyLastSet(t *testing.T) {
	f := newServiceFixture()

	err := f.setSvc.Delete(t.Context(), "set-opening-1")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput deleting a non-last set, got %v", err)
	}

	if err := f.setSvc.Delete(t.Context(), "set-opening-2"); err != nil {
		t.Fatalf("delete last set: %v", err)
	}

	remaining, err := f.setSvc.ListByMatch(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("list sets: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "set-opening-1" {
		t.Fatalf("unexpected remaining sets: %+v", remaining)
	}
}

func TestSetService_CopyRosterFromPrevious(t *testing.T) {
	f := newServiceFixture()
	now := time.Date(2026, 3, 7, 19, 30, 0, 0, time.UTC)

	seedLines := []stats.SetLine{
		{ID: "line-1", SetID: "set-opening-1", MatchID: memory.MatchIDOpening, RosterEntryID: "roster-thunder-01", TeamID: memory.TeamIDThunder, Line: stats.Line{Throws: 8, Hits: 3}, CreatedAt: now, UpdatedAt: now},
		{ID: "line-2", SetID: "set-opening-1", MatchID: memory.MatchIDOpening, RosterEntryID: "roster-comets-01", TeamID: memory.TeamIDComets, Line: stats.Line{Throws: 5, Hits: 5}, CreatedAt: now, UpdatedAt: now},
	}
	for _, l := range seedLines {
		if err := f.setLineRepo.Create(t.Context(), l); err != nil {
			t.Fatalf("seed set line: %v", err)
		}
	}

	copied, err := f.setSvc.CopyRosterFromPrevious(t.Context(), "set-opening-2")
	if err != nil {
		t.Fatalf("copy roster: %v", err)
	}
	if len(copied) != 2 {
		t.Fatalf("expected 2 copied rows, got %d", len(copied))
	}
	for _, l := range copied {
		if !l.Line.IsZero() {
			t.Fatalf("copied row must start zeroed, got %+v", l.Line)
		}
		if l.SetID != "set-opening-2" {
			t.Fatalf("copied row bound to wrong set: %q", l.SetID)
		}
	}

	// A second copy is a no-op for entries already present.
	again, err := f.setSvc.CopyRosterFromPrevious(t.Context(), "set-opening-2")
	if err != nil {
		t.Fatalf("copy roster again: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no new rows on repeat copy, got %d", len(again))
	}
}

func TestSetService_CopyRosterFromPrevious_FirstSet(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setSvc.CopyRosterFromPrevious(t.Context(), "set-opening-1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for the first set, got %v", err)
	}
}
