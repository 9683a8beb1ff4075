package usecase

import (
	"errors"
	"testing"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
)

func TestMatchStatsService_ResolveCaptureSeed_RequiresRoster(t *testing.T) {
	f := newServiceFixture()

	_, err := f.matchStatsSvc.ResolveCaptureSeed(t.Context(), memory.MatchIDDerby)
	if !errors.Is(err, ErrRosterRequired) {
		t.Fatalf("expected ErrRosterRequired for a match with no roster, got %v", err)
	}
}

func TestMatchStatsService_ResolveCaptureSeed_Blank(t *testing.T) {
	f := newServiceFixture()

	seed, err := f.matchStatsSvc.ResolveCaptureSeed(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed.Source != stats.SourceDirectEntry {
		t.Fatalf("expected direct-entry source with no prior data, got %q", seed.Source)
	}
	if len(seed.Entries) != 4 {
		t.Fatalf("expected one slot per roster entry, got %d", len(seed.Entries))
	}
	for _, e := range seed.Entries {
		if !e.Line.IsZero() || e.LineID != "" {
			t.Fatalf("blank seed slot must carry no counters: %+v", e)
		}
	}
}

func TestMatchStatsService_ResolveCaptureSeed_FromSets(t *testing.T) {
	f := newServiceFixture()

	for _, in := range []UpsertSetLineInput{
		{SetID: "set-opening-1", RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 6, Hits: 2}},
		{SetID: "set-opening-2", RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 4, Hits: 3, Catches: 1}},
	} {
		if _, err := f.setStatsSvc.Upsert(t.Context(), in); err != nil {
			t.Fatalf("upsert set line: %v", err)
		}
	}

	seed, err := f.matchStatsSvc.ResolveCaptureSeed(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed.Source != stats.SourceFromAutomatic {
		t.Fatalf("expected automatic source, got %q", seed.Source)
	}

	var got stats.Line
	for _, e := range seed.Entries {
		if e.RosterEntryID == "roster-thunder-01" {
			got = e.Line
		}
	}
	want := stats.Line{Throws: 10, Hits: 5, Catches: 1}
	if got != want {
		t.Fatalf("seed must sum per-set rows: got %+v want %+v", got, want)
	}
}

func TestMatchStatsService_ResolveCaptureSeed_ManualWins(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 6, Hits: 2},
	}); err != nil {
		t.Fatalf("upsert set line: %v", err)
	}

	saved, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceDirectEntry,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 12, Hits: 7}},
		},
	})
	if err != nil {
		t.Fatalf("save manual: %v", err)
	}

	seed, err := f.matchStatsSvc.ResolveCaptureSeed(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed.Source != stats.SourceFromManual {
		t.Fatalf("manual rows must win over set totals, got %q", seed.Source)
	}
	for _, e := range seed.Entries {
		if e.RosterEntryID == "roster-thunder-01" {
			if e.LineID != saved[0].ID {
				t.Fatalf("seed slot must reference the stored row, got %q want %q", e.LineID, saved[0].ID)
			}
			if e.Line.Throws != 12 {
				t.Fatalf("seed slot carries manual counters, got %+v", e.Line)
			}
		}
	}
}

func TestMatchStatsService_ResolveCaptureSeed_SkipsStaleManualRows(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceDirectEntry,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-comets-02", Line: stats.Line{Throws: 4, Hits: 1}},
		},
	}); err != nil {
		t.Fatalf("save manual: %v", err)
	}

	if err := f.rosterSvc.Remove(t.Context(), "roster-comets-02"); err != nil {
		t.Fatalf("remove roster entry: %v", err)
	}

	seed, err := f.matchStatsSvc.ResolveCaptureSeed(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("resolve seed: %v", err)
	}
	if seed.Source != stats.SourceDirectEntry {
		t.Fatalf("stale manual rows must not seed the form, got %q", seed.Source)
	}
}

func TestMatchStatsService_SaveManual_ValidatesBeforeAnyWrite(t *testing.T) {
	f := newServiceFixture()

	_, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceDirectEntry,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 5}},
			{RosterEntryID: "roster-elsewhere", Line: stats.Line{Throws: 2}},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a foreign roster entry, got %v", err)
	}

	lines, err := f.matchStatsSvc.ListByMatch(t.Context(), memory.MatchIDOpening, stats.KindManual)
	if err != nil {
		t.Fatalf("list match lines: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("a rejected batch must write nothing, got %d rows", len(lines))
	}
}

func TestMatchStatsService_SaveManual_RejectsUnknownSource(t *testing.T) {
	f := newServiceFixture()

	_, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  "guesswork",
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 1}},
		},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestMatchStatsService_SaveManual_RecomputesAggregates(t *testing.T) {
	f := newServiceFixture()

	for _, in := range []UpsertSetLineInput{
		{SetID: "set-opening-1", RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 8, Hits: 3}},
		{SetID: "set-opening-1", RosterEntryID: "roster-comets-01", Line: stats.Line{Throws: 5, Hits: 5}},
	} {
		if _, err := f.setStatsSvc.Upsert(t.Context(), in); err != nil {
			t.Fatalf("upsert set line: %v", err)
		}
	}

	if _, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceFromAutomatic,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-thunder-01", Line: stats.Line{Throws: 8, Hits: 3}},
		},
	}); err != nil {
		t.Fatalf("save manual: %v", err)
	}

	aggs, err := f.matchStatsSvc.Aggregates(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected one aggregate per team, got %d", len(aggs))
	}

	// Sorted by team id: comets before thunder.
	if aggs[0].TeamID != memory.TeamIDComets || aggs[0].Effectiveness != 100 {
		t.Fatalf("unexpected away aggregate: %+v", aggs[0])
	}
	if aggs[1].TeamID != memory.TeamIDThunder || aggs[1].Effectiveness != 37.5 {
		t.Fatalf("unexpected home aggregate: %+v", aggs[1])
	}
}

func TestMatchStatsService_UpdateLine(t *testing.T) {
	f := newServiceFixture()

	saved, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceDirectEntry,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-thunder-02", Line: stats.Line{Throws: 3, Hits: 1}},
		},
	})
	if err != nil {
		t.Fatalf("save manual: %v", err)
	}

	updated, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, stats.KindManual, saved[0].ID, stats.Line{Throws: 7, Hits: 2, Outs: 1})
	if err != nil {
		t.Fatalf("update line: %v", err)
	}
	if updated.Line.Throws != 7 || updated.Kind != stats.KindManual {
		t.Fatalf("unexpected updated row: %+v", updated)
	}

	if _, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, stats.KindManual, saved[0].ID, stats.Line{Hits: -2}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative counters, got %v", err)
	}
	if _, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, stats.KindManual, "line-missing", stats.Line{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMatchStatsService_UpdateLine_ScopedToMatchAndKind(t *testing.T) {
	f := newServiceFixture()

	saved, err := f.matchStatsSvc.SaveManual(t.Context(), SaveManualInput{
		MatchID: memory.MatchIDOpening,
		Source:  stats.SourceDirectEntry,
		Entries: []SaveManualEntry{
			{RosterEntryID: "roster-comets-01", Line: stats.Line{Throws: 4, Hits: 2}},
		},
	})
	if err != nil {
		t.Fatalf("save manual: %v", err)
	}
	lineID := saved[0].ID

	// A manual row is not reachable through another match's path.
	if _, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDDerby, stats.KindManual, lineID, stats.Line{Throws: 9}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a foreign match path, got %v", err)
	}
	// Nor through the automatic collection's path.
	if _, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, stats.KindAutomatic, lineID, stats.Line{Throws: 9}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for the wrong kind, got %v", err)
	}
	if _, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, "derived", lineID, stats.Line{Throws: 9}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for an unknown kind, got %v", err)
	}

	row, err := f.matchStatsSvc.UpdateLine(t.Context(), memory.MatchIDOpening, stats.KindManual, lineID, stats.Line{Throws: 9, Hits: 3})
	if err != nil {
		t.Fatalf("update through the owning path: %v", err)
	}
	if row.Line.Throws != 9 {
		t.Fatalf("unexpected row after update: %+v", row)
	}
}

func TestMatchStatsService_Recalculate_TeamScope(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 10, Hits: 4},
	}); err != nil {
		t.Fatalf("upsert set line: %v", err)
	}

	_, err := f.matchStatsSvc.Recalculate(t.Context(), memory.MatchIDOpening, "team-strangers")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a team not in the match, got %v", err)
	}

	aggs, err := f.matchStatsSvc.Recalculate(t.Context(), memory.MatchIDOpening, memory.TeamIDThunder)
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if len(aggs) != 1 || aggs[0].TeamID != memory.TeamIDThunder {
		t.Fatalf("expected only the requested team, got %+v", aggs)
	}
	if aggs[0].Line.Throws != 10 || aggs[0].Effectiveness != 40 {
		t.Fatalf("unexpected aggregate: %+v", aggs[0])
	}

	both, err := f.matchStatsSvc.Recalculate(t.Context(), memory.MatchIDOpening, "")
	if err != nil {
		t.Fatalf("recalculate both: %v", err)
	}
	if len(both) != 2 {
		t.Fatalf("expected both teams, got %d", len(both))
	}
}

func TestMatchStatsService_Recalculate_MaterializesAutomaticLines(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 10, Hits: 4},
	}); err != nil {
		t.Fatalf("upsert set line: %v", err)
	}

	if _, err := f.matchStatsSvc.Recalculate(t.Context(), memory.MatchIDOpening, ""); err != nil {
		t.Fatalf("recalculate: %v", err)
	}

	lines, err := f.matchStatsSvc.ListByMatch(t.Context(), memory.MatchIDOpening, stats.KindAutomatic)
	if err != nil {
		t.Fatalf("list automatic lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("expected one automatic row per entry with set data, got %d", len(lines))
	}
	if lines[0].RosterEntryID != "roster-thunder-01" || lines[0].Kind != stats.KindAutomatic {
		t.Fatalf("unexpected automatic row: %+v", lines[0])
	}
	if lines[0].Source != stats.SourceFromAutomatic || lines[0].Line != (stats.Line{Throws: 10, Hits: 4}) {
		t.Fatalf("automatic row must carry the set totals: %+v", lines[0])
	}
	firstID := lines[0].ID

	// More set data for the same entry folds into the same row on the next
	// recalculation instead of adding a second one.
	if _, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-2",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 5, Hits: 5},
	}); err != nil {
		t.Fatalf("upsert second set line: %v", err)
	}
	if _, err := f.matchStatsSvc.Recalculate(t.Context(), memory.MatchIDOpening, memory.TeamIDThunder); err != nil {
		t.Fatalf("recalculate again: %v", err)
	}

	lines, err = f.matchStatsSvc.ListByMatch(t.Context(), memory.MatchIDOpening, stats.KindAutomatic)
	if err != nil {
		t.Fatalf("list automatic lines: %v", err)
	}
	if len(lines) != 1 || lines[0].ID != firstID {
		t.Fatalf("expected the original automatic row to absorb the recalculation, got %+v", lines)
	}
	if lines[0].Line != (stats.Line{Throws: 15, Hits: 9}) {
		t.Fatalf("automatic row not re-summed: %+v", lines[0])
	}
}
