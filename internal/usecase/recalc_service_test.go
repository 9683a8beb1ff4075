package usecase

import (
	"errors"
	"testing"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
)

func TestRecalcService_Run_AllMatches(t *testing.T) {
	f := newServiceFixture()

	if _, err := f.setStatsSvc.Upsert(t.Context(), UpsertSetLineInput{
		SetID:         "set-opening-1",
		RosterEntryID: "roster-thunder-01",
		Line:          stats.Line{Throws: 8, Hits: 3},
	}); err != nil {
		t.Fatalf("upsert set line: %v", err)
	}

	result, err := f.recalcSvc.Run(t.Context(), BulkRecalcInput{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TaskCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
		t.Fatalf("unexpected result counts: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("worker count must be clamped to the task count, got %d", result.WorkerCount)
	}

	// Tasks come back sorted by match id.
	if result.Tasks[0].MatchID != memory.MatchIDDerby || result.Tasks[1].MatchID != memory.MatchIDOpening {
		t.Fatalf("tasks not sorted: %+v", result.Tasks)
	}

	aggs, err := f.matchStatsSvc.Aggregates(t.Context(), memory.MatchIDOpening)
	if err != nil {
		t.Fatalf("list aggregates: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected both teams recomputed, got %d", len(aggs))
	}
}

func TestRecalcService_Run_UnknownMatchReportedPerTask(t *testing.T) {
	f := newServiceFixture()

	result, err := f.recalcSvc.Run(t.Context(), BulkRecalcInput{
		MatchIDs: []string{memory.MatchIDOpening, "match-missing"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.SuccessCount != 1 || result.FailedCount != 1 {
		t.Fatalf("unexpected result counts: %+v", result)
	}
	for _, task := range result.Tasks {
		if task.MatchID == "match-missing" && task.Message == "" {
			t.Fatalf("failed task must carry a message: %+v", task)
		}
	}
}

func TestRecalcService_Run_DedupesRequestedIDs(t *testing.T) {
	f := newServiceFixture()

	result, err := f.recalcSvc.Run(t.Context(), BulkRecalcInput{
		MatchIDs: []string{memory.MatchIDOpening, memory.MatchIDOpening},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.TaskCount != 1 {
		t.Fatalf("duplicate ids must collapse to one task, got %d", result.TaskCount)
	}
}

func TestRecalcService_Run_RejectsBlankID(t *testing.T) {
	f := newServiceFixture()

	_, err := f.recalcSvc.Run(t.Context(), BulkRecalcInput{MatchIDs: []string{"  "}})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRecalcService_Run_ClampsWorkerCount(t *testing.T) {
	f := newServiceFixture()

	result, err := f.recalcSvc.Run(t.Context(), BulkRecalcInput{
		MatchIDs:   []string{memory.MatchIDOpening},
		MaxWorkers: 64,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.WorkerCount != 1 {
		t.Fatalf("expected worker count clamped to 1, got %d", result.WorkerCount)
	}
}
