package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

const (
	recalcStatusSuccess = "success"
	recalcStatusFailed  = "failed"

	defaultRecalcWorkers = 4
	maxRecalcWorkers     = 16
)

// BulkRecalcInput selects the matches whose team aggregates get recomputed.
// Empty MatchIDs means every known match.
type BulkRecalcInput struct {
	MatchIDs   []string
	MaxWorkers int
}

type BulkRecalcResult struct {
	TaskCount    int               `json:"task_count"`
	SuccessCount int               `json:"success_count"`
	FailedCount  int               `json:"failed_count"`
	WorkerCount  int               `json:"worker_count"`
	Tasks        []RecalcTaskResult `json:"tasks"`
}

type RecalcTaskResult struct {
	MatchID    string `json:"match_id"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RecalcService sweeps team aggregates across many matches on a worker pool,
// used after bulk imports or schema corrections.
type RecalcService struct {
	matchSvc      *MatchService
	matchStatsSvc *MatchStatsService
	logger        *logging.Logger
}

func NewRecalcService(matchSvc *MatchService, matchStatsSvc *MatchStatsService, logger *logging.Logger) *RecalcService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RecalcService{
		matchSvc:      matchSvc,
		matchStatsSvc: matchStatsSvc,
		logger:        logger,
	}
}

func (s *RecalcService) Run(ctx context.Context, input BulkRecalcInput) (BulkRecalcResult, error) {
	matchIDs, err := s.resolveMatchIDs(ctx, input.MatchIDs)
	if err != nil {
		return BulkRecalcResult{}, err
	}
	if len(matchIDs) == 0 {
		return BulkRecalcResult{}, fmt.Errorf("%w: no matches to recalculate", ErrInvalidInput)
	}

	workers := input.MaxWorkers
	if workers <= 0 {
		workers = defaultRecalcWorkers
	}
	if workers > maxRecalcWorkers {
		workers = maxRecalcWorkers
	}
	if workers > len(matchIDs) {
		workers = len(matchIDs)
	}

	p, err := ants.NewPool(workers)
	if err != nil {
		return BulkRecalcResult{}, fmt.Errorf("create recalc worker pool: %w", err)
	}
	defer p.Release()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]RecalcTaskResult, 0, len(matchIDs))
	)

	for _, matchID := range matchIDs {
		wg.Add(1)
		task := func() {
			defer wg.Done()

			started := time.Now()
			result := RecalcTaskResult{MatchID: matchID, Status: recalcStatusSuccess}
			if _, err := s.matchStatsSvc.Recalculate(ctx, matchID, ""); err != nil {
				result.Status = recalcStatusFailed
				result.Message = err.Error()
			}
			result.DurationMs = time.Since(started).Milliseconds()

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}
		if err := p.Submit(task); err != nil {
			wg.Done()
			mu.Lock()
			results = append(results, RecalcTaskResult{
				MatchID: matchID,
				Status:  recalcStatusFailed,
				Message: fmt.Sprintf("submit task: %v", err),
			})
			mu.Unlock()
		}
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].MatchID < results[j].MatchID })

	out := BulkRecalcResult{
		TaskCount:   len(results),
		WorkerCount: workers,
		Tasks:       results,
	}
	for _, r := range results {
		if r.Status == recalcStatusSuccess {
			out.SuccessCount++
		} else {
			out.FailedCount++
		}
	}

	s.logger.InfoContext(ctx, "bulk recalculation finished",
		"task_count", out.TaskCount,
		"success_count", out.SuccessCount,
		"failed_count", out.FailedCount,
		"worker_count", out.WorkerCount,
	)

	return out, nil
}

func (s *RecalcService) resolveMatchIDs(ctx context.Context, requested []string) ([]string, error) {
	if len(requested) > 0 {
		seen := make(map[string]struct{}, len(requested))
		out := make([]string, 0, len(requested))
		for _, id := range requested {
			id = strings.TrimSpace(id)
			if id == "" {
				return nil, fmt.Errorf("%w: match id cannot be empty", ErrInvalidInput)
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
		return out, nil
	}

	matches, err := s.matchSvc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.ID)
	}
	return out, nil
}
