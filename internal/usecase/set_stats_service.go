package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
	"github.com/overtimehq/overtime-api/internal/domain/stats"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

// UpsertSetLineInput carries one player's counters for one set. ID is set
// when the caller already knows the row; otherwise the service resolves it.
type UpsertSetLineInput struct {
	ID            string
	SetID         string
	RosterEntryID string
	Line          stats.Line
}

type SetStatsService struct {
	setSvc      *SetService
	rosterRepo  roster.Repository
	setLineRepo stats.SetLineRepository
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewSetStatsService(
	setSvc *SetService,
	rosterRepo roster.Repository,
	setLineRepo stats.SetLineRepository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SetStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SetStatsService{
		setSvc:      setSvc,
		rosterRepo:  rosterRepo,
		setLineRepo: setLineRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *SetStatsService) ListBySet(ctx context.Context, setID string) ([]stats.SetLine, error) {
	if _, err := s.setSvc.getSet(ctx, setID); err != nil {
		return nil, err
	}

	items, err := s.setLineRepo.ListBySet(ctx, setID)
	if err != nil {
		return nil, fmt.Errorf("list set lines: %w", err)
	}
	return items, nil
}

func (s *SetStatsService) ListByMatch(ctx context.Context, matchID string) ([]stats.SetLine, error) {
	if _, err := s.setSvc.matchSvc.GetByID(ctx, matchID); err != nil {
		return nil, err
	}

	items, err := s.setLineRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list set lines by match: %w", err)
	}
	return items, nil
}

// Upsert writes one player's counters for one set. When no row id is known
// it looks an existing row up by (set, roster entry) before inserting, so a
// repeated save updates the same row instead of creating a duplicate.
func (s *SetStatsService) Upsert(ctx context.Context, input UpsertSetLineInput) (stats.SetLine, error) {
	input.ID = strings.TrimSpace(input.ID)
	input.SetID = strings.TrimSpace(input.SetID)
	input.RosterEntryID = strings.TrimSpace(input.RosterEntryID)

	if input.RosterEntryID == "" {
		return stats.SetLine{}, fmt.Errorf("%w: roster entry id is required", ErrInvalidInput)
	}
	if !input.Line.Valid() {
		return stats.SetLine{}, fmt.Errorf("%w: counters cannot be negative", ErrInvalidInput)
	}

	set, err := s.setSvc.getSet(ctx, input.SetID)
	if err != nil {
		return stats.SetLine{}, err
	}

	entry, exists, err := s.rosterRepo.GetByID(ctx, input.RosterEntryID)
	if err != nil {
		return stats.SetLine{}, fmt.Errorf("get roster entry: %w", err)
	}
	if !exists || entry.MatchID != set.MatchID {
		return stats.SetLine{}, fmt.Errorf("%w: roster entry %s does not belong to match %s", ErrInvalidInput, input.RosterEntryID, set.MatchID)
	}

	now := s.now().UTC()

	if input.ID != "" {
		line, found, err := s.setLineRepo.GetByID(ctx, input.ID)
		if err != nil {
			return stats.SetLine{}, fmt.Errorf("get set line: %w", err)
		}
		if !found {
			return stats.SetLine{}, fmt.Errorf("%w: set line=%s", ErrNotFound, input.ID)
		}
		line.Line = input.Line
		line.UpdatedAt = now
		if err := s.setLineRepo.Update(ctx, line); err != nil {
			return stats.SetLine{}, fmt.Errorf("update set line: %w", err)
		}
		return line, nil
	}

	// A row may have appeared since the caller loaded the set, and
	// (set, roster entry) must stay unique.
	line, found, err := s.setLineRepo.GetBySetAndEntry(ctx, set.ID, input.RosterEntryID)
	if err != nil {
		return stats.SetLine{}, fmt.Errorf("lookup set line: %w", err)
	}
	if found {
		line.Line = input.Line
		line.UpdatedAt = now
		if err := s.setLineRepo.Update(ctx, line); err != nil {
			return stats.SetLine{}, fmt.Errorf("update set line: %w", err)
		}
		return line, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return stats.SetLine{}, fmt.Errorf("generate set line id: %w", err)
	}

	line = stats.SetLine{
		ID:            id,
		SetID:         set.ID,
		MatchID:       set.MatchID,
		RosterEntryID: entry.ID,
		TeamID:        entry.TeamID,
		Line:          input.Line,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.setLineRepo.Create(ctx, line); err != nil {
		return stats.SetLine{}, fmt.Errorf("create set line: %w", err)
	}

	s.logger.InfoContext(ctx, "set line created",
		"match_id", line.MatchID,
		"set_id", line.SetID,
		"roster_entry_id", line.RosterEntryID,
	)

	return line, nil
}
