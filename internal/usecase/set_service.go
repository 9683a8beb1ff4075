package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
	"github.com/overtimehq/overtime-api/internal/domain/stats"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

type SetService struct {
	matchSvc    *MatchService
	setRepo     matchset.Repository
	setLineRepo stats.SetLineRepository
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewSetService(
	matchSvc *MatchService,
	setRepo matchset.Repository,
	setLineRepo stats.SetLineRepository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SetService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SetService{
		matchSvc:    matchSvc,
		setRepo:     setRepo,
		setLineRepo: setLineRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *SetService) ListByMatch(ctx context.Context, matchID string) ([]matchset.Set, error) {
	if _, err := s.matchSvc.GetByID(ctx, matchID); err != nil {
		return nil, err
	}

	items, err := s.setRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list sets by match: %w", err)
	}
	return items, nil
}

// Create opens the next set of a match. The number assigned is the lowest
// positive integer not already present, so gaps left by deletions are filled
// before appending.
func (s *SetService) Create(ctx context.Context, matchID string) (matchset.Set, error) {
	if _, err := s.matchSvc.GetByID(ctx, matchID); err != nil {
		return matchset.Set{}, err
	}

	existing, err := s.setRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return matchset.Set{}, fmt.Errorf("list sets by match: %w", err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return matchset.Set{}, fmt.Errorf("generate set id: %w", err)
	}

	now := s.now().UTC()
	set := matchset.Set{
		ID:        id,
		MatchID:   matchID,
		Number:    matchset.NextNumber(existing),
		Status:    matchset.StatusPending,
		Winner:    matchset.WinnerPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.setRepo.Create(ctx, set); err != nil {
		return matchset.Set{}, fmt.Errorf("create set: %w", err)
	}

	s.logger.InfoContext(ctx, "set created",
		"match_id", matchID,
		"set_id", set.ID,
		"set_number", set.Number,
	)

	return set, nil
}

// UpdateSetInput carries the editable fields of a set.
type UpdateSetInput struct {
	Status string
	Winner string
}

func (s *SetService) Update(ctx context.Context, setID string, input UpdateSetInput) (matchset.Set, error) {
	set, err := s.getSet(ctx, setID)
	if err != nil {
		return matchset.Set{}, err
	}

	if strings.TrimSpace(input.Status) != "" {
		status := matchset.NormalizeStatus(input.Status)
		if !matchset.IsValidStatus(status) {
			return matchset.Set{}, fmt.Errorf("%w: unknown set status %q", ErrInvalidInput, input.Status)
		}
		set.Status = status
	}
	if strings.TrimSpace(input.Winner) != "" {
		winner := matchset.NormalizeWinner(input.Winner)
		if !matchset.IsValidWinner(winner) {
			return matchset.Set{}, fmt.Errorf("%w: unknown set winner %q", ErrInvalidInput, input.Winner)
		}
		set.Winner = winner
	}

	set.UpdatedAt = s.now().UTC()
	if err := s.setRepo.Update(ctx, set); err != nil {
		return matchset.Set{}, fmt.Errorf("update set: %w", err)
	}

	return set, nil
}

// Delete removes a set, allowed only for the highest-numbered set of the
// match so the sequence stays contiguous. The check runs before any write.
func (s *SetService) Delete(ctx context.Context, setID string) error {
	set, err := s.getSet(ctx, setID)
	if err != nil {
		return err
	}

	siblings, err := s.setRepo.ListByMatch(ctx, set.MatchID)
	if err != nil {
		return fmt.Errorf("list sets by match: %w", err)
	}
	if max := matchset.MaxNumber(siblings); set.Number != max {
		return fmt.Errorf("%w: only the last set (number %d) can be deleted", ErrInvalidInput, max)
	}

	if err := s.setRepo.Delete(ctx, set.ID); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	s.logger.InfoContext(ctx, "set deleted",
		"match_id", set.MatchID,
		"set_id", set.ID,
		"set_number", set.Number,
	)

	return nil
}

// CopyRosterFromPrevious seeds the target set with the immediately preceding
// set's roster as zeroed statistics rows: a convenience starting point, not
// a copy of the previous values. Entries that already have a row in the
// target set are left alone.
func (s *SetService) CopyRosterFromPrevious(ctx context.Context, setID string) ([]stats.SetLine, error) {
	set, err := s.getSet(ctx, setID)
	if err != nil {
		return nil, err
	}
	if set.Number <= 1 {
		return nil, fmt.Errorf("%w: set %d has no previous set", ErrInvalidInput, set.Number)
	}

	siblings, err := s.setRepo.ListByMatch(ctx, set.MatchID)
	if err != nil {
		return nil, fmt.Errorf("list sets by match: %w", err)
	}

	var previous matchset.Set
	found := false
	for _, sibling := range siblings {
		if sibling.Number == set.Number-1 {
			previous = sibling
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: previous set %d not found", ErrNotFound, set.Number-1)
	}

	sourceLines, err := s.setLineRepo.ListBySet(ctx, previous.ID)
	if err != nil {
		return nil, fmt.Errorf("list source set lines: %w", err)
	}

	existingLines, err := s.setLineRepo.ListBySet(ctx, set.ID)
	if err != nil {
		return nil, fmt.Errorf("list target set lines: %w", err)
	}
	seeded := make(map[string]struct{}, len(existingLines))
	for _, l := range existingLines {
		seeded[l.RosterEntryID] = struct{}{}
	}

	now := s.now().UTC()
	out := make([]stats.SetLine, 0, len(sourceLines))
	for _, source := range sourceLines {
		if _, ok := seeded[source.RosterEntryID]; ok {
			continue
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate set line id: %w", err)
		}

		line := stats.SetLine{
			ID:            id,
			SetID:         set.ID,
			MatchID:       set.MatchID,
			RosterEntryID: source.RosterEntryID,
			TeamID:        source.TeamID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.setLineRepo.Create(ctx, line); err != nil {
			return nil, fmt.Errorf("create set line: %w", err)
		}
		out = append(out, line)
	}

	s.logger.InfoContext(ctx, "roster copied from previous set",
		"match_id", set.MatchID,
		"set_id", set.ID,
		"copied_count", len(out),
	)

	return out, nil
}

func (s *SetService) getSet(ctx context.Context, setID string) (matchset.Set, error) {
	setID = strings.TrimSpace(setID)
	if setID == "" {
		return matchset.Set{}, fmt.Errorf("%w: set id is required", ErrInvalidInput)
	}

	set, exists, err := s.setRepo.GetByID(ctx, setID)
	if err != nil {
		return matchset.Set{}, fmt.Errorf("get set: %w", err)
	}
	if !exists {
		return matchset.Set{}, fmt.Errorf("%w: set=%s", ErrNotFound, setID)
	}

	return set, nil
}
