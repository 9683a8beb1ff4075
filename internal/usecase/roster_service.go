package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

// AssignPlayerInput adds one player to a match roster on the given side.
type AssignPlayerInput struct {
	MatchID  string
	PlayerID string
	TeamID   string
}

type RosterService struct {
	matchSvc   *MatchService
	rosterRepo roster.Repository
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(
	matchSvc *MatchService,
	rosterRepo roster.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		matchSvc:   matchSvc,
		rosterRepo: rosterRepo,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	if _, err := s.matchSvc.GetByID(ctx, matchID); err != nil {
		return nil, err
	}

	items, err := s.rosterRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("list roster by match: %w", err)
	}
	return items, nil
}

func (s *RosterService) Assign(ctx context.Context, input AssignPlayerInput) (roster.Entry, error) {
	input.MatchID = strings.TrimSpace(input.MatchID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	input.TeamID = strings.TrimSpace(input.TeamID)

	if input.PlayerID == "" {
		return roster.Entry{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if input.TeamID == "" {
		return roster.Entry{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	m, err := s.matchSvc.GetByID(ctx, input.MatchID)
	if err != nil {
		return roster.Entry{}, err
	}
	if !m.HasTeam(input.TeamID) {
		return roster.Entry{}, fmt.Errorf("%w: team %s is not playing match %s", ErrInvalidInput, input.TeamID, m.ID)
	}

	existing, err := s.rosterRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("list roster by match: %w", err)
	}
	for _, e := range existing {
		if e.PlayerID == input.PlayerID {
			return roster.Entry{}, fmt.Errorf("%w: player %s is already assigned to match %s", ErrInvalidInput, input.PlayerID, m.ID)
		}
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return roster.Entry{}, fmt.Errorf("generate roster entry id: %w", err)
	}

	entry := roster.Entry{
		ID:        id,
		MatchID:   m.ID,
		PlayerID:  input.PlayerID,
		TeamID:    input.TeamID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.rosterRepo.Create(ctx, entry); err != nil {
		return roster.Entry{}, fmt.Errorf("create roster entry: %w", err)
	}

	s.logger.InfoContext(ctx, "player assigned to match",
		"match_id", m.ID,
		"roster_entry_id", entry.ID,
		"player_id", entry.PlayerID,
		"team_id", entry.TeamID,
	)

	return entry, nil
}

// Remove deletes a roster assignment. Statistics rows referencing it stay in
// place; readers filter them out against the current roster.
func (s *RosterService) Remove(ctx context.Context, entryID string) error {
	entryID = strings.TrimSpace(entryID)
	if entryID == "" {
		return fmt.Errorf("%w: roster entry id is required", ErrInvalidInput)
	}

	entry, exists, err := s.rosterRepo.GetByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("get roster entry: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: roster entry=%s", ErrNotFound, entryID)
	}

	if err := s.rosterRepo.Delete(ctx, entry.ID); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}

	return nil
}
