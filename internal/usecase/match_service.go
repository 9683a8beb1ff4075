package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/match"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

// CreateMatchInput is the incoming payload for scheduling a match.
type CreateMatchInput struct {
	ScheduledAt time.Time
	Venue       string
	HomeTeamID  string
	AwayTeamID  string
	CaptureMode string
	DisplayMode string
}

type MatchService struct {
	matchRepo match.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewMatchService(matchRepo match.Repository, idGen idgen.Generator, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		matchRepo: matchRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *MatchService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	input.Venue = strings.TrimSpace(input.Venue)
	input.HomeTeamID = strings.TrimSpace(input.HomeTeamID)
	input.AwayTeamID = strings.TrimSpace(input.AwayTeamID)

	if input.ScheduledAt.IsZero() {
		return match.Match{}, fmt.Errorf("%w: scheduled_at is required", ErrInvalidInput)
	}
	if input.HomeTeamID == "" || input.AwayTeamID == "" {
		return match.Match{}, fmt.Errorf("%w: home and away team ids are required", ErrInvalidInput)
	}
	if input.HomeTeamID == input.AwayTeamID {
		return match.Match{}, fmt.Errorf("%w: a team cannot play itself", ErrInvalidInput)
	}
	captureMode := match.NormalizeMode(input.CaptureMode)
	displayMode := match.NormalizeMode(input.DisplayMode)
	if !match.IsValidMode(captureMode) || !match.IsValidMode(displayMode) {
		return match.Match{}, fmt.Errorf("%w: mode must be %s or %s", ErrInvalidInput, match.ModeAutomatic, match.ModeManual)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	now := s.now().UTC()
	m := match.Match{
		ID:          id,
		ScheduledAt: input.ScheduledAt.UTC(),
		Venue:       input.Venue,
		HomeTeamID:  input.HomeTeamID,
		AwayTeamID:  input.AwayTeamID,
		Status:      match.StatusScheduled,
		CaptureMode: captureMode,
		DisplayMode: displayMode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.matchRepo.Create(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created",
		"match_id", m.ID,
		"home_team_id", m.HomeTeamID,
		"away_team_id", m.AwayTeamID,
	)

	return m, nil
}

func (s *MatchService) GetByID(ctx context.Context, id string) (match.Match, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	m, exists, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, id)
	}

	return m, nil
}

func (s *MatchService) List(ctx context.Context) ([]match.Match, error) {
	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return items, nil
}

// ApplyPatch updates the individual fields present in patch and leaves the
// rest untouched, mirroring a REST PATCH of a single attribute.
func (s *MatchService) ApplyPatch(ctx context.Context, id string, patch match.Patch) (match.Match, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return match.Match{}, err
	}

	if patch.ScheduledAt != nil {
		if patch.ScheduledAt.IsZero() {
			return match.Match{}, fmt.Errorf("%w: scheduled_at cannot be zero", ErrInvalidInput)
		}
		m.ScheduledAt = patch.ScheduledAt.UTC()
	}
	if patch.Venue != nil {
		m.Venue = strings.TrimSpace(*patch.Venue)
	}
	if patch.HomeScore != nil {
		if *patch.HomeScore < 0 {
			return match.Match{}, fmt.Errorf("%w: home score cannot be negative", ErrInvalidInput)
		}
		m.HomeScore = *patch.HomeScore
	}
	if patch.AwayScore != nil {
		if *patch.AwayScore < 0 {
			return match.Match{}, fmt.Errorf("%w: away score cannot be negative", ErrInvalidInput)
		}
		m.AwayScore = *patch.AwayScore
	}
	if patch.Status != nil {
		status := match.NormalizeStatus(*patch.Status)
		if !match.IsValidStatus(status) {
			return match.Match{}, fmt.Errorf("%w: unknown match status %q", ErrInvalidInput, *patch.Status)
		}
		m.Status = status
	}
	if patch.CaptureMode != nil {
		mode := match.NormalizeMode(*patch.CaptureMode)
		if !match.IsValidMode(mode) {
			return match.Match{}, fmt.Errorf("%w: unknown capture mode %q", ErrInvalidInput, *patch.CaptureMode)
		}
		m.CaptureMode = mode
	}
	if patch.DisplayMode != nil {
		mode := match.NormalizeMode(*patch.DisplayMode)
		if !match.IsValidMode(mode) {
			return match.Match{}, fmt.Errorf("%w: unknown display mode %q", ErrInvalidInput, *patch.DisplayMode)
		}
		m.DisplayMode = mode
	}

	m.UpdatedAt = s.now().UTC()
	if err := s.matchRepo.Update(ctx, m); err != nil {
		return match.Match{}, fmt.Errorf("update match: %w", err)
	}

	return m, nil
}
