package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/overtimehq/overtime-api/internal/domain/match"
	"github.com/overtimehq/overtime-api/internal/domain/roster"
	"github.com/overtimehq/overtime-api/internal/domain/stats"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
	"github.com/overtimehq/overtime-api/internal/platform/resilience"
)

const saveConcurrency = 8

// CaptureSeed is the pre-populated state of the match-level capture form:
// one line per roster entry, tagged with the source that produced it.
type CaptureSeed struct {
	MatchID string
	Source  string
	Entries []CaptureSeedEntry
}

// CaptureSeedEntry pairs a roster entry with its seeded counters. LineID is
// non-empty only when an existing manual row backs the entry.
type CaptureSeedEntry struct {
	RosterEntryID string
	PlayerID      string
	TeamID        string
	LineID        string
	Line          stats.Line
}

// SaveManualInput is the whole-form save: every filled slot of the capture
// form, all persisted in one batch.
type SaveManualInput struct {
	MatchID string
	Source  string
	Entries []SaveManualEntry
}

type SaveManualEntry struct {
	LineID        string
	RosterEntryID string
	Line          stats.Line
}

type MatchStatsService struct {
	matchSvc      *MatchService
	rosterRepo    roster.Repository
	setLineRepo   stats.SetLineRepository
	matchLineRepo stats.MatchLineRepository
	aggregateRepo stats.TeamAggregateRepository
	idGen         idgen.Generator
	logger        *logging.Logger
	recalcFlight  resilience.SingleFlight
	now           func() time.Time
}

func NewMatchStatsService(
	matchSvc *MatchService,
	rosterRepo roster.Repository,
	setLineRepo stats.SetLineRepository,
	matchLineRepo stats.MatchLineRepository,
	aggregateRepo stats.TeamAggregateRepository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *MatchStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchStatsService{
		matchSvc:      matchSvc,
		rosterRepo:    rosterRepo,
		setLineRepo:   setLineRepo,
		matchLineRepo: matchLineRepo,
		aggregateRepo: aggregateRepo,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *MatchStatsService) ListByMatch(ctx context.Context, matchID, kind string) ([]stats.MatchLine, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !stats.IsValidKind(kind) {
		return nil, fmt.Errorf("%w: kind must be %s or %s", ErrInvalidInput, stats.KindManual, stats.KindAutomatic)
	}
	if _, err := s.matchSvc.GetByID(ctx, matchID); err != nil {
		return nil, err
	}

	items, err := s.matchLineRepo.ListByMatch(ctx, matchID, kind)
	if err != nil {
		return nil, fmt.Errorf("list match lines: %w", err)
	}
	return items, nil
}

// ResolveCaptureSeed decides which data set pre-populates the match-level
// capture form. Previously saved manual rows whose roster entry is still
// valid strictly win; otherwise totals derived from per-set rows are offered;
// otherwise the form starts blank. A match with no roster cannot be captured
// at all.
func (s *MatchStatsService) ResolveCaptureSeed(ctx context.Context, matchID string) (CaptureSeed, error) {
	m, err := s.matchSvc.GetByID(ctx, matchID)
	if err != nil {
		return CaptureSeed{}, err
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return CaptureSeed{}, fmt.Errorf("list roster by match: %w", err)
	}
	if len(entries) == 0 {
		return CaptureSeed{}, fmt.Errorf("%w: match=%s", ErrRosterRequired, m.ID)
	}

	entryByID := make(map[string]roster.Entry, len(entries))
	for _, e := range entries {
		entryByID[e.ID] = e
	}

	manualLines, err := s.matchLineRepo.ListByMatch(ctx, m.ID, stats.KindManual)
	if err != nil {
		return CaptureSeed{}, fmt.Errorf("list manual match lines: %w", err)
	}

	// Rows whose assignment was since removed from the roster are stale and
	// never seed the form.
	validManual := make([]stats.MatchLine, 0, len(manualLines))
	for _, l := range manualLines {
		if _, ok := entryByID[l.RosterEntryID]; ok {
			validManual = append(validManual, l)
		}
	}

	if len(validManual) > 0 {
		return s.seedFromManual(m, entries, validManual), nil
	}

	setLines, err := s.setLineRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return CaptureSeed{}, fmt.Errorf("list set lines by match: %w", err)
	}
	if len(setLines) > 0 {
		return s.seedFromSets(m, entries, setLines), nil
	}

	return CaptureSeed{
		MatchID: m.ID,
		Source:  stats.SourceDirectEntry,
		Entries: blankSeedEntries(entries),
	}, nil
}

// SaveManual persists the whole capture form. Every row is validated before
// any write; the writes then run concurrently and the save either fully
// succeeds or reports the first error; partial results are not tracked and
// there is no rollback. On success both teams' aggregates are recomputed so
// the derived view stays consistent.
func (s *MatchStatsService) SaveManual(ctx context.Context, input SaveManualInput) ([]stats.MatchLine, error) {
	m, err := s.matchSvc.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(input.Source)
	if !stats.IsValidSource(source) {
		return nil, fmt.Errorf("%w: unknown provenance tag %q", ErrInvalidInput, input.Source)
	}
	if len(input.Entries) == 0 {
		return nil, fmt.Errorf("%w: no entries to save", ErrInvalidInput)
	}

	entries, err := s.rosterRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list roster by match: %w", err)
	}
	entryByID := make(map[string]roster.Entry, len(entries))
	for _, e := range entries {
		entryByID[e.ID] = e
	}

	for _, row := range input.Entries {
		if _, ok := entryByID[strings.TrimSpace(row.RosterEntryID)]; !ok {
			return nil, fmt.Errorf("%w: roster entry %s does not belong to match %s", ErrInvalidInput, row.RosterEntryID, m.ID)
		}
		if !row.Line.Valid() {
			return nil, fmt.Errorf("%w: counters cannot be negative", ErrInvalidInput)
		}
	}

	now := s.now().UTC()
	saved := make([]stats.MatchLine, len(input.Entries))

	p := pool.New().WithErrors().WithContext(ctx).WithMaxGoroutines(saveConcurrency)
	for i, row := range input.Entries {
		p.Go(func(ctx context.Context) error {
			entry := entryByID[strings.TrimSpace(row.RosterEntryID)]
			line, err := s.upsertManualLine(ctx, m.ID, entry, row, source, now)
			if err != nil {
				return err
			}
			saved[i] = line
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("save manual statistics: %w", err)
	}

	if err := s.recalculateTeams(ctx, m, []string{m.HomeTeamID, m.AwayTeamID}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "manual statistics saved",
		"match_id", m.ID,
		"row_count", len(saved),
		"source", source,
	)

	return saved, nil
}

// UpdateLine edits one existing match-level row in place. The row must
// belong to the given match and kind; a line reached through someone else's
// path is treated as absent.
func (s *MatchStatsService) UpdateLine(ctx context.Context, matchID, kind, lineID string, line stats.Line) (stats.MatchLine, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !stats.IsValidKind(kind) {
		return stats.MatchLine{}, fmt.Errorf("%w: kind must be %s or %s", ErrInvalidInput, stats.KindManual, stats.KindAutomatic)
	}
	lineID = strings.TrimSpace(lineID)
	if lineID == "" {
		return stats.MatchLine{}, fmt.Errorf("%w: line id is required", ErrInvalidInput)
	}
	if !line.Valid() {
		return stats.MatchLine{}, fmt.Errorf("%w: counters cannot be negative", ErrInvalidInput)
	}

	m, err := s.matchSvc.GetByID(ctx, matchID)
	if err != nil {
		return stats.MatchLine{}, err
	}

	existing, found, err := s.matchLineRepo.GetByID(ctx, lineID)
	if err != nil {
		return stats.MatchLine{}, fmt.Errorf("get match line: %w", err)
	}
	if !found || existing.MatchID != m.ID || existing.Kind != kind {
		return stats.MatchLine{}, fmt.Errorf("%w: %s match line=%s in match=%s", ErrNotFound, kind, lineID, m.ID)
	}

	existing.Line = line
	existing.UpdatedAt = s.now().UTC()
	if err := s.matchLineRepo.Update(ctx, existing); err != nil {
		return stats.MatchLine{}, fmt.Errorf("update match line: %w", err)
	}

	return existing, nil
}

// Recalculate recomputes the stored per-team aggregates of a match from its
// per-set rows. teamID narrows to one side; empty recomputes both.
func (s *MatchStatsService) Recalculate(ctx context.Context, matchID, teamID string) ([]stats.TeamAggregate, error) {
	m, err := s.matchSvc.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	teamIDs := []string{m.HomeTeamID, m.AwayTeamID}
	if teamID = strings.TrimSpace(teamID); teamID != "" {
		if !m.HasTeam(teamID) {
			return nil, fmt.Errorf("%w: team %s is not playing match %s", ErrInvalidInput, teamID, m.ID)
		}
		teamIDs = []string{teamID}
	}

	if err := s.recalculateTeams(ctx, m, teamIDs); err != nil {
		return nil, err
	}

	out, err := s.aggregateRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list team aggregates: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (s *MatchStatsService) Aggregates(ctx context.Context, matchID string) ([]stats.TeamAggregate, error) {
	m, err := s.matchSvc.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	out, err := s.aggregateRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list team aggregates: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (s *MatchStatsService) seedFromManual(m match.Match, entries []roster.Entry, manual []stats.MatchLine) CaptureSeed {
	lineByEntry := make(map[string]stats.MatchLine, len(manual))
	for _, l := range manual {
		lineByEntry[l.RosterEntryID] = l
	}

	out := CaptureSeed{MatchID: m.ID, Source: stats.SourceFromManual}
	for _, e := range entries {
		seed := CaptureSeedEntry{
			RosterEntryID: e.ID,
			PlayerID:      e.PlayerID,
			TeamID:        e.TeamID,
		}
		if l, ok := lineByEntry[e.ID]; ok {
			seed.LineID = l.ID
			seed.Line = l.Line
		}
		out.Entries = append(out.Entries, seed)
	}
	return out
}

func (s *MatchStatsService) seedFromSets(m match.Match, entries []roster.Entry, setLines []stats.SetLine) CaptureSeed {
	sums := stats.SumByEntry(setLines)

	out := CaptureSeed{MatchID: m.ID, Source: stats.SourceFromAutomatic}
	for _, e := range entries {
		seed := CaptureSeedEntry{
			RosterEntryID: e.ID,
			PlayerID:      e.PlayerID,
			TeamID:        e.TeamID,
		}
		if sum, ok := sums[e.ID]; ok {
			seed.Line = sum.Line
		}
		out.Entries = append(out.Entries, seed)
	}
	return out
}

func (s *MatchStatsService) upsertManualLine(
	ctx context.Context,
	matchID string,
	entry roster.Entry,
	row SaveManualEntry,
	source string,
	now time.Time,
) (stats.MatchLine, error) {
	if lineID := strings.TrimSpace(row.LineID); lineID != "" {
		existing, found, err := s.matchLineRepo.GetByID(ctx, lineID)
		if err != nil {
			return stats.MatchLine{}, fmt.Errorf("get match line: %w", err)
		}
		if !found {
			return stats.MatchLine{}, fmt.Errorf("%w: match line=%s", ErrNotFound, lineID)
		}
		existing.Line = row.Line
		existing.Source = source
		existing.UpdatedAt = now
		if err := s.matchLineRepo.Update(ctx, existing); err != nil {
			return stats.MatchLine{}, fmt.Errorf("update match line: %w", err)
		}
		return existing, nil
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return stats.MatchLine{}, fmt.Errorf("generate match line id: %w", err)
	}

	line := stats.MatchLine{
		ID:            id,
		MatchID:       matchID,
		RosterEntryID: entry.ID,
		TeamID:        entry.TeamID,
		Kind:          stats.KindManual,
		Source:        source,
		Line:          row.Line,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.matchLineRepo.Create(ctx, line); err != nil {
		return stats.MatchLine{}, fmt.Errorf("create match line: %w", err)
	}
	return line, nil
}

// recalculateTeams runs the per-team recompute for each team id, deduping
// identical concurrent triggers: save paths fire these from several call
// sites, and two triggers for the same match+team should not race each
// other's read-then-replace.
func (s *MatchStatsService) recalculateTeams(ctx context.Context, m match.Match, teamIDs []string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(teamIDs))

	for i, teamID := range teamIDs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := m.ID + ":" + teamID
			_, err, _ := s.recalcFlight.Do(key, func() (any, error) {
				return nil, s.recalculateTeam(ctx, m.ID, teamID)
			})
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("recalculate team aggregates: %w", err)
		}
	}
	return nil
}

// recalculateTeam rebuilds everything derived from the per-set rows of one
// team: the automatic per-player match collection and the stored team
// aggregate.
func (s *MatchStatsService) recalculateTeam(ctx context.Context, matchID, teamID string) error {
	setLines, err := s.setLineRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return fmt.Errorf("list set lines by match: %w", err)
	}

	if err := s.materializeAutomaticLines(ctx, matchID, teamID, setLines); err != nil {
		return err
	}

	total := stats.TeamTotal(setLines, teamID)
	agg := stats.TeamAggregate{
		MatchID:       matchID,
		TeamID:        teamID,
		Line:          total,
		Effectiveness: stats.RoundEffectiveness(total.Effectiveness()),
		UpdatedAt:     s.now().UTC(),
	}
	if err := s.aggregateRepo.Replace(ctx, agg); err != nil {
		return fmt.Errorf("replace team aggregate: %w", err)
	}
	return nil
}

// materializeAutomaticLines writes one kind=automatic row per roster entry
// of the team, its counters summed over all per-set rows. The repository
// upserts on (match, entry, kind), so repeated recalculations fold into the
// same rows.
func (s *MatchStatsService) materializeAutomaticLines(ctx context.Context, matchID, teamID string, setLines []stats.SetLine) error {
	now := s.now().UTC()

	sums := stats.SumByEntry(setLines)
	for _, sum := range sums {
		if sum.TeamID != teamID {
			continue
		}

		id, err := s.idGen.NewID()
		if err != nil {
			return fmt.Errorf("generate match line id: %w", err)
		}

		line := stats.MatchLine{
			ID:            id,
			MatchID:       matchID,
			RosterEntryID: sum.RosterEntryID,
			TeamID:        sum.TeamID,
			Kind:          stats.KindAutomatic,
			Source:        stats.SourceFromAutomatic,
			Line:          sum.Line,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.matchLineRepo.Create(ctx, line); err != nil {
			return fmt.Errorf("create automatic match line: %w", err)
		}
	}
	return nil
}

func blankSeedEntries(entries []roster.Entry) []CaptureSeedEntry {
	out := make([]CaptureSeedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, CaptureSeedEntry{
			RosterEntryID: e.ID,
			PlayerID:      e.PlayerID,
			TeamID:        e.TeamID,
		})
	}
	return out
}
