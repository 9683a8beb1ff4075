package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
)

type SetLineRepository struct {
	mu    sync.RWMutex
	items map[string]stats.SetLine
}

func NewSetLineRepository(lines []stats.SetLine) *SetLineRepository {
	items := make(map[string]stats.SetLine, len(lines))
	for _, l := range lines {
		items[l.ID] = l
	}

	return &SetLineRepository{items: items}
}

func (r *SetLineRepository) GetByID(_ context.Context, lineID string) (stats.SetLine, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[lineID]
	if !ok {
		return stats.SetLine{}, false, nil
	}

	return l, true, nil
}

func (r *SetLineRepository) GetBySetAndEntry(_ context.Context, setID, rosterEntryID string) (stats.SetLine, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.items {
		if l.SetID == setID && l.RosterEntryID == rosterEntryID {
			return l, true, nil
		}
	}

	return stats.SetLine{}, false, nil
}

func (r *SetLineRepository) ListBySet(_ context.Context, setID string) ([]stats.SetLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.SetLine, 0)
	for _, l := range r.items {
		if l.SetID == setID {
			out = append(out, l)
		}
	}

	sortSetLines(out)
	return out, nil
}

func (r *SetLineRepository) ListByMatch(_ context.Context, matchID string) ([]stats.SetLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.SetLine, 0)
	for _, l := range r.items {
		if l.MatchID == matchID {
			out = append(out, l)
		}
	}

	sortSetLines(out)
	return out, nil
}

// Create upserts on (SetID, RosterEntryID), the same natural key the
// database schema enforces: a duplicate submission folds into the existing
// row instead of adding a second one.
func (r *SetLineRepository) Create(_ context.Context, l stats.SetLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.SetID == l.SetID && existing.RosterEntryID == l.RosterEntryID {
			existing.Line = l.Line
			existing.UpdatedAt = l.UpdatedAt
			r.items[existing.ID] = existing
			return nil
		}
	}

	r.items[l.ID] = l
	return nil
}

func (r *SetLineRepository) Update(_ context.Context, l stats.SetLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = l
	return nil
}

func sortSetLines(lines []stats.SetLine) {
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].SetID != lines[j].SetID {
			return lines[i].SetID < lines[j].SetID
		}
		return lines[i].RosterEntryID < lines[j].RosterEntryID
	})
}

type MatchLineRepository struct {
	mu    sync.RWMutex
	items map[string]stats.MatchLine
}

func NewMatchLineRepository(lines []stats.MatchLine) *MatchLineRepository {
	items := make(map[string]stats.MatchLine, len(lines))
	for _, l := range lines {
		items[l.ID] = l
	}

	return &MatchLineRepository{items: items}
}

func (r *MatchLineRepository) GetByID(_ context.Context, lineID string) (stats.MatchLine, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[lineID]
	if !ok {
		return stats.MatchLine{}, false, nil
	}

	return l, true, nil
}

func (r *MatchLineRepository) ListByMatch(_ context.Context, matchID, kind string) ([]stats.MatchLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.MatchLine, 0)
	for _, l := range r.items {
		if l.MatchID != matchID {
			continue
		}
		if kind != "" && l.Kind != kind {
			continue
		}
		out = append(out, l)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RosterEntryID != out[j].RosterEntryID {
			return out[i].RosterEntryID < out[j].RosterEntryID
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

// Create upserts on (MatchID, RosterEntryID, Kind), mirroring the unique
// index the database schema enforces over the two match-level collections.
func (r *MatchLineRepository) Create(_ context.Context, l stats.MatchLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.MatchID == l.MatchID && existing.RosterEntryID == l.RosterEntryID && existing.Kind == l.Kind {
			existing.Source = l.Source
			existing.Line = l.Line
			existing.UpdatedAt = l.UpdatedAt
			r.items[existing.ID] = existing
			return nil
		}
	}

	r.items[l.ID] = l
	return nil
}

func (r *MatchLineRepository) Update(_ context.Context, l stats.MatchLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = l
	return nil
}

type TeamAggregateRepository struct {
	mu    sync.RWMutex
	items map[string]stats.TeamAggregate
}

func NewTeamAggregateRepository() *TeamAggregateRepository {
	return &TeamAggregateRepository{items: make(map[string]stats.TeamAggregate)}
}

func aggregateKey(matchID, teamID string) string {
	return matchID + "/" + teamID
}

func (r *TeamAggregateRepository) GetByMatchAndTeam(_ context.Context, matchID, teamID string) (stats.TeamAggregate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[aggregateKey(matchID, teamID)]
	if !ok {
		return stats.TeamAggregate{}, false, nil
	}

	return a, true, nil
}

func (r *TeamAggregateRepository) ListByMatch(_ context.Context, matchID string) ([]stats.TeamAggregate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]stats.TeamAggregate, 0, 2)
	for _, a := range r.items {
		if a.MatchID == matchID {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}

func (r *TeamAggregateRepository) Replace(_ context.Context, a stats.TeamAggregate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[aggregateKey(a.MatchID, a.TeamID)] = a
	return nil
}
