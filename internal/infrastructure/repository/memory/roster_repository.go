package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
)

type RosterRepository struct {
	mu    sync.RWMutex
	items map[string]roster.Entry
}

func NewRosterRepository(entries []roster.Entry) *RosterRepository {
	items := make(map[string]roster.Entry, len(entries))
	for _, e := range entries {
		items[e.ID] = e
	}

	return &RosterRepository{items: items}
}

func (r *RosterRepository) GetByID(_ context.Context, entryID string) (roster.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.items[entryID]
	if !ok {
		return roster.Entry{}, false, nil
	}

	return e, true, nil
}

func (r *RosterRepository) ListByMatch(_ context.Context, matchID string) ([]roster.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]roster.Entry, 0)
	for _, e := range r.items {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *RosterRepository) Create(_ context.Context, e roster.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[e.ID] = e
	return nil
}

func (r *RosterRepository) Delete(_ context.Context, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, entryID)
	return nil
}
