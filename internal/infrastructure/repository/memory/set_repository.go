package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
)

type SetRepository struct {
	mu    sync.RWMutex
	items map[string]matchset.Set
}

func NewSetRepository(sets []matchset.Set) *SetRepository {
	items := make(map[string]matchset.Set, len(sets))
	for _, s := range sets {
		items[s.ID] = s
	}

	return &SetRepository{items: items}
}

func (r *SetRepository) GetByID(_ context.Context, setID string) (matchset.Set, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[setID]
	if !ok {
		return matchset.Set{}, false, nil
	}

	return s, true, nil
}

func (r *SetRepository) ListByMatch(_ context.Context, matchID string) ([]matchset.Set, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]matchset.Set, 0)
	for _, s := range r.items {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *SetRepository) Create(_ context.Context, s matchset.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.ID] = s
	return nil
}

func (r *SetRepository) Update(_ context.Context, s matchset.Set) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.ID] = s
	return nil
}

func (r *SetRepository) Delete(_ context.Context, setID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, setID)
	return nil
}
