package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
)

type EditRequestRepository struct {
	mu    sync.RWMutex
	items map[string]editrequest.Request
}

func NewEditRequestRepository(requests []editrequest.Request) *EditRequestRepository {
	items := make(map[string]editrequest.Request, len(requests))
	for _, r := range requests {
		items[r.ID] = r
	}

	return &EditRequestRepository{items: items}
}

func (r *EditRequestRepository) GetByID(_ context.Context, requestID string) (editrequest.Request, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[requestID]
	if !ok {
		return editrequest.Request{}, false, nil
	}

	return req, true, nil
}

func (r *EditRequestRepository) List(_ context.Context, f editrequest.Filter) ([]editrequest.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]editrequest.Request, 0)
	for _, req := range r.items {
		if f.State != "" && req.State != f.State {
			continue
		}
		if f.Kind != "" && req.Kind != f.Kind {
			continue
		}
		out = append(out, req)
	}

	// Newest first, matching the review queue ordering in the API.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *EditRequestRepository) CountByState(_ context.Context, state string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, req := range r.items {
		if req.State == state {
			count++
		}
	}

	return count, nil
}

func (r *EditRequestRepository) Create(_ context.Context, req editrequest.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[req.ID] = req
	return nil
}

func (r *EditRequestRepository) Update(_ context.Context, req editrequest.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[req.ID] = req
	return nil
}
