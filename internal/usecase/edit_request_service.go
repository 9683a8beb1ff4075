package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	"github.com/overtimehq/overtime-api/internal/platform/cache"
	idgen "github.com/overtimehq/overtime-api/internal/platform/id"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

const pendingCountCacheKey = "edit-requests:pending-count"

// DecisionNotifier publishes edit-request decisions to interested listeners.
// Failures are logged, never surfaced: the decision itself already happened.
type DecisionNotifier interface {
	NotifyDecision(ctx context.Context, r editrequest.Request) error
}

// CreateEditRequestInput is the incoming payload for a new change proposal.
type CreateEditRequestInput struct {
	Kind            string
	TargetID        string
	ProposedChanges map[string]any
	CreatedBy       string
}

// EditRequestOptions is the catalog the dynamic request forms build from.
type EditRequestOptions struct {
	Kinds  []string `json:"kinds"`
	States []string `json:"states"`
}

type EditRequestService struct {
	requestRepo editrequest.Repository
	notifier    DecisionNotifier
	countCache  *cache.Store
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewEditRequestService(
	requestRepo editrequest.Repository,
	notifier DecisionNotifier,
	countCache *cache.Store,
	idGen idgen.Generator,
	logger *logging.Logger,
) *EditRequestService {
	if logger == nil {
		logger = logging.Default()
	}

	return &EditRequestService{
		requestRepo: requestRepo,
		notifier:    notifier,
		countCache:  countCache,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *EditRequestService) Create(ctx context.Context, input CreateEditRequestInput) (editrequest.Request, error) {
	kind := strings.ToLower(strings.TrimSpace(input.Kind))
	if !editrequest.IsValidKind(kind) {
		return editrequest.Request{}, fmt.Errorf("%w: unknown request kind %q", ErrInvalidInput, input.Kind)
	}
	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		return editrequest.Request{}, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}
	if len(input.ProposedChanges) == 0 {
		return editrequest.Request{}, fmt.Errorf("%w: proposed changes are required", ErrInvalidInput)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return editrequest.Request{}, fmt.Errorf("generate request id: %w", err)
	}

	r := editrequest.Request{
		ID:              id,
		Kind:            kind,
		TargetID:        strings.TrimSpace(input.TargetID),
		ProposedChanges: input.ProposedChanges,
		State:           editrequest.StatePending,
		CreatedBy:       createdBy,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.requestRepo.Create(ctx, r); err != nil {
		return editrequest.Request{}, fmt.Errorf("create edit request: %w", err)
	}
	s.invalidatePendingCount(ctx)

	s.logger.InfoContext(ctx, "edit request created",
		"request_id", r.ID,
		"kind", r.Kind,
		"created_by", r.CreatedBy,
	)

	return r, nil
}

func (s *EditRequestService) List(ctx context.Context, filter editrequest.Filter) ([]editrequest.Request, error) {
	if filter.State = strings.ToLower(strings.TrimSpace(filter.State)); filter.State != "" && !editrequest.IsValidState(filter.State) {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidInput, filter.State)
	}
	if filter.Kind = strings.ToLower(strings.TrimSpace(filter.Kind)); filter.Kind != "" && !editrequest.IsValidKind(filter.Kind) {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, filter.Kind)
	}

	items, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list edit requests: %w", err)
	}
	return items, nil
}

func (s *EditRequestService) GetByID(ctx context.Context, id string) (editrequest.Request, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return editrequest.Request{}, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}

	r, exists, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return editrequest.Request{}, fmt.Errorf("get edit request: %w", err)
	}
	if !exists {
		return editrequest.Request{}, fmt.Errorf("%w: edit request=%s", ErrNotFound, id)
	}

	return r, nil
}

func (s *EditRequestService) Options() EditRequestOptions {
	return EditRequestOptions{
		Kinds:  editrequest.Kinds(),
		States: editrequest.States(),
	}
}

// PendingCount serves the badge counter the admin UI polls every 30 seconds.
// The value is cached briefly so the polling load never reaches the store.
func (s *EditRequestService) PendingCount(ctx context.Context) (int, error) {
	if s.countCache != nil {
		if cached, ok := s.countCache.Get(ctx, pendingCountCacheKey); ok {
			if count, ok := cached.(int); ok {
				return count, nil
			}
		}
	}

	count, err := s.requestRepo.CountByState(ctx, editrequest.StatePending)
	if err != nil {
		return 0, fmt.Errorf("count pending edit requests: %w", err)
	}

	if s.countCache != nil {
		s.countCache.Set(ctx, pendingCountCacheKey, count)
	}
	return count, nil
}

func (s *EditRequestService) Approve(ctx context.Context, id, decidedBy string) (editrequest.Request, error) {
	return s.transition(ctx, id, editrequest.StateApproved, decidedBy, "")
}

func (s *EditRequestService) Reject(ctx context.Context, id, decidedBy, reason string) (editrequest.Request, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return editrequest.Request{}, fmt.Errorf("%w: rejection reason is required", ErrInvalidInput)
	}
	return s.transition(ctx, id, editrequest.StateRejected, decidedBy, reason)
}

// Cancel withdraws a pending request. Only its creator may cancel.
func (s *EditRequestService) Cancel(ctx context.Context, id, requestedBy string) (editrequest.Request, error) {
	r, err := s.GetByID(ctx, id)
	if err != nil {
		return editrequest.Request{}, err
	}
	if r.CreatedBy != strings.TrimSpace(requestedBy) {
		return editrequest.Request{}, fmt.Errorf("%w: only the creator can cancel request %s", ErrForbidden, r.ID)
	}
	return s.transition(ctx, id, editrequest.StateCancelled, requestedBy, "")
}

func (s *EditRequestService) transition(ctx context.Context, id, target, decidedBy, reason string) (editrequest.Request, error) {
	decidedBy = strings.TrimSpace(decidedBy)
	if decidedBy == "" {
		return editrequest.Request{}, fmt.Errorf("%w: decider is required", ErrInvalidInput)
	}

	r, err := s.GetByID(ctx, id)
	if err != nil {
		return editrequest.Request{}, err
	}
	if !editrequest.CanTransition(r.State, target) {
		return editrequest.Request{}, fmt.Errorf("%w: request %s is %s and cannot become %s", ErrInvalidInput, r.ID, r.State, target)
	}

	now := s.now().UTC()
	r.State = target
	r.RejectionReason = reason
	r.DecidedBy = decidedBy
	r.DecidedAt = &now

	if err := s.requestRepo.Update(ctx, r); err != nil {
		return editrequest.Request{}, fmt.Errorf("update edit request: %w", err)
	}
	s.invalidatePendingCount(ctx)

	if s.notifier != nil {
		if err := s.notifier.NotifyDecision(ctx, r); err != nil {
			s.logger.WarnContext(ctx, "edit request decision notification failed",
				"request_id", r.ID,
				"state", r.State,
				"error", err,
			)
		}
	}

	s.logger.InfoContext(ctx, "edit request decided",
		"request_id", r.ID,
		"state", r.State,
		"decided_by", decidedBy,
	)

	return r, nil
}

func (s *EditRequestService) invalidatePendingCount(ctx context.Context) {
	if s.countCache != nil {
		s.countCache.Delete(ctx, pendingCountCacheKey)
	}
}
