package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/editrequest"
	"github.com/overtimehq/overtime-api/internal/infrastructure/repository/memory"
	"github.com/overtimehq/overtime-api/internal/platform/cache"
	"github.com/overtimehq/overtime-api/internal/platform/logging"
)

type recordingNotifier struct {
	mu       sync.Mutex
	notified []editrequest.Request
	err      error
}

func (n *recordingNotifier) NotifyDecision(_ context.Context, r editrequest.Request) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notified = append(n.notified, r)
	return n.err
}

type editRequestFixture struct {
	repo     *memory.EditRequestRepository
	notifier *recordingNotifier
	svc      *EditRequestService
}

func newEditRequestFixture(countCache *cache.Store) *editRequestFixture {
	f := &editRequestFixture{
		repo:     memory.NewEditRequestRepository(nil),
		notifier: &recordingNotifier{},
	}
	f.svc = NewEditRequestService(
		f.repo,
		f.notifier,
		countCache,
		&seqIDGenerator{prefix: "req"},
		logging.NewNop(),
	)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestEditRequestService_Create(t *testing.T) {
	f := newEditRequestFixture(nil)

	created, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            " Match-Reschedule ",
		TargetID:        memory.MatchIDDerby,
		ProposedChanges: map[string]any{"scheduledAt": "2026-03-14T18:00:00Z"},
		CreatedBy:       "user-capture-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Kind != editrequest.KindMatchReschedule {
		t.Fatalf("kind must be normalized, got %q", created.Kind)
	}
	if created.State != editrequest.StatePending || created.DecidedAt != nil {
		t.Fatalf("new request must start pending and undecided: %+v", created)
	}

	for _, input := range []CreateEditRequestInput{
		{Kind: "typo-fix", ProposedChanges: map[string]any{"a": 1}, CreatedBy: "u"},
		{Kind: editrequest.KindOther, ProposedChanges: map[string]any{"a": 1}},
		{Kind: editrequest.KindOther, CreatedBy: "u"},
	} {
		if _, err := f.svc.Create(t.Context(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestEditRequestService_ApproveNotifiesAndStamps(t *testing.T) {
	f := newEditRequestFixture(nil)

	created, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            editrequest.KindSetWinnerFix,
		TargetID:        "set-opening-1",
		ProposedChanges: map[string]any{"winner": "away"},
		CreatedBy:       "user-capture-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := f.svc.Approve(t.Context(), created.ID, "user-admin-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.State != editrequest.StateApproved || approved.DecidedBy != "user-admin-1" {
		t.Fatalf("unexpected decided request: %+v", approved)
	}
	if approved.DecidedAt == nil || !approved.DecidedAt.Equal(time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("decision timestamp not stamped: %v", approved.DecidedAt)
	}
	if len(f.notifier.notified) != 1 || f.notifier.notified[0].ID != created.ID {
		t.Fatalf("decision must be published once, got %+v", f.notifier.notified)
	}

	// Terminal states admit no further transitions.
	if _, err := f.svc.Reject(t.Context(), created.ID, "user-admin-1", "changed my mind"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput re-deciding a decided request, got %v", err)
	}
}

func TestEditRequestService_NotifierFailureDoesNotFailDecision(t *testing.T) {
	f := newEditRequestFixture(nil)
	f.notifier.err = errors.New("webhook down")

	created, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            editrequest.KindRosterRemove,
		ProposedChanges: map[string]any{"rosterEntryId": "roster-thunder-02"},
		CreatedBy:       "user-capture-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	approved, err := f.svc.Approve(t.Context(), created.ID, "user-admin-1")
	if err != nil {
		t.Fatalf("approve must succeed despite notifier failure: %v", err)
	}
	if approved.State != editrequest.StateApproved {
		t.Fatalf("unexpected state: %q", approved.State)
	}
}

func TestEditRequestService_RejectRequiresReason(t *testing.T) {
	f := newEditRequestFixture(nil)

	created, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            editrequest.KindMatchScoreFix,
		ProposedChanges: map[string]any{"homeScore": 2},
		CreatedBy:       "user-capture-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Reject(t.Context(), created.ID, "user-admin-1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank reason, got %v", err)
	}

	rejected, err := f.svc.Reject(t.Context(), created.ID, "user-admin-1", "score already corrected")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.RejectionReason != "score already corrected" {
		t.Fatalf("reason not stored: %q", rejected.RejectionReason)
	}
}

func TestEditRequestService_CancelCreatorOnly(t *testing.T) {
	f := newEditRequestFixture(nil)

	created, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            editrequest.KindSetAdd,
		ProposedChanges: map[string]any{"matchId": memory.MatchIDOpening},
		CreatedBy:       "user-capture-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.svc.Cancel(t.Context(), created.ID, "user-capture-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for a non-creator, got %v", err)
	}

	cancelled, err := f.svc.Cancel(t.Context(), created.ID, "user-capture-1")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.State != editrequest.StateCancelled {
		t.Fatalf("unexpected state: %q", cancelled.State)
	}
}

func TestEditRequestService_ListFilters(t *testing.T) {
	f := newEditRequestFixture(nil)

	for _, kind := range []string{editrequest.KindSetAdd, editrequest.KindSetRemove, editrequest.KindSetAdd} {
		if _, err := f.svc.Create(t.Context(), CreateEditRequestInput{
			Kind:            kind,
			ProposedChanges: map[string]any{"matchId": memory.MatchIDOpening},
			CreatedBy:       "user-capture-1",
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	adds, err := f.svc.List(t.Context(), editrequest.Filter{Kind: editrequest.KindSetAdd})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(adds) != 2 {
		t.Fatalf("expected 2 set-add requests, got %d", len(adds))
	}

	if _, err := f.svc.List(t.Context(), editrequest.Filter{State: "limbo"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown state, got %v", err)
	}
}

func TestEditRequestService_PendingCountCached(t *testing.T) {
	f := newEditRequestFixture(cache.NewStore(time.Minute))

	if _, err := f.svc.Create(t.Context(), CreateEditRequestInput{
		Kind:            editrequest.KindOther,
		ProposedChanges: map[string]any{"note": "free-form"},
		CreatedBy:       "user-capture-1",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := f.svc.PendingCount(t.Context())
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 pending, got %d", count)
	}

	// A decision invalidates the cached badge value.
	pending, err := f.svc.List(t.Context(), editrequest.Filter{State: editrequest.StatePending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if _, err := f.svc.Approve(t.Context(), pending[0].ID, "user-admin-1"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	count, err = f.svc.PendingCount(t.Context())
	if err != nil {
		t.Fatalf("pending count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 pending after approval, got %d", count)
	}
}

func TestEditRequestService_OptionsCatalog(t *testing.T) {
	f := newEditRequestFixture(nil)

	opts := f.svc.Options()
	if len(opts.Kinds) != len(editrequest.Kinds()) {
		t.Fatalf("kinds catalog incomplete: %d", len(opts.Kinds))
	}
	if len(opts.States) != 4 {
		t.Fatalf("expected 4 states, got %d", len(opts.States))
	}
}
