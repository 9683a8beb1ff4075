package editrequest

import (
	"context"
	"strings"
	"time"
)

const (
	StatePending   = "pending"
	StateApproved  = "approved"
	StateRejected  = "rejected"
	StateCancelled = "cancelled"
)

// Kinds of change a request may propose. The catalog mirrors the editable
// surface of the admin: match scheduling and scoring, set lifecycle, roster
// membership, and statistics corrections.
const (
	KindMatchReschedule    = "match-reschedule"
	KindMatchVenueChange   = "match-venue-change"
	KindMatchScoreFix      = "match-score-fix"
	KindMatchStatusChange  = "match-status-change"
	KindMatchCaptureMode   = "match-capture-mode"
	KindMatchDisplayMode   = "match-display-mode"
	KindMatchCancel        = "match-cancel"
	KindSetAdd             = "set-add"
	KindSetRemove          = "set-remove"
	KindSetWinnerFix       = "set-winner-fix"
	KindSetStatusChange    = "set-status-change"
	KindRosterAdd          = "roster-add"
	KindRosterRemove       = "roster-remove"
	KindRosterTeamSwap     = "roster-team-swap"
	KindSetStatsFix        = "set-stats-fix"
	KindMatchStatsFix      = "match-stats-fix"
	KindAggregateRecalc    = "aggregate-recalc"
	KindPlayerNameFix      = "player-name-fix"
	KindTeamNameFix        = "team-name-fix"
	KindOther              = "other"
)

// Request is a typed change proposal that must be approved before the change
// takes effect. State transitions happen in this service only; terminal
// states are final.
type Request struct {
	ID              string
	Kind            string
	TargetID        string
	ProposedChanges map[string]any
	State           string
	RejectionReason string
	CreatedBy       string
	DecidedBy       string
	CreatedAt       time.Time
	DecidedAt       *time.Time
}

// Filter narrows listings; empty fields match everything.
type Filter struct {
	State string
	Kind  string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Request, bool, error)
	List(ctx context.Context, f Filter) ([]Request, error)
	CountByState(ctx context.Context, state string) (int, error)
	Create(ctx context.Context, r Request) error
	Update(ctx context.Context, r Request) error
}

func Kinds() []string {
	return []string{
		KindMatchReschedule,
		KindMatchVenueChange,
		KindMatchScoreFix,
		KindMatchStatusChange,
		KindMatchCaptureMode,
		KindMatchDisplayMode,
		KindMatchCancel,
		KindSetAdd,
		KindSetRemove,
		KindSetWinnerFix,
		KindSetStatusChange,
		KindRosterAdd,
		KindRosterRemove,
		KindRosterTeamSwap,
		KindSetStatsFix,
		KindMatchStatsFix,
		KindAggregateRecalc,
		KindPlayerNameFix,
		KindTeamNameFix,
		KindOther,
	}
}

func States() []string {
	return []string{StatePending, StateApproved, StateRejected, StateCancelled}
}

func IsValidKind(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, kind := range Kinds() {
		if kind == value {
			return true
		}
	}
	return false
}

func IsValidState(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case StatePending, StateApproved, StateRejected, StateCancelled:
		return true
	default:
		return false
	}
}

// CanTransition reports whether from may move to to. Only pending requests
// move anywhere.
func CanTransition(from, to string) bool {
	if from != StatePending {
		return false
	}
	switch to {
	case StateApproved, StateRejected, StateCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether state admits no further transitions.
func IsTerminal(state string) bool {
	switch state {
	case StateApproved, StateRejected, StateCancelled:
		return true
	default:
		return false
	}
}
