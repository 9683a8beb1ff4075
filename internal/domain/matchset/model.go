package matchset

import (
	"context"
	"strings"
	"time"
)

const (
	StatusPending  = "PENDING"
	StatusLive     = "LIVE"
	StatusFinished = "FINISHED"
)

const (
	WinnerHome    = "home"
	WinnerAway    = "away"
	WinnerPending = "pending"
)

// Set is one game-within-a-match unit with its own winner and state.
// Numbers are 1-based and expected to stay contiguous per match.
type Set struct {
	ID        string
	MatchID   string
	Number    int
	Status    string
	Winner    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Set, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Set, error)
	Create(ctx context.Context, s Set) error
	Update(ctx context.Context, s Set) error
	Delete(ctx context.Context, id string) error
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusPending
	}
	return status
}

func IsValidStatus(value string) bool {
	switch NormalizeStatus(value) {
	case StatusPending, StatusLive, StatusFinished:
		return true
	default:
		return false
	}
}

func NormalizeWinner(value string) string {
	winner := strings.ToLower(strings.TrimSpace(value))
	if winner == "" {
		return WinnerPending
	}
	return winner
}

func IsValidWinner(value string) bool {
	switch NormalizeWinner(value) {
	case WinnerHome, WinnerAway, WinnerPending:
		return true
	default:
		return false
	}
}

// NextNumber returns the lowest positive set number absent from existing.
// Gaps left by past deletions are filled before appending at the end.
func NextNumber(existing []Set) int {
	taken := make(map[int]struct{}, len(existing))
	for _, s := range existing {
		if s.Number > 0 {
			taken[s.Number] = struct{}{}
		}
	}
	for n := 1; ; n++ {
		if _, ok := taken[n]; !ok {
			return n
		}
	}
}

// MaxNumber returns the highest set number among existing, 0 when empty.
func MaxNumber(existing []Set) int {
	max := 0
	for _, s := range existing {
		if s.Number > max {
			max = s.Number
		}
	}
	return max
}
