package roster

import (
	"context"
	"time"
)

// Entry is a player's assignment to one team for one specific match. It is
// the unit statistics rows reference, not the player record itself, and is
// deletable independently of any statistics captured against it.
type Entry struct {
	ID        string
	MatchID   string
	PlayerID  string
	TeamID    string
	CreatedAt time.Time
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Entry, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]Entry, error)
	Create(ctx context.Context, e Entry) error
	Delete(ctx context.Context, id string) error
}

// IDSet builds a membership set of entry ids, used to filter statistics rows
// whose assignment has since been removed from the match.
func IDSet(entries []Entry) map[string]struct{} {
	out := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		out[e.ID] = struct{}{}
	}
	return out
}
