package stats

import (
	"context"
	"math"
	"strings"
	"time"
)

// Line holds the four counters tracked per player. Missing values are zero.
type Line struct {
	Throws  int
	Hits    int
	Outs    int
	Catches int
}

// Kind separates the two match-level collections: manually typed totals and
// totals derived by summing per-set rows.
const (
	KindManual    = "manual"
	KindAutomatic = "automatic"
)

// Provenance of a saved match-level line: how its initial values were seeded.
const (
	SourceDirectEntry   = "direct-entry"
	SourceFromAutomatic = "seeded-from-automatic"
	SourceFromManual    = "seeded-from-manual"
)

// SetLine is one player's counters for one set, uniquely keyed by
// (SetID, RosterEntryID).
type SetLine struct {
	ID            string
	SetID         string
	MatchID       string
	RosterEntryID string
	TeamID        string
	Line          Line
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// MatchLine is one player's counters for the whole match, in either the
// manual or automatic collection, tagged with the source that seeded it.
type MatchLine struct {
	ID            string
	MatchID       string
	RosterEntryID string
	TeamID        string
	Kind          string
	Source        string
	Line          Line
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TeamAggregate is the per-team sum over all set lines of a match, with
// derived effectiveness. Recomputed server-side, never edited directly.
type TeamAggregate struct {
	MatchID       string
	TeamID        string
	Line          Line
	Effectiveness float64
	UpdatedAt     time.Time
}

type SetLineRepository interface {
	GetByID(ctx context.Context, id string) (SetLine, bool, error)
	GetBySetAndEntry(ctx context.Context, setID, rosterEntryID string) (SetLine, bool, error)
	ListBySet(ctx context.Context, setID string) ([]SetLine, error)
	ListByMatch(ctx context.Context, matchID string) ([]SetLine, error)
	Create(ctx context.Context, l SetLine) error
	Update(ctx context.Context, l SetLine) error
}

type MatchLineRepository interface {
	GetByID(ctx context.Context, id string) (MatchLine, bool, error)
	ListByMatch(ctx context.Context, matchID, kind string) ([]MatchLine, error)
	Create(ctx context.Context, l MatchLine) error
	Update(ctx context.Context, l MatchLine) error
}

type TeamAggregateRepository interface {
	GetByMatchAndTeam(ctx context.Context, matchID, teamID string) (TeamAggregate, bool, error)
	ListByMatch(ctx context.Context, matchID string) ([]TeamAggregate, error)
	Replace(ctx context.Context, a TeamAggregate) error
}

func IsValidKind(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case KindManual, KindAutomatic:
		return true
	default:
		return false
	}
}

func IsValidSource(value string) bool {
	switch strings.TrimSpace(value) {
	case SourceDirectEntry, SourceFromAutomatic, SourceFromManual:
		return true
	default:
		return false
	}
}

// Add sums two lines counter-wise.
func (l Line) Add(other Line) Line {
	return Line{
		Throws:  l.Throws + other.Throws,
		Hits:    l.Hits + other.Hits,
		Outs:    l.Outs + other.Outs,
		Catches: l.Catches + other.Catches,
	}
}

// IsZero reports whether every counter is zero.
func (l Line) IsZero() bool {
	return l == Line{}
}

// Valid reports whether no counter is negative.
func (l Line) Valid() bool {
	return l.Throws >= 0 && l.Hits >= 0 && l.Outs >= 0 && l.Catches >= 0
}

// Adjust applies delta to value clamping at zero: counters never go negative
// no matter how many decrements arrive.
func Adjust(value, delta int) int {
	out := value + delta
	if out < 0 {
		return 0
	}
	return out
}

// Effectiveness is hits over throws as a percentage, zero when the player
// never threw.
func (l Line) Effectiveness() float64 {
	if l.Throws <= 0 {
		return 0
	}
	return float64(l.Hits) / float64(l.Throws) * 100
}

// RoundEffectiveness rounds to one decimal for display.
func RoundEffectiveness(value float64) float64 {
	return math.Round(value*10) / 10
}
