package match

import (
	"context"
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
)

const (
	ModeAutomatic = "automatic"
	ModeManual    = "manual"
)

// Match is one scheduled fixture between two teams. CaptureMode controls how
// statistics are entered for it, DisplayMode controls which aggregate the
// public views read; the two are independent.
type Match struct {
	ID          string
	ScheduledAt time.Time
	Venue       string
	HomeTeamID  string
	AwayTeamID  string
	HomeScore   int
	AwayScore   int
	Status      string
	CaptureMode string
	DisplayMode string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Patch carries the optional field updates of a PATCH request. Nil means
// leave the field untouched.
type Patch struct {
	ScheduledAt *time.Time
	Venue       *string
	HomeScore   *int
	AwayScore   *int
	Status      *string
	CaptureMode *string
	DisplayMode *string
}

type Repository interface {
	GetByID(ctx context.Context, id string) (Match, bool, error)
	List(ctx context.Context) ([]Match, error)
	Create(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsValidStatus(value string) bool {
	switch NormalizeStatus(value) {
	case StatusScheduled, StatusLive, StatusFinished, StatusCancelled:
		return true
	default:
		return false
	}
}

func NormalizeMode(value string) string {
	mode := strings.ToLower(strings.TrimSpace(value))
	if mode == "" {
		return ModeAutomatic
	}
	return mode
}

func IsValidMode(value string) bool {
	switch NormalizeMode(value) {
	case ModeAutomatic, ModeManual:
		return true
	default:
		return false
	}
}

// HasTeam reports whether teamID is one of the two sides of the match.
func (m Match) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == m.HomeTeamID || teamID == m.AwayTeamID)
}
