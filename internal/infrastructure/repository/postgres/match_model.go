package postgres

import (
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/match"
)

type matchTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	ScheduledAt time.Time  `db:"scheduled_at"`
	Venue       string     `db:"venue"`
	HomeTeamID  string     `db:"home_team_id"`
	AwayTeamID  string     `db:"away_team_id"`
	HomeScore   int        `db:"home_score"`
	AwayScore   int        `db:"away_score"`
	Status      string     `db:"status"`
	CaptureMode string     `db:"capture_mode"`
	DisplayMode string     `db:"display_mode"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type matchInsertModel struct {
	PublicID    string    `db:"public_id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Venue       string    `db:"venue"`
	HomeTeamID  string    `db:"home_team_id"`
	AwayTeamID  string    `db:"away_team_id"`
	HomeScore   int       `db:"home_score"`
	AwayScore   int       `db:"away_score"`
	Status      string    `db:"status"`
	CaptureMode string    `db:"capture_mode"`
	DisplayMode string    `db:"display_mode"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:          row.PublicID,
		ScheduledAt: row.ScheduledAt,
		Venue:       row.Venue,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		Status:      row.Status,
		CaptureMode: row.CaptureMode,
		DisplayMode: row.DisplayMode,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}
