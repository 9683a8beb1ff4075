package postgres

import (
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
)

type rosterTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MatchID   string     `db:"match_public_id"`
	PlayerID  string     `db:"player_id"`
	TeamID    string     `db:"team_id"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type rosterInsertModel struct {
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	PlayerID  string    `db:"player_id"`
	TeamID    string    `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
}

func rosterFromRow(row rosterTableModel) roster.Entry {
	return roster.Entry{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		PlayerID:  row.PlayerID,
		TeamID:    row.TeamID,
		CreatedAt: row.CreatedAt,
	}
}
