package postgres

import (
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/stats"
)

type setLineTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	SetID         string    `db:"set_public_id"`
	MatchID       string    `db:"match_public_id"`
	RosterEntryID string    `db:"roster_entry_public_id"`
	TeamID        string    `db:"team_id"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type setLineInsertModel struct {
	PublicID      string    `db:"public_id"`
	SetID         string    `db:"set_public_id"`
	MatchID       string    `db:"match_public_id"`
	RosterEntryID string    `db:"roster_entry_public_id"`
	TeamID        string    `db:"team_id"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func setLineFromRow(row setLineTableModel) stats.SetLine {
	return stats.SetLine{
		ID:            row.PublicID,
		SetID:         row.SetID,
		MatchID:       row.MatchID,
		RosterEntryID: row.RosterEntryID,
		TeamID:        row.TeamID,
		Line: stats.Line{
			Throws:  row.Throws,
			Hits:    row.Hits,
			Outs:    row.Outs,
			Catches: row.Catches,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type matchLineTableModel struct {
	ID            int64     `db:"id"`
	PublicID      string    `db:"public_id"`
	MatchID       string    `db:"match_public_id"`
	RosterEntryID string    `db:"roster_entry_public_id"`
	TeamID        string    `db:"team_id"`
	Kind          string    `db:"kind"`
	Source        string    `db:"source"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type matchLineInsertModel struct {
	PublicID      string    `db:"public_id"`
	MatchID       string    `db:"match_public_id"`
	RosterEntryID string    `db:"roster_entry_public_id"`
	TeamID        string    `db:"team_id"`
	Kind          string    `db:"kind"`
	Source        string    `db:"source"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func matchLineFromRow(row matchLineTableModel) stats.MatchLine {
	return stats.MatchLine{
		ID:            row.PublicID,
		MatchID:       row.MatchID,
		RosterEntryID: row.RosterEntryID,
		TeamID:        row.TeamID,
		Kind:          row.Kind,
		Source:        row.Source,
		Line: stats.Line{
			Throws:  row.Throws,
			Hits:    row.Hits,
			Outs:    row.Outs,
			Catches: row.Catches,
		},
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

type teamAggregateTableModel struct {
	ID            int64     `db:"id"`
	MatchID       string    `db:"match_public_id"`
	TeamID        string    `db:"team_id"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	Effectiveness float64   `db:"effectiveness"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type teamAggregateInsertModel struct {
	MatchID       string    `db:"match_public_id"`
	TeamID        string    `db:"team_id"`
	Throws        int       `db:"throws"`
	Hits          int       `db:"hits"`
	Outs          int       `db:"outs"`
	Catches       int       `db:"catches"`
	Effectiveness float64   `db:"effectiveness"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func teamAggregateFromRow(row teamAggregateTableModel) stats.TeamAggregate {
	return stats.TeamAggregate{
		MatchID: row.MatchID,
		TeamID:  row.TeamID,
		Line: stats.Line{
			Throws:  row.Throws,
			Hits:    row.Hits,
			Outs:    row.Outs,
			Catches: row.Catches,
		},
		Effectiveness: row.Effectiveness,
		UpdatedAt:     row.UpdatedAt,
	}
}
