package postgres

import (
	"time"

	"github.com/overtimehq/overtime-api/internal/domain/matchset"
)

type setTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	MatchID   string     `db:"match_public_id"`
	Number    int        `db:"set_number"`
	Status    string     `db:"status"`
	Winner    string     `db:"winner"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type setInsertModel struct {
	PublicID  string    `db:"public_id"`
	MatchID   string    `db:"match_public_id"`
	Number    int       `db:"set_number"`
	Status    string    `db:"status"`
	Winner    string    `db:"winner"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func setFromRow(row setTableModel) matchset.Set {
	return matchset.Set{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		Number:    row.Number,
		Status:    row.Status,
		Winner:    row.Winner,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
