package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/overtimehq/overtime-api/internal/domain/roster"
	qb "github.com/overtimehq/overtime-api/internal/platform/querybuilder"
)

type RosterRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db, now: time.Now}
}

func (r *RosterRepository) GetByID(ctx context.Context, entryID string) (roster.Entry, bool, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(
			qb.Eq("public_id", entryID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return roster.Entry{}, false, fmt.Errorf("build get roster entry query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Entry{}, false, nil
		}
		return roster.Entry{}, false, fmt.Errorf("get roster entry: %w", err)
	}

	return rosterFromRow(row), true, nil
}

func (r *RosterRepository) ListByMatch(ctx context.Context, matchID string) ([]roster.Entry, error) {
	query, args, err := qb.Select("*").From("roster_entries").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list roster entries query: %w", err)
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}

	out := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, rosterFromRow(row))
	}
	return out, nil
}

func (r *RosterRepository) Create(ctx context.Context, e roster.Entry) error {
	insertModel := rosterInsertModel{
		PublicID:  e.ID,
		MatchID:   e.MatchID,
		PlayerID:  e.PlayerID,
		TeamID:    e.TeamID,
		CreatedAt: e.CreatedAt,
	}

	query, args, err := qb.InsertModel("roster_entries", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert roster entry: %w", err)
	}
	return nil
}

func (r *RosterRepository) Delete(ctx context.Context, entryID string) error {
	query, args, err := qb.Update("roster_entries").
		Set("deleted_at", r.now().UTC()).
		Where(
			qb.Eq("public_id", entryID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete roster entry query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete roster entry: %w", err)
	}
	return nil
}
